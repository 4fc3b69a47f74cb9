package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/alexanderramin/journeyctl/internal/cli/formatter"
	"github.com/alexanderramin/journeyctl/internal/notify"
)

// Notifier prints store notifications to a terminal and keeps the retry of
// the most recent failure so a command can offer it.
type Notifier struct {
	mu    sync.Mutex
	w     io.Writer
	retry func(ctx context.Context)
}

func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

func (n *Notifier) Notify(note notify.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, formatter.FormatNotification(note))
	if note.Level == notify.LevelError {
		n.retry = note.Retry
	}
}

// TakeRetry returns and forgets the pending retry, or nil.
func (n *Notifier) TakeRetry() func(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fn := n.retry
	n.retry = nil
	return fn
}
