package notify

import (
	"context"
	"log/slog"
	"sync"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient user-facing message. Retry, when set,
// re-invokes the operation that failed.
type Notification struct {
	Level       Level
	Title       string
	Description string
	Retry       func(ctx context.Context)
}

// Notifier delivers notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(Notification) {}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification and whether there was one.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier emits notifications as structured log records.
func NewLogNotifier(logger *slog.Logger) Notifier {
	if logger == nil {
		return Discard{}
	}
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Notify(note Notification) {
	attrs := []any{"title", note.Title, "retryable", note.Retry != nil}
	if note.Description != "" {
		attrs = append(attrs, "description", note.Description)
	}
	switch note.Level {
	case LevelError:
		n.logger.Error("notification", attrs...)
	default:
		n.logger.Info("notification", attrs...)
	}
}
