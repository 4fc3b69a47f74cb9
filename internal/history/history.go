// Package history keeps an undo/redo log of whole-canvas snapshots.
package history

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alexanderramin/journeyctl/internal/domain"
	"github.com/alexanderramin/journeyctl/internal/journey"
)

// DefaultLimit is the number of snapshots retained.
const DefaultLimit = 50

// ErrInvalidLog is returned by Restore when the cursor does not address an
// entry of the log.
var ErrInvalidLog = errors.New("invalid canvas history")

// Canvas is the store surface the history observes and replays into.
type Canvas interface {
	OnCanvasChange(fn func(domain.Canvas)) (cancel func())
	EditCanvas(fn func(journey.CanvasEditor))
}

// Log is the serializable form of a History.
type Log struct {
	Entries []domain.Canvas `json:"entries"`
	Index   int             `json:"index"`
}

type History struct {
	mu      sync.Mutex
	entries []domain.Canvas
	index   int
	limit   int
	skip    bool

	canvas Canvas
	cancel func()
	logger *slog.Logger
}

type Option func(*History)

// WithLimit caps the retained snapshots. Values below 1 are ignored.
func WithLimit(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.limit = n
		}
	}
}

func WithLogger(l *slog.Logger) Option { return func(h *History) { h.logger = l } }

// New starts observing canvas. Call Close to stop.
func New(canvas Canvas, opts ...Option) *History {
	h := &History{
		index:  -1,
		limit:  DefaultLimit,
		canvas: canvas,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.cancel = canvas.OnCanvasChange(h.observe)
	return h
}

func (h *History) Close() {
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// observe records c unless it was produced by Undo/Redo, is empty, or
// equals the current entry. Entries after the cursor are discarded.
func (h *History) observe(c domain.Canvas) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.skip {
		h.skip = false
		return
	}
	if c.IsEmpty() {
		return
	}
	if h.index >= 0 && h.entries[h.index].Equal(c) {
		return
	}

	h.entries = append(h.entries[:h.index+1], c.Clone())
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
	h.index = len(h.entries) - 1
}

// Record observes c as if the store had emitted it. Callers use it to seed
// the log with the canvas present before observation started.
func (h *History) Record(c domain.Canvas) { h.observe(c) }

// Undo moves the cursor back one entry and replays it. It reports false
// when there is nothing to undo.
func (h *History) Undo() bool {
	h.mu.Lock()
	if h.index <= 0 {
		h.mu.Unlock()
		return false
	}
	h.index--
	target := h.entries[h.index].Clone()
	h.skip = true
	h.mu.Unlock()

	h.logger.Debug("undo", "index", h.Index())
	h.replay(target)
	return true
}

// Redo moves the cursor forward one entry and replays it.
func (h *History) Redo() bool {
	h.mu.Lock()
	if h.index < 0 || h.index >= len(h.entries)-1 {
		h.mu.Unlock()
		return false
	}
	h.index++
	target := h.entries[h.index].Clone()
	h.skip = true
	h.mu.Unlock()

	h.logger.Debug("redo", "index", h.Index())
	h.replay(target)
	return true
}

// replay clears the canvas and re-adds every node and edge of target
// through the store's own mutators, in one batch.
func (h *History) replay(target domain.Canvas) {
	h.canvas.EditCanvas(func(ed journey.CanvasEditor) {
		for _, e := range ed.Edges() {
			ed.RemoveEdge(e.ID)
		}
		for _, n := range ed.Nodes() {
			ed.RemoveNode(n.ID)
		}
		for _, n := range target.Nodes {
			ed.AddNode(n)
		}
		for _, e := range target.Edges {
			ed.AddEdge(e)
		}
	})
}

func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index > 0
}

func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index >= 0 && h.index < len(h.entries)-1
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Index is the cursor, -1 when the log is empty.
func (h *History) Index() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index
}

// Export returns a deep copy of the log.
func (h *History) Export() Log {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := Log{Entries: make([]domain.Canvas, len(h.entries)), Index: h.index}
	for i, c := range h.entries {
		out.Entries[i] = c.Clone()
	}
	return out
}

// Restore replaces the log. The cursor must address an entry, or be -1 for
// an empty log. Entries beyond the limit are dropped from the front.
func (h *History) Restore(l Log) error {
	if len(l.Entries) == 0 {
		if l.Index != -1 {
			return fmt.Errorf("%w: index %d on empty log", ErrInvalidLog, l.Index)
		}
	} else if l.Index < 0 || l.Index >= len(l.Entries) {
		return fmt.Errorf("%w: index %d outside [0, %d]", ErrInvalidLog, l.Index, len(l.Entries)-1)
	}

	entries := make([]domain.Canvas, len(l.Entries))
	for i, c := range l.Entries {
		entries[i] = c.Clone()
	}
	index := l.Index

	h.mu.Lock()
	defer h.mu.Unlock()
	if over := len(entries) - h.limit; over > 0 {
		entries = entries[over:]
		index = max(index-over, 0)
	}
	h.entries = entries
	h.index = index
	h.skip = false
	return nil
}
