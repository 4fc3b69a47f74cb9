package journey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/journeyctl/internal/domain"
	"github.com/alexanderramin/journeyctl/internal/notify"
	"github.com/alexanderramin/journeyctl/internal/repository"
)

// API is the remote journeys service the store synchronizes with.
type API interface {
	CreateJourney(ctx context.Context, name, description string) (domain.Journey, error)
	GetJourney(ctx context.Context, id string) (domain.Journey, error)
	SaveJourney(ctx context.Context, j domain.Journey) error
	SaveCanvas(ctx context.Context, id string, canvas domain.Canvas) error
	LoadCanvas(ctx context.Context, id string) (domain.Canvas, error)
	SaveGoals(ctx context.Context, id string, goals []domain.Goal) error
	LoadGoals(ctx context.Context, id string) ([]domain.Goal, error)
	SaveMilestones(ctx context.Context, id string, milestones []domain.Milestone) error
	LoadMilestones(ctx context.Context, id string) ([]domain.Milestone, error)
	UpdateJourney(ctx context.Context, id string, patch domain.JourneyPatch) error
	DeleteJourney(ctx context.Context, id string, hard bool) error
	DuplicateJourney(ctx context.Context, id, newName string) (domain.Journey, error)
	ListJourneys(ctx context.Context, opts domain.ListOptions) ([]domain.Journey, error)
}

// Store is the single source of truth for one journey aggregate. Mutators
// are synchronous and serialized by a mutex; sync operations snapshot state,
// release the lock for network I/O and re-acquire it to apply results.
type Store struct {
	mu      sync.Mutex
	j       domain.Journey
	t       Tracking
	metaGen uint64
	saving  bool
	loading bool
	lastErr string

	api        API
	repo       repository.StateRepo
	notifier   notify.Notifier
	observer   UseCaseObserver
	logger     *slog.Logger
	now        func() time.Time
	retryDelay func(attempt int) time.Duration

	listenersMu  sync.Mutex
	listeners    map[int]func(domain.Canvas)
	nextListener int

	persistMu    sync.Mutex
	persistSeq   uint64
	persistedSeq uint64
}

type Option func(*Store)

func WithAPI(api API) Option { return func(s *Store) { s.api = api } }

// WithStateRepo persists the store under JourneyStateKey on every change.
func WithStateRepo(repo repository.StateRepo) Option { return func(s *Store) { s.repo = repo } }

func WithNotifier(n notify.Notifier) Option { return func(s *Store) { s.notifier = n } }

func WithObserver(o UseCaseObserver) Option { return func(s *Store) { s.observer = o } }

func WithLogger(l *slog.Logger) Option { return func(s *Store) { s.logger = l } }

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithRetryDelay overrides the backoff between goal/milestone save retries.
func WithRetryDelay(fn func(attempt int) time.Duration) Option {
	return func(s *Store) { s.retryDelay = fn }
}

const maxSaveRetries = 2

func New(opts ...Option) *Store {
	s := &Store{
		notifier:   notify.Discard{},
		observer:   NoopUseCaseObserver{},
		logger:     slog.New(slog.DiscardHandler),
		now:        func() time.Time { return time.Now().UTC() },
		retryDelay: func(attempt int) time.Duration { return time.Second << attempt },
		listeners:  map[int]func(domain.Canvas){},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.j = domain.EmptyJourney(s.now())
	s.t = newTracking()
	return s
}

// Restore replaces in-memory state with the persisted document, if any.
func (s *Store) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	data, err := s.repo.Get(ctx, repository.JourneyStateKey)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restoring journey state: %w", err)
	}
	st, err := DecodeState(data)
	if err != nil {
		return fmt.Errorf("restoring journey state: %w", err)
	}

	s.mu.Lock()
	s.j = st.Journey
	s.t = st.Tracking
	canvas := s.j.Canvas()
	s.mu.Unlock()

	s.emit(canvas)
	return nil
}

// Journey returns a deep copy of the aggregate.
func (s *Store) Journey() domain.Journey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.j.Clone()
}

func (s *Store) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.j.ID
}

func (s *Store) Canvas() domain.Canvas {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.j.Canvas()
}

// Tracking returns a copy of the dirty-tracking state.
func (s *Store) Tracking() Tracking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t.clone()
}

// ChangedItems returns the entities currently marked dirty.
func (s *Store) ChangedItems() ChangedItems {
	s.mu.Lock()
	defer s.mu.Unlock()
	return changedItems(s.j.Clone(), s.t)
}

func (s *Store) IsSaving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) UnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t.UnsavedChanges
}

// LastError is the message of the most recent failed sync operation.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}

// MarkNodeChanged and its siblings insert an id into a dirty set directly.
func (s *Store) MarkNodeChanged(id string) { s.mark(func() { s.t.ChangedNodes.Add(id) }) }

func (s *Store) MarkEdgeChanged(id string) { s.mark(func() { s.t.ChangedEdges.Add(id) }) }

func (s *Store) MarkGoalChanged(id string) { s.mark(func() { s.t.ChangedGoals.Add(id) }) }

func (s *Store) MarkMilestoneChanged(id string) {
	s.mark(func() { s.t.ChangedMilestones.Add(id) })
}

func (s *Store) MarkReportChanged(id string) { s.mark(func() { s.t.ChangedReports.Add(id) }) }

func (s *Store) MarkMetadataChanged() { s.mark(s.markMetadataLocked) }

func (s *Store) mark(fn func()) {
	s.commit(false, func() bool {
		fn()
		s.t.UnsavedChanges = true
		return true
	})
}

// ClearChangeTracking empties every dirty set and stamps lastSavedAt.
func (s *Store) ClearChangeTracking() {
	s.commit(false, func() bool {
		hash := s.t.LastSavedHash
		s.t = newTracking()
		s.t.LastSavedHash = hash
		now := s.now()
		s.t.LastSavedAt = &now
		s.metaGen++
		return true
	})
}

// OnCanvasChange registers fn to receive the (nodes, edges) pair after every
// canvas mutation. fn runs after the store lock is released.
func (s *Store) OnCanvasChange(fn func(domain.Canvas)) (cancel func()) {
	s.listenersMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.listenersMu.Unlock()
	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Store) emit(c domain.Canvas) {
	s.listenersMu.Lock()
	fns := make([]func(domain.Canvas), 0, len(s.listeners))
	for id := 0; id < s.nextListener; id++ {
		if fn, ok := s.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.listenersMu.Unlock()
	for _, fn := range fns {
		fn(c.Clone())
	}
}

// touchLocked records a semantic change to the aggregate.
func (s *Store) touchLocked() {
	s.t.UnsavedChanges = true
	s.j.UpdatedAt = s.now()
}

func (s *Store) markMetadataLocked() {
	s.t.MetadataChanged = true
	s.metaGen++
}

// commit runs fn under the lock. When fn reports a change the new state is
// persisted and, for canvas changes, listeners are notified.
func (s *Store) commit(canvas bool, fn func() bool) bool {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return false
	}
	data, seq := s.encodeLocked()
	var snap domain.Canvas
	if canvas {
		snap = s.j.Canvas()
	}
	s.mu.Unlock()

	s.persist(data, seq)
	if canvas {
		s.emit(snap)
	}
	return true
}

func (s *Store) encodeLocked() ([]byte, uint64) {
	if s.repo == nil {
		return nil, 0
	}
	data, err := json.Marshal(State{Journey: s.j, Tracking: s.t})
	if err != nil {
		s.logger.Warn("encoding journey state", "error", err)
		return nil, 0
	}
	s.persistSeq++
	return data, s.persistSeq
}

// persist writes data unless a newer snapshot has already been written.
// Failures are logged, never propagated.
func (s *Store) persist(data []byte, seq uint64) {
	if s.repo == nil || data == nil {
		return
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if seq <= s.persistedSeq {
		return
	}
	if err := s.repo.Put(context.Background(), repository.JourneyStateKey, data); err != nil {
		s.logger.Warn("persisting journey state", "error", err)
		return
	}
	s.persistedSeq = seq
}

// EncodeState serializes the persisted part of the store.
func (s *Store) EncodeState() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(State{Journey: s.j, Tracking: s.t})
}
