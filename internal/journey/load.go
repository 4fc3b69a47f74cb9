package journey

import (
	"context"
	"time"

	"github.com/alexanderramin/journeyctl/internal/domain"
	"github.com/alexanderramin/journeyctl/internal/notify"
)

func (s *Store) beginLoad(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return "", false
	}
	s.loading = true
	s.lastErr = ""
	if id == "" {
		id = s.j.ID
	}
	return id, true
}

// endLoad clears the loading flag and, on success, applies fn under the
// lock. Canvas loads notify listeners.
func (s *Store) endLoad(canvas bool, err error, fn func()) {
	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastErr = err.Error()
		s.mu.Unlock()
		return
	}
	fn()
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
}

func (s *Store) loadFailed(ctx context.Context, start time.Time, id, op string, canvas bool, err error, title string, retry func(context.Context) Outcome) Outcome {
	s.endLoad(canvas, err, nil)
	s.notifyFailure(title, err, retry)
	return s.observe(ctx, start, id, failed(op, err))
}

// LoadFromAPI replaces the whole aggregate with the server copy of id, or
// of the current journey when id is empty. Tracking is reset and the loaded
// content becomes the last saved baseline.
func (s *Store) LoadFromAPI(ctx context.Context, id string) Outcome {
	const op = "load"
	start := s.now()
	id, ok := s.beginLoad(id)
	if !ok {
		return s.observe(ctx, start, id, skipped(op, ErrLoadInProgress))
	}
	retry := func(ctx context.Context) Outcome { return s.LoadFromAPI(ctx, id) }
	if s.api == nil {
		return s.loadFailed(ctx, start, id, op, true, errNoAPI, "Failed to load journey", retry)
	}

	j, err := s.api.GetJourney(ctx, id)
	if err != nil {
		return s.loadFailed(ctx, start, id, op, true, err, "Failed to load journey", retry)
	}
	j.Normalize()
	hash, err := ContentHash(j)
	if err != nil {
		return s.loadFailed(ctx, start, id, op, true, err, "Failed to load journey", retry)
	}

	s.endLoad(true, nil, func() {
		s.replaceLocked(j)
		s.t.LastSavedHash = hash
		now := s.now()
		s.t.LastSavedAt = &now
	})
	s.notifier.Notify(notify.Notification{Level: notify.LevelSuccess, Title: "Journey loaded", Description: j.Name})
	return s.observe(ctx, start, j.ID, done(op))
}

// LoadCanvasFromAPI replaces nodes and edges with the server copy.
func (s *Store) LoadCanvasFromAPI(ctx context.Context) Outcome {
	const op = "load_canvas"
	start := s.now()
	id, ok := s.beginLoad("")
	if !ok {
		return s.observe(ctx, start, id, skipped(op, ErrLoadInProgress))
	}
	if s.api == nil {
		return s.loadFailed(ctx, start, id, op, true, errNoAPI, "Failed to load canvas", s.LoadCanvasFromAPI)
	}
	c, err := s.api.LoadCanvas(ctx, id)
	if err != nil {
		return s.loadFailed(ctx, start, id, op, true, err, "Failed to load canvas", s.LoadCanvasFromAPI)
	}
	c = c.Clone()
	if c.Nodes == nil {
		c.Nodes = []domain.Node{}
	}
	if c.Edges == nil {
		c.Edges = []domain.Edge{}
	}
	s.endLoad(true, nil, func() {
		s.j.Nodes = c.Nodes
		s.j.Edges = c.Edges
		s.t.ChangedNodes = domain.IDSet{}
		s.t.ChangedEdges = domain.IDSet{}
		s.t.UnsavedChanges = s.t.anyDirty()
	})
	return s.observe(ctx, start, id, done(op))
}

// LoadGoalsFromAPI replaces the goal list with the server copy.
func (s *Store) LoadGoalsFromAPI(ctx context.Context) Outcome {
	const op = "load_goals"
	start := s.now()
	id, ok := s.beginLoad("")
	if !ok {
		return s.observe(ctx, start, id, skipped(op, ErrLoadInProgress))
	}
	if s.api == nil {
		return s.loadFailed(ctx, start, id, op, false, errNoAPI, "Failed to load goals", s.LoadGoalsFromAPI)
	}
	goals, err := s.api.LoadGoals(ctx, id)
	if err != nil {
		return s.loadFailed(ctx, start, id, op, false, err, "Failed to load goals", s.LoadGoalsFromAPI)
	}
	s.endLoad(false, nil, func() {
		s.j.Goals = goals
		s.j.Normalize()
		s.t.ChangedGoals = domain.IDSet{}
		s.t.UnsavedChanges = s.t.anyDirty()
	})
	return s.observe(ctx, start, id, done(op))
}

// LoadMilestonesFromAPI replaces the milestone list with the server copy.
func (s *Store) LoadMilestonesFromAPI(ctx context.Context) Outcome {
	const op = "load_milestones"
	start := s.now()
	id, ok := s.beginLoad("")
	if !ok {
		return s.observe(ctx, start, id, skipped(op, ErrLoadInProgress))
	}
	if s.api == nil {
		return s.loadFailed(ctx, start, id, op, false, errNoAPI, "Failed to load milestones", s.LoadMilestonesFromAPI)
	}
	milestones, err := s.api.LoadMilestones(ctx, id)
	if err != nil {
		return s.loadFailed(ctx, start, id, op, false, err, "Failed to load milestones", s.LoadMilestonesFromAPI)
	}
	s.endLoad(false, nil, func() {
		s.j.Milestones = milestones
		s.j.Normalize()
		s.t.ChangedMilestones = domain.IDSet{}
		s.t.UnsavedChanges = s.t.anyDirty()
	})
	return s.observe(ctx, start, id, done(op))
}
