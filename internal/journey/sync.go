package journey

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/journeyctl/internal/api"
	"github.com/alexanderramin/journeyctl/internal/domain"
	"github.com/alexanderramin/journeyctl/internal/notify"
	"golang.org/x/sync/errgroup"
)

var errNoAPI = errors.New("no journeys api configured")

// saveSnapshot is the state captured under the lock before an upload.
type saveSnapshot struct {
	journey  domain.Journey
	captured Tracking
	metaGen  uint64
}

// beginSave sets the saving flag, or reports false when a save is already
// in flight.
func (s *Store) beginSave() (saveSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return saveSnapshot{}, false
	}
	s.saving = true
	s.lastErr = ""
	return saveSnapshot{journey: s.j.Clone(), captured: s.t.clone(), metaGen: s.metaGen}, true
}

func (s *Store) abortSave() {
	s.mu.Lock()
	s.saving = false
	s.mu.Unlock()
}

// settleUnchanged clears the saving flag and the captured dirty ids when
// the content matches the last save, such as an edit that was reverted.
func (s *Store) settleUnchanged(snap saveSnapshot) {
	s.mu.Lock()
	s.saving = false
	s.t.settle(snap.captured, famAll)
	if s.metaGen == snap.metaGen {
		s.t.MetadataChanged = false
	}
	s.t.UnsavedChanges = s.t.anyDirty()
	data, seq := s.encodeLocked()
	s.mu.Unlock()
	s.persist(data, seq)
}

// endSave clears the saving flag. On success it settles the captured dirty
// ids of the given families and persists the result.
func (s *Store) endSave(snap saveSnapshot, f family, hash string, err error) {
	s.mu.Lock()
	s.saving = false
	if err != nil {
		s.lastErr = err.Error()
		s.mu.Unlock()
		return
	}
	s.t.settle(snap.captured, f)
	if f == famAll && s.metaGen == snap.metaGen {
		s.t.MetadataChanged = false
	}
	if hash != "" {
		s.t.LastSavedHash = hash
	}
	now := s.now()
	s.t.LastSavedAt = &now
	s.t.UnsavedChanges = s.t.anyDirty()
	data, seq := s.encodeLocked()
	s.mu.Unlock()
	s.persist(data, seq)
}

// SaveToAPI uploads canvas, goals and milestones concurrently, then records
// a best-effort full snapshot. It skips when the content hash matches the
// last save or nothing is dirty. Any failed upload fails the whole save.
func (s *Store) SaveToAPI(ctx context.Context) Outcome {
	const op = "save"
	start := s.now()
	snap, ok := s.beginSave()
	if !ok {
		return s.observe(ctx, start, "", skipped(op, ErrSaveInProgress))
	}
	id := snap.journey.ID

	hash, err := ContentHash(snap.journey)
	if err != nil {
		return s.saveFailed(ctx, start, snap, op, err, "Saving failed. Try again", s.SaveToAPI)
	}
	if snap.captured.LastSavedHash != "" && snap.captured.LastSavedHash == hash {
		s.settleUnchanged(snap)
		s.notifier.Notify(notify.Notification{Level: notify.LevelInfo, Title: "Nothing new to save", Description: "No changes detected since last save"})
		return s.observe(ctx, start, id, skipped(op, ErrUnchanged))
	}
	if changedItems(snap.journey, snap.captured).IsEmpty() {
		s.abortSave()
		s.notifier.Notify(notify.Notification{Level: notify.LevelInfo, Title: "Nothing new to save", Description: "No changes detected since last save"})
		return s.observe(ctx, start, id, skipped(op, ErrNothingToSave))
	}
	if s.api == nil {
		return s.saveFailed(ctx, start, snap, op, errNoAPI, "Saving failed. Try again", s.SaveToAPI)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.api.SaveCanvas(gctx, id, snap.journey.Canvas()) })
	g.Go(func() error { return s.api.SaveGoals(gctx, id, snap.journey.Goals) })
	g.Go(func() error { return s.api.SaveMilestones(gctx, id, snap.journey.Milestones) })
	if err := g.Wait(); err != nil {
		return s.saveFailed(ctx, start, snap, op, err, "Saving failed. Try again", s.SaveToAPI)
	}

	if err := s.api.SaveJourney(ctx, snap.journey); err != nil {
		s.logger.Warn("journey snapshot failed", "journey_id", id, "error", err)
	}

	s.endSave(snap, famAll, hash, nil)
	s.notifier.Notify(notify.Notification{Level: notify.LevelSuccess, Title: "Journey saved successfully!", Description: "All changes have been saved to the server"})
	return s.observe(ctx, start, id, done(op))
}

// SaveCanvasToAPI uploads nodes and edges when either is dirty.
func (s *Store) SaveCanvasToAPI(ctx context.Context) Outcome {
	const op = "save_canvas"
	start := s.now()
	snap, ok := s.beginSave()
	if !ok {
		return s.observe(ctx, start, "", skipped(op, ErrSaveInProgress))
	}
	id := snap.journey.ID
	if snap.captured.ChangedNodes.Len() == 0 && snap.captured.ChangedEdges.Len() == 0 {
		s.abortSave()
		s.notifier.Notify(notify.Notification{Level: notify.LevelInfo, Title: "No changes to save", Description: "Canvas is already up to date"})
		return s.observe(ctx, start, id, skipped(op, ErrNothingToSave))
	}
	if s.api == nil {
		return s.saveFailed(ctx, start, snap, op, errNoAPI, "Canvas save failed", s.SaveCanvasToAPI)
	}

	if err := s.api.SaveCanvas(ctx, id, snap.journey.Canvas()); err != nil {
		return s.saveFailed(ctx, start, snap, op, err, "Canvas save failed", s.SaveCanvasToAPI)
	}
	s.endSave(snap, famCanvas, "", nil)
	s.notifier.Notify(notify.Notification{Level: notify.LevelSuccess, Title: "Canvas saved successfully!", Description: "Your canvas changes have been saved"})
	return s.observe(ctx, start, id, done(op))
}

// SaveGoalsToAPI uploads every goal, retrying network failures with
// exponential backoff.
func (s *Store) SaveGoalsToAPI(ctx context.Context) Outcome {
	const op = "save_goals"
	start := s.now()
	snap, ok := s.beginSave()
	if !ok {
		return s.observe(ctx, start, "", skipped(op, ErrSaveInProgress))
	}
	id := snap.journey.ID
	err := s.withRetry(ctx, op, func() error {
		if s.api == nil {
			return errNoAPI
		}
		return s.api.SaveGoals(ctx, id, snap.journey.Goals)
	})
	if err != nil {
		return s.saveFailed(ctx, start, snap, op, err, "Failed to save goals", s.SaveGoalsToAPI)
	}
	s.endSave(snap, famGoals, "", nil)
	s.notifier.Notify(notify.Notification{Level: notify.LevelSuccess, Title: "Goals saved successfully!"})
	return s.observe(ctx, start, id, done(op))
}

// SaveMilestonesToAPI uploads every milestone with sortOrder re-derived
// from its position, retrying network failures with exponential backoff.
func (s *Store) SaveMilestonesToAPI(ctx context.Context) Outcome {
	const op = "save_milestones"
	start := s.now()
	snap, ok := s.beginSave()
	if !ok {
		return s.observe(ctx, start, "", skipped(op, ErrSaveInProgress))
	}
	id := snap.journey.ID
	milestones := snap.journey.Milestones
	for i := range milestones {
		milestones[i].SortOrder = i
	}
	err := s.withRetry(ctx, op, func() error {
		if s.api == nil {
			return errNoAPI
		}
		return s.api.SaveMilestones(ctx, id, milestones)
	})
	if err != nil {
		return s.saveFailed(ctx, start, snap, op, err, "Failed to save milestones", s.SaveMilestonesToAPI)
	}
	s.endSave(snap, famMilestones, "", nil)
	s.notifier.Notify(notify.Notification{Level: notify.LevelSuccess, Title: "Milestones saved successfully!"})
	return s.observe(ctx, start, id, done(op))
}

// withRetry runs fn, retrying up to maxSaveRetries times while the failure
// looks network related.
func (s *Store) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || attempt >= maxSaveRetries || !api.IsNetworkError(err) {
			return err
		}
		delay := s.retryDelay(attempt)
		s.logger.Info("retrying save", "op", op, "attempt", attempt+1, "delay", delay, "error", err)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}
}

func (s *Store) saveFailed(ctx context.Context, start time.Time, snap saveSnapshot, op string, err error, title string, retry func(context.Context) Outcome) Outcome {
	s.endSave(snap, 0, "", err)
	s.notifyFailure(title, err, retry)
	return s.observe(ctx, start, snap.journey.ID, failed(op, err))
}

// notifyFailure emits an error notification whose retry re-invokes the same
// operation. A nil retry omits the affordance.
func (s *Store) notifyFailure(title string, err error, retry func(context.Context) Outcome) {
	n := notify.Notification{Level: notify.LevelError, Title: title, Description: err.Error()}
	if retry != nil {
		n.Retry = func(ctx context.Context) { retry(ctx) }
	}
	s.notifier.Notify(n)
}
