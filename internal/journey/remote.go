package journey

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/journeyctl/internal/domain"
	"github.com/alexanderramin/journeyctl/internal/notify"
)

// CreateInAPI creates a journey on the server and adopts it as the current
// aggregate. Unlike the other sync operations it returns the failure to the
// caller after notifying.
func (s *Store) CreateInAPI(ctx context.Context, name, description string) (domain.Journey, error) {
	const op = "create"
	start := s.now()
	if name == "" {
		name = fmt.Sprintf("Journey %d", start.UnixMilli())
	}
	if description == "" {
		description = "New journey created"
	}
	s.setLastErr("")

	var (
		j   domain.Journey
		err = errNoAPI
	)
	if s.api != nil {
		j, err = s.api.CreateJourney(ctx, name, description)
	}
	if err != nil {
		s.setLastErr(err.Error())
		s.notifyFailure("Failed to create journey", err, func(ctx context.Context) Outcome {
			if _, err := s.CreateInAPI(ctx, name, description); err != nil {
				return failed(op, err)
			}
			return done(op)
		})
		s.observe(ctx, start, "", failed(op, err))
		return domain.Journey{}, fmt.Errorf("creating journey: %w", err)
	}

	j.Normalize()
	hash, herr := ContentHash(j)
	if herr != nil {
		s.logger.Warn("hashing created journey", "journey_id", j.ID, "error", herr)
	}
	s.commit(true, func() bool {
		s.replaceLocked(j)
		s.t.LastSavedHash = hash
		return true
	})
	s.notifier.Notify(notify.Notification{Level: notify.LevelSuccess, Title: "Journey created", Description: j.Name})
	s.observe(ctx, start, j.ID, done(op))
	return j.Clone(), nil
}

// DeleteFromAPI deletes the current journey on the server, soft by default,
// and clears the local aggregate on success.
func (s *Store) DeleteFromAPI(ctx context.Context, hard bool) Outcome {
	const op = "delete"
	start := s.now()
	id := s.ID()
	retry := func(ctx context.Context) Outcome { return s.DeleteFromAPI(ctx, hard) }
	s.setLastErr("")
	if err := s.callAPI(func(a API) error { return a.DeleteJourney(ctx, id, hard) }); err != nil {
		return s.remoteFailed(ctx, start, id, op, err, "Failed to delete journey", retry)
	}
	s.ClearJourney()
	s.notifier.Notify(notify.Notification{Level: notify.LevelSuccess, Title: "Journey deleted"})
	return s.observe(ctx, start, id, done(op))
}

// DuplicateInAPI copies the current journey on the server and switches to
// the copy. The copy starts with no reports.
func (s *Store) DuplicateInAPI(ctx context.Context, newName string) Outcome {
	const op = "duplicate"
	start := s.now()
	id := s.ID()
	retry := func(ctx context.Context) Outcome { return s.DuplicateInAPI(ctx, newName) }
	s.setLastErr("")
	var dup domain.Journey
	err := s.callAPI(func(a API) error {
		var err error
		dup, err = a.DuplicateJourney(ctx, id, newName)
		return err
	})
	if err != nil {
		return s.remoteFailed(ctx, start, id, op, err, "Failed to duplicate journey", retry)
	}
	dup.Normalize()
	dup.Reports = []domain.Report{}
	s.commit(true, func() bool {
		s.replaceLocked(dup)
		return true
	})
	s.notifier.Notify(notify.Notification{Level: notify.LevelSuccess, Title: "Journey duplicated", Description: dup.Name})
	return s.observe(ctx, start, dup.ID, done(op))
}

// ListFromAPI returns the server's journeys. The store itself is unchanged.
func (s *Store) ListFromAPI(ctx context.Context, opts domain.ListOptions) ([]domain.Journey, Outcome) {
	const op = "list"
	start := s.now()
	s.setLastErr("")
	var out []domain.Journey
	err := s.callAPI(func(a API) error {
		var err error
		out, err = a.ListJourneys(ctx, opts)
		return err
	})
	if err != nil {
		retry := func(ctx context.Context) Outcome {
			_, o := s.ListFromAPI(ctx, opts)
			return o
		}
		return nil, s.remoteFailed(ctx, start, "", op, err, "Failed to load journeys", retry)
	}
	return out, s.observe(ctx, start, "", done(op))
}

// UpdateInAPI sends a metadata patch for the current journey and applies it
// locally once the server accepts it.
func (s *Store) UpdateInAPI(ctx context.Context, p domain.JourneyPatch) Outcome {
	const op = "update"
	start := s.now()
	id := s.ID()
	if p.IsEmpty() {
		return s.observe(ctx, start, id, skipped(op, ErrNothingToSave))
	}
	retry := func(ctx context.Context) Outcome { return s.UpdateInAPI(ctx, p) }
	s.setLastErr("")
	if err := s.callAPI(func(a API) error { return a.UpdateJourney(ctx, id, p) }); err != nil {
		return s.remoteFailed(ctx, start, id, op, err, "Failed to update journey", retry)
	}
	s.commit(false, func() bool {
		if s.j.ID != id {
			return false
		}
		s.j.Apply(p)
		s.j.UpdatedAt = s.now()
		return true
	})
	s.notifier.Notify(notify.Notification{Level: notify.LevelSuccess, Title: "Journey updated"})
	return s.observe(ctx, start, id, done(op))
}

func (s *Store) callAPI(fn func(API) error) error {
	if s.api == nil {
		return errNoAPI
	}
	return fn(s.api)
}

func (s *Store) setLastErr(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

func (s *Store) remoteFailed(ctx context.Context, start time.Time, id, op string, err error, title string, retry func(context.Context) Outcome) Outcome {
	s.setLastErr(err.Error())
	s.notifyFailure(title, err, retry)
	return s.observe(ctx, start, id, failed(op, err))
}
