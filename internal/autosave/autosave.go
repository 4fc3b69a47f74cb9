// Package autosave runs periodic full saves of a journey store.
package autosave

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/journeyctl/internal/journey"
	"github.com/robfig/cron/v3"
)

// Saver is satisfied by *journey.Store.
type Saver interface {
	SaveToAPI(ctx context.Context) journey.Outcome
}

var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// flushTimeout bounds the final save performed on shutdown.
const flushTimeout = 10 * time.Second

type Scheduler struct {
	saver    Saver
	spec     string
	schedule cron.Schedule
	logger   *slog.Logger
	runs     atomic.Int64
}

// New parses spec, a cron expression or descriptor such as "@every 30s".
func New(saver Saver, spec string, logger *slog.Logger) (*Scheduler, error) {
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse autosave schedule %q: %w", spec, err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{saver: saver, spec: spec, schedule: schedule, logger: logger}, nil
}

// Next returns the first run time after from.
func (s *Scheduler) Next(from time.Time) time.Time { return s.schedule.Next(from) }

// Runs is the number of save attempts made so far.
func (s *Scheduler) Runs() int64 { return s.runs.Load() }

// Run saves on schedule until ctx is done, then performs one final save.
// Overlapping runs are skipped.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(
		cron.WithParser(parser),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{s.logger})),
		cron.WithLogger(cronLogger{s.logger}),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() { s.tick(ctx) }))
	c.Start()
	s.logger.Info("autosave started", "schedule", s.spec)

	<-ctx.Done()
	<-c.Stop().Done()

	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
	defer cancel()
	s.tick(flushCtx)
	s.logger.Info("autosave stopped", "runs", s.Runs())
	return nil
}

func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	s.runs.Add(1)
	o := s.saver.SaveToAPI(ctx)
	switch o.Status {
	case journey.StatusFailed:
		s.logger.Error("autosave failed", "error", o.Err)
	case journey.StatusSkipped:
		s.logger.Debug("autosave skipped", "reason", o.Reason)
	default:
		s.logger.Info("autosave completed")
	}
}

// cronLogger adapts slog to cron's logger interface.
type cronLogger struct{ l *slog.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
