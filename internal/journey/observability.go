package journey

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// UseCaseEvent captures execution telemetry for one sync operation.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes sync events to w as text log records.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 6+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "journey_sync", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "journey_sync", attrs...)
}

// observe reports o to the observer and returns it unchanged.
func (s *Store) observe(ctx context.Context, start time.Time, journeyID string, o Outcome) Outcome {
	fields := map[string]any{"journey_id": journeyID, "status": string(o.Status)}
	if o.Reason != nil {
		fields["reason"] = o.Reason.Error()
	}
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      o.Op,
		Duration:  s.now().Sub(start),
		Success:   o.Status != StatusFailed,
		Err:       o.Err,
		Fields:    fields,
		StartedAt: start,
	})
	return o
}
