package autosave

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/journeyctl/internal/journey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSaver struct {
	calls atomic.Int64
	out   journey.Outcome
}

func (c *countingSaver) SaveToAPI(context.Context) journey.Outcome {
	c.calls.Add(1)
	return c.out
}

func TestNew_RejectsBadSchedule(t *testing.T) {
	_, err := New(&countingSaver{}, "every so often", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "every so often")
}

func TestNext(t *testing.T) {
	s, err := New(&countingSaver{}, "@every 30s", nil)
	require.NoError(t, err)
	from := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, from.Add(30*time.Second), s.Next(from))

	s, err = New(&countingSaver{}, "*/5 * * * *", nil)
	require.NoError(t, err)
	assert.Equal(t, from.Add(5*time.Minute), s.Next(from))
}

func TestRun_FlushesOnShutdown(t *testing.T) {
	saver := &countingSaver{out: journey.Outcome{Op: "save", Status: journey.StatusDone}}
	s, err := New(saver, "@every 1h", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.Run(ctx))

	assert.Equal(t, int64(1), saver.calls.Load())
	assert.Equal(t, int64(1), s.Runs())
}

func TestRun_SavesOnSchedule(t *testing.T) {
	saver := &countingSaver{out: journey.Outcome{Op: "save", Status: journey.StatusFailed, Err: errors.New("down")}}
	s, err := New(saver, "@every 1s", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return saver.calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.GreaterOrEqual(t, saver.calls.Load(), int64(2))
}
