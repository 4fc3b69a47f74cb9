package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	_, ok := r.Last()
	assert.False(t, ok)

	r.Notify(Notification{Level: LevelInfo, Title: "first"})
	r.Notify(Notification{Level: LevelError, Title: "second", Retry: func(context.Context) {}})

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, "second", last.Title)
	assert.NotNil(t, last.Retry)
	assert.Len(t, r.All(), 2)

	r.Reset()
	assert.Empty(t, r.All())
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	n.Notify(Notification{Level: LevelError, Title: "Saving failed. Try again", Description: "boom", Retry: func(context.Context) {}})

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, `title="Saving failed. Try again"`)
	assert.Contains(t, out, "retryable=true")
	assert.Contains(t, out, "description=boom")
}

func TestNewLogNotifier_NilLogger(t *testing.T) {
	assert.IsType(t, Discard{}, NewLogNotifier(nil))
}
