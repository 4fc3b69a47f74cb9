package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("not found")

// Keys of the persisted client state.
const (
	JourneyStateKey  = "journey-state"
	CanvasHistoryKey = "canvas-history"
)

// StateRepo is a durable key/value store for serialized client state.
type StateRepo interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// BatchStateRepo writes several keys atomically.
type BatchStateRepo interface {
	StateRepo
	PutAll(ctx context.Context, values map[string][]byte) error
}
