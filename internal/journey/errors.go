package journey

import "errors"

var (
	// ErrSaveInProgress is the skip reason when a save is already in flight.
	ErrSaveInProgress = errors.New("save in progress")

	// ErrLoadInProgress is the skip reason when a load is already in flight.
	ErrLoadInProgress = errors.New("load in progress")

	// ErrNothingToSave is the skip reason when no entity is dirty.
	ErrNothingToSave = errors.New("no changes")

	// ErrUnchanged is the skip reason when the content hash matches the
	// last successful save.
	ErrUnchanged = errors.New("no changes (hash match)")

	// ErrInvalidOrder indicates a milestone ordering with unknown or
	// repeated ids.
	ErrInvalidOrder = errors.New("invalid milestone order")
)
