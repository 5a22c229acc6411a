package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Get when no record carries the id.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict means another writer saved the collection first.
	ErrVersionConflict = errors.New("collection version conflict")
	// ErrCorrupt means a stored blob could not be decoded or held an invalid record.
	ErrCorrupt = errors.New("collection data corrupt")
	// ErrInvalidRecord is returned when a record fails validation before being written.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrDuplicateID is returned by Append when the id is already present.
	ErrDuplicateID = errors.New("duplicate record id")
)

// PersistenceError wraps any failure to read or write a collection. The
// previously persisted state is unchanged whenever one is returned.
type PersistenceError struct {
	Op         string
	Collection string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
