package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Backend persists one opaque blob per collection name. Load returns a nil
// blob and version 0 when nothing is stored yet. Save must fail with
// ErrVersionConflict when the stored version is not expectedVersion, and must
// leave the stored blob untouched on any error.
type Backend interface {
	Load(ctx context.Context, name string) (blob []byte, version int64, err error)
	Save(ctx context.Context, name string, blob []byte, expectedVersion int64) (int64, error)
	Close() error
}

// Record is a typed, self-validating entity stored in a collection.
type Record interface {
	RecordID() string
	Timestamp(field string) (time.Time, bool)
	Validate() error
}

const maxWriteAttempts = 3

// Store serializes writers per collection inside the process and relies on
// backend versioning across processes.
type Store struct {
	backend Backend
	log     *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(backend Backend, log *zap.Logger) *Store {
	return &Store{
		backend: backend,
		log:     log.With(zap.String("component", "store")),
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

type SortOrder string

const (
	Desc SortOrder = "desc"
	Asc  SortOrder = "asc"
)

// ListOptions controls ordering. With no SortKey records come back in
// insertion order. Order defaults to Desc.
type ListOptions struct {
	SortKey string
	Order   SortOrder
}

// Collection is a named sequence of records of one type.
type Collection[T Record] struct {
	store *Store
	name  string
	log   *zap.Logger
}

func NewCollection[T Record](s *Store, name string) *Collection[T] {
	return &Collection[T]{
		store: s,
		name:  name,
		log:   s.log.With(zap.String("collection", name)),
	}
}

func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) load(ctx context.Context, op string) ([]T, int64, error) {
	blob, version, err := c.store.backend.Load(ctx, c.name)
	if err != nil {
		return nil, 0, &PersistenceError{Op: op, Collection: c.name, Err: err}
	}
	if len(blob) == 0 {
		return []T{}, version, nil
	}

	var records []T
	if err := json.Unmarshal(blob, &records); err != nil {
		c.log.Error("Failed to decode collection", zap.Error(err), zap.Int64("version", version))
		return nil, 0, &PersistenceError{Op: op, Collection: c.name, Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
	}
	for i, r := range records {
		if err := r.Validate(); err != nil {
			c.log.Error("Stored record failed validation", zap.Error(err), zap.Int("index", i))
			return nil, 0, &PersistenceError{Op: op, Collection: c.name, Err: fmt.Errorf("%w: record %d: %v", ErrCorrupt, i, err)}
		}
	}
	if records == nil {
		records = []T{}
	}
	return records, version, nil
}

// mutate runs a read-modify-write cycle. fn returns the new sequence and
// whether anything changed; unchanged sequences are not written back.
// A version conflict reruns fn against a fresh read.
func (c *Collection[T]) mutate(ctx context.Context, op string, fn func([]T) ([]T, bool, error)) error {
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()

	var lastErr error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		records, version, err := c.load(ctx, op)
		if err != nil {
			return err
		}

		next, changed, err := fn(records)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}

		for _, r := range next {
			if err := r.Validate(); err != nil {
				return fmt.Errorf("%s %s: %w: %v", op, c.name, ErrInvalidRecord, err)
			}
		}

		blob, err := json.Marshal(next)
		if err != nil {
			return &PersistenceError{Op: op, Collection: c.name, Err: err}
		}

		_, err = c.store.backend.Save(ctx, c.name, blob, version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			c.log.Error("Failed to save collection", zap.String("op", op), zap.Error(err))
			return &PersistenceError{Op: op, Collection: c.name, Err: err}
		}

		c.log.Warn("Collection changed underneath, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Int64("version", version),
		)
		lastErr = err
	}

	return &PersistenceError{Op: op, Collection: c.name, Err: lastErr}
}

// Append adds rec at the end of the collection.
func (c *Collection[T]) Append(ctx context.Context, rec T) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("append %s: %w: %v", c.name, ErrInvalidRecord, err)
	}

	return c.mutate(ctx, "append", func(records []T) ([]T, bool, error) {
		id := rec.RecordID()
		for _, r := range records {
			if r.RecordID() == id {
				return nil, false, fmt.Errorf("append %s %s: %w", c.name, id, ErrDuplicateID)
			}
		}
		return append(records, rec), true, nil
	})
}

// List returns every record. An empty or never-written collection yields an
// empty slice.
func (c *Collection[T]) List(ctx context.Context, opts ListOptions) ([]T, error) {
	return c.Filter(ctx, nil, opts)
}

// Filter is List restricted to records matching pred. A nil pred matches all.
func (c *Collection[T]) Filter(ctx context.Context, pred func(T) bool, opts ListOptions) ([]T, error) {
	records, _, err := c.load(ctx, "list")
	if err != nil {
		return nil, err
	}

	if pred != nil {
		out := records[:0]
		for _, r := range records {
			if pred(r) {
				out = append(out, r)
			}
		}
		records = out
	}

	if opts.SortKey != "" {
		SortRecords(records, opts.SortKey, opts.Order)
	}
	return records, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T

	records, _, err := c.load(ctx, "get")
	if err != nil {
		return zero, err
	}
	for _, r := range records {
		if r.RecordID() == id {
			return r, nil
		}
	}
	return zero, fmt.Errorf("get %s %s: %w", c.name, id, ErrNotFound)
}

// Remove drops the record with id. Removing an absent id is not an error.
func (c *Collection[T]) Remove(ctx context.Context, id string) error {
	_, err := c.RemoveWhere(ctx, func(r T) bool { return r.RecordID() == id })
	return err
}

// RemoveWhere drops every record matching pred and reports how many went.
func (c *Collection[T]) RemoveWhere(ctx context.Context, pred func(T) bool) (int, error) {
	removed := 0
	err := c.mutate(ctx, "remove", func(records []T) ([]T, bool, error) {
		removed = 0
		kept := make([]T, 0, len(records))
		for _, r := range records {
			if pred(r) {
				removed++
				continue
			}
			kept = append(kept, r)
		}
		return kept, removed > 0, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// Update applies fn to the record with id and writes the collection back.
// fn must not change the record id.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(*T) error) (T, error) {
	var updated T
	err := c.mutate(ctx, "update", func(records []T) ([]T, bool, error) {
		for i := range records {
			if records[i].RecordID() != id {
				continue
			}
			next := records[i]
			if err := fn(&next); err != nil {
				return nil, false, err
			}
			if next.RecordID() != id {
				return nil, false, fmt.Errorf("update %s %s: %w: id changed", c.name, id, ErrInvalidRecord)
			}
			records[i] = next
			updated = next
			return records, true, nil
		}
		return nil, false, fmt.Errorf("update %s %s: %w", c.name, id, ErrNotFound)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return updated, nil
}

var epoch = time.Unix(0, 0).UTC()

// SortRecords orders records by the timestamp field key. Records without the
// field sort as the Unix epoch. The sort is stable.
func SortRecords[T Record](records []T, key string, order SortOrder) {
	at := func(r T) time.Time {
		t, ok := r.Timestamp(key)
		if !ok {
			return epoch
		}
		return t
	}

	sort.SliceStable(records, func(i, j int) bool {
		ti, tj := at(records[i]), at(records[j])
		if order == Asc {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})
}
