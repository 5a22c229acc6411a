package store

import (
	"context"
	"sync"
)

type memoryEntry struct {
	blob    []byte
	version int64
}

// MemoryBackend keeps blobs in process memory. Nothing survives a restart.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]memoryEntry)}
}

func (m *MemoryBackend) Load(ctx context.Context, name string) ([]byte, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[name]
	if !ok {
		return nil, 0, nil
	}
	out := make([]byte, len(e.blob))
	copy(out, e.blob)
	return out, e.version, nil
}

func (m *MemoryBackend) Save(ctx context.Context, name string, blob []byte, expectedVersion int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries[name].version != expectedVersion {
		return 0, ErrVersionConflict
	}
	stored := make([]byte, len(blob))
	copy(stored, blob)
	next := expectedVersion + 1
	m.entries[name] = memoryEntry{blob: stored, version: next}
	return next, nil
}

func (m *MemoryBackend) Close() error {
	return nil
}
