package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// fileEnvelope is the on-disk shape of one collection file.
type fileEnvelope struct {
	Version int64           `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// FileBackend stores each collection as <dir>/<name>.json. Writes go to a
// temp file in the same directory and are renamed over the target, so a
// failed write never truncates the previous file.
type FileBackend struct {
	fs  afero.Fs
	dir string
	mu  sync.Mutex
}

func NewFileBackend(fsys afero.Fs, dir string) (*FileBackend, error) {
	if ok, _ := afero.DirExists(fsys, dir); ok {
		return &FileBackend{fs: fsys, dir: dir}, nil
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &FileBackend{fs: fsys, dir: dir}, nil
}

func (f *FileBackend) path(name string) string {
	return filepath.Join(f.dir, name+".json")
}

func (f *FileBackend) read(name string) (fileEnvelope, error) {
	raw, err := afero.ReadFile(f.fs, f.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fileEnvelope{}, nil
	}
	if err != nil {
		return fileEnvelope{}, err
	}

	var env fileEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fileEnvelope{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return env, nil
}

func (f *FileBackend) Load(ctx context.Context, name string) ([]byte, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	env, err := f.read(name)
	if err != nil {
		return nil, 0, err
	}
	return env.Data, env.Version, nil
}

func (f *FileBackend) Save(ctx context.Context, name string, blob []byte, expectedVersion int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.read(name)
	if err != nil {
		return 0, err
	}
	if current.Version != expectedVersion {
		return 0, ErrVersionConflict
	}

	next := expectedVersion + 1
	raw, err := json.Marshal(fileEnvelope{Version: next, Data: blob})
	if err != nil {
		return 0, err
	}

	tmp, err := afero.TempFile(f.fs, f.dir, name+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		f.fs.Remove(tmpName)
		return 0, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		f.fs.Remove(tmpName)
		return 0, fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		f.fs.Remove(tmpName)
		return 0, fmt.Errorf("close temp file: %w", err)
	}
	if err := f.fs.Rename(tmpName, f.path(name)); err != nil {
		f.fs.Remove(tmpName)
		return 0, fmt.Errorf("rename temp file: %w", err)
	}

	return next, nil
}

func (f *FileBackend) Close() error {
	return nil
}
