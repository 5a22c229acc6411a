package store

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func TestFileBackendPersists(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()

	b1, err := NewFileBackend(fsys, "data")
	if err != nil {
		t.Fatal(err)
	}
	c1 := NewCollection[note](New(b1, zap.NewNop()), "pets")
	if err := c1.Append(ctx, note{ID: "pet_1", Body: "Rex"}); err != nil {
		t.Fatal(err)
	}

	b2, _ := NewFileBackend(fsys, "data")
	c2 := NewCollection[note](New(b2, zap.NewNop()), "pets")
	got, err := c2.Get(ctx, "pet_1")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if got.Body != "Rex" {
		t.Errorf("Body = %q", got.Body)
	}

	if ok, _ := afero.Exists(fsys, "data/pets.json"); !ok {
		t.Error("expected data/pets.json")
	}
	tmps, _ := afero.Glob(fsys, "data/*.tmp")
	if len(tmps) != 0 {
		t.Errorf("temp files left behind: %v", tmps)
	}
}

func TestFileBackendVersioning(t *testing.T) {
	ctx := context.Background()
	b, _ := NewFileBackend(afero.NewMemMapFs(), "data")

	blob, v, err := b.Load(ctx, "bookings")
	if err != nil || blob != nil || v != 0 {
		t.Fatalf("Load(absent) = %q, %d, %v", blob, v, err)
	}

	v1, err := b.Save(ctx, "bookings", []byte(`[]`), 0)
	if err != nil || v1 != 1 {
		t.Fatalf("Save() = %d, %v", v1, err)
	}
	if _, err := b.Save(ctx, "bookings", []byte(`[]`), 0); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("stale Save() error = %v, want ErrVersionConflict", err)
	}
}

func TestFileBackendCorruptFile(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	afero.WriteFile(fsys, "data/pets.json", []byte("garbage"), 0o644)

	b, _ := NewFileBackend(fsys, "data")
	if _, _, err := b.Load(ctx, "pets"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Load() error = %v, want ErrCorrupt", err)
	}
	if _, err := b.Save(ctx, "pets", []byte(`[]`), 0); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Save() over corrupt file error = %v, want ErrCorrupt", err)
	}
	raw, _ := afero.ReadFile(fsys, "data/pets.json")
	if string(raw) != "garbage" {
		t.Fatal("corrupt file was overwritten")
	}
}

func TestFileBackendReadOnlyFs(t *testing.T) {
	ctx := context.Background()
	base := afero.NewMemMapFs()
	base.MkdirAll("data", 0o755)

	b, err := NewFileBackend(afero.NewReadOnlyFs(base), "data")
	if err != nil {
		t.Fatal(err)
	}
	c := NewCollection[note](New(b, zap.NewNop()), "pets")

	err = c.Append(ctx, note{ID: "x"})
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *PersistenceError", err)
	}
}
