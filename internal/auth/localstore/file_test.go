package localstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestFileStorePersistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "local-store.json")

	store, err := NewFile(Config{File: &FileConfig{Path: path}})
	if err != nil {
		t.Fatalf("NewFile error: %v", err)
	}

	if err := store.Set(ctx, "dummyAccount", []byte(`{"username": "demo@example.net"}`)); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := store.Close(ctx); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	// A new store over the same file sees the previous session's state.
	reopened, err := NewFile(Config{File: &FileConfig{Path: path}})
	if err != nil {
		t.Fatalf("NewFile reopen error: %v", err)
	}
	got, err := reopened.Get(ctx, "dummyAccount")
	if err != nil {
		t.Fatalf("Get after reopen error: %v", err)
	}
	if string(got) != `{"username": "demo@example.net"}` {
		t.Fatalf("unexpected value after reopen: %s", got)
	}

	if err := reopened.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	cleared, err := NewFile(Config{File: &FileConfig{Path: path}})
	if err != nil {
		t.Fatalf("NewFile after clear error: %v", err)
	}
	if _, err := cleared.Get(ctx, "dummyAccount"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
}

func TestFileStoreDeleteMissingKey(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "local-store.json")

	store, err := NewFile(Config{File: &FileConfig{Path: path}})
	if err != nil {
		t.Fatalf("NewFile error: %v", err)
	}
	if err := store.Delete(ctx, "never-set"); err != nil {
		t.Fatalf("Delete of missing key should be a no-op, got %v", err)
	}
}
