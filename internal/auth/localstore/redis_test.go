package localstore

import (
	"context"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestRedisStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	store, err := NewRedis(Config{
		Redis: &RedisConfig{
			Addr: mr.Addr(),
		},
	})
	if err != nil {
		t.Fatalf("NewRedis error: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close(ctx)
	})

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Set(ctx, "msalCache", []byte(`{"tokens": {}}`)); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, err := store.Get(ctx, "msalCache")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(got) != `{"tokens": {}}` {
		t.Fatalf("unexpected value: %s", got)
	}

	if err := store.Set(ctx, "dummyAccount", []byte(`{}`)); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if _, err := store.Get(ctx, "msalCache"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
	if _, err := store.Get(ctx, "dummyAccount"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
}

func TestNewRedisRequiresAddr(t *testing.T) {
	if _, err := NewRedis(Config{Redis: &RedisConfig{}}); err == nil {
		t.Fatal("expected error for missing redis address")
	}
	if _, err := NewRedis(Config{}); err == nil {
		t.Fatal("expected error for missing redis config")
	}
}
