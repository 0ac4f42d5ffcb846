package provider

import (
	"context"
	"testing"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/cache"

	"storefront-go/internal/auth/localstore"
)

// fakeCacheUnits stands in for the identity client's serialized token cache.
type fakeCacheUnits struct {
	data []byte
}

func (f *fakeCacheUnits) Marshal() ([]byte, error) {
	return f.data, nil
}

func (f *fakeCacheUnits) Unmarshal(b []byte) error {
	f.data = append([]byte(nil), b...)
	return nil
}

func TestCacheAccessorRoundTrip(t *testing.T) {
	ctx := context.Background()
	accessor := newCacheAccessor(localstore.NewMemory())

	source := &fakeCacheUnits{data: []byte(`{"AccessToken":{}}`)}
	if err := accessor.Export(ctx, source, cache.ExportHints{}); err != nil {
		t.Fatalf("Export error: %v", err)
	}

	sink := &fakeCacheUnits{}
	if err := accessor.Replace(ctx, sink, cache.ReplaceHints{}); err != nil {
		t.Fatalf("Replace error: %v", err)
	}
	if string(sink.data) != `{"AccessToken":{}}` {
		t.Errorf("round trip mismatch: %s", sink.data)
	}
}

func TestCacheAccessorReplaceMissingKey(t *testing.T) {
	ctx := context.Background()
	accessor := newCacheAccessor(localstore.NewMemory())

	sink := &fakeCacheUnits{}
	if err := accessor.Replace(ctx, sink, cache.ReplaceHints{}); err != nil {
		t.Fatalf("Replace on empty store should be a no-op, got %v", err)
	}
	if sink.data != nil {
		t.Errorf("expected untouched sink, got %s", sink.data)
	}
}
