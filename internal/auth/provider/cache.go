package provider

import (
	"context"
	"errors"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/cache"

	"storefront-go/internal/auth/localstore"
)

// msalCacheKey is the local-store key holding the identity client's serialized
// token cache. The payload is opaque to us.
const msalCacheKey = "msalCache"

// cacheAccessor bridges the identity client's external-cache contract onto the
// local store, giving the real provider durable sign-in across restarts.
type cacheAccessor struct {
	store localstore.Store
}

func newCacheAccessor(store localstore.Store) *cacheAccessor {
	return &cacheAccessor{store: store}
}

// Replace loads the persisted cache into the client before a cache read. A
// missing key just means nobody has signed in yet.
func (c *cacheAccessor) Replace(ctx context.Context, units cache.Unmarshaler, _ cache.ReplaceHints) error {
	data, err := c.store.Get(ctx, msalCacheKey)
	if err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return nil
		}
		return err
	}
	return units.Unmarshal(data)
}

// Export persists the client's cache after it changed.
func (c *cacheAccessor) Export(ctx context.Context, units cache.Marshaler, _ cache.ExportHints) error {
	data, err := units.Marshal()
	if err != nil {
		return err
	}
	return c.store.Set(ctx, msalCacheKey, data)
}
