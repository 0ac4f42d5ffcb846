package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"storefront-go/internal/auth/localstore"
)

// Fixed demo identity, stable across runs so dependent data (carts, orders)
// lines up between sessions.
const (
	DemoAccountID = "e11d4d0c-1c70-430d-a644-aed03a60e059"
	DemoUsername  = "demo@example.net"
	DemoName      = "Demo User"
	DemoTenantID  = "fake-tenant"

	// demoToken is returned by every token request in demo mode. It is not a
	// real credential; the gateway sees no Authorization header in this mode
	// anyway because no client id is configured.
	demoToken = "1234567890"

	demoMarkerKey = "dummyAccount"
)

// Demo synthesizes a local identity so the app runs without a real identity
// provider. A marker in the local store simulates the provider's cache: its
// presence means "logged in".
type Demo struct {
	store  localstore.Store
	logger *slog.Logger
}

// NewDemo builds the demo provider. A nil store falls back to process memory.
func NewDemo(store localstore.Store, logger *slog.Logger) *Demo {
	if store == nil {
		store = localstore.NewMemory()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Demo{
		store:  store,
		logger: logger,
	}
}

func demoAccount() Account {
	return Account{
		ID:       DemoAccountID,
		TenantID: DemoTenantID,
		Username: DemoUsername,
		Name:     DemoName,
	}
}

// LoginInteractive persists the logged-in marker. No user interaction or
// network access happens.
func (d *Demo) LoginInteractive(ctx context.Context, _ []string) (Token, error) {
	account := demoAccount()
	data, err := json.Marshal(account)
	if err != nil {
		return Token{}, err
	}
	if err := d.store.Set(ctx, demoMarkerKey, data); err != nil {
		return Token{}, fmt.Errorf("persist demo account: %w", err)
	}
	return Token{Value: demoToken, Account: account}, nil
}

// Logout clears the marker. There is no provider-side session to end, and no
// page to navigate back to.
func (d *Demo) Logout(ctx context.Context) error {
	return d.store.Delete(ctx, demoMarkerKey)
}

// AcquireTokenSilent returns the fixed non-expiring dummy token while the
// marker is present.
func (d *Demo) AcquireTokenSilent(ctx context.Context, _ []string, _ Account) (Token, error) {
	if _, err := d.store.Get(ctx, demoMarkerKey); err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return Token{}, errors.New("no demo account signed in")
		}
		return Token{}, err
	}
	return Token{Value: demoToken, Account: demoAccount()}, nil
}

// CurrentAccounts returns the demo account while the marker is present.
func (d *Demo) CurrentAccounts(ctx context.Context) ([]Account, error) {
	data, err := d.store.Get(ctx, demoMarkerKey)
	if err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var account Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, fmt.Errorf("corrupt demo account marker: %w", err)
	}
	return []Account{account}, nil
}
