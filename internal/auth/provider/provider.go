package provider

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"storefront-go/internal/auth/localstore"
)

// Account identifies a signed-in user as reported by the identity provider.
type Account struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Token is a bearer credential scoped to the requested resource. A zero
// ExpiresOn means the token never expires (demo mode).
type Token struct {
	Value     string
	ExpiresOn time.Time
	Account   Account
}

// Provider is the uniform surface over the real identity client and the local
// demo stand-in. Whichever mode is active, CurrentAccounts returns zero or one
// authoritative account.
type Provider interface {
	// LoginInteractive runs the user-facing sign-in flow. With the real
	// provider this opens a browser; cancelling it yields ErrCancelled.
	LoginInteractive(ctx context.Context, scopes []string) (Token, error)
	// Logout removes the signed-in account and its cached tokens.
	Logout(ctx context.Context) error
	// AcquireTokenSilent obtains a token from cache/refresh without user
	// interaction, failing when consent or re-authentication is needed.
	AcquireTokenSilent(ctx context.Context, scopes []string, account Account) (Token, error)
	// CurrentAccounts lists the cached signed-in accounts.
	CurrentAccounts(ctx context.Context) ([]Account, error)
}

// ErrCancelled reports that the user dismissed the interactive sign-in.
var ErrCancelled = errors.New("interactive sign-in cancelled")

// Config selects and configures a provider.
type Config struct {
	// ClientID enables the real identity provider when non-empty.
	ClientID string
	// Authority overrides the token authority URL.
	Authority string
	// RedirectURI is where the interactive flow returns to, normally the
	// application's own origin.
	RedirectURI string
	// AllowDemo permits the local stand-in account when ClientID is empty.
	AllowDemo bool
	// Cache persists provider state across restarts.
	Cache  localstore.Store
	Logger *slog.Logger
}

// New selects the provider for the given configuration: real when a client id
// is supplied, demo when permitted, otherwise nil meaning "run unconfigured"
// (anonymous browsing only).
func New(cfg Config) (Provider, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.ClientID != "" {
		cfg.Logger.Info("identity provider sign-in enabled", "clientId", cfg.ClientID)
		return NewMSAL(cfg)
	}
	if cfg.AllowDemo {
		cfg.Logger.Info("identity provider sign-in disabled, running in demo mode",
			"username", DemoUsername)
		return NewDemo(cfg.Cache, cfg.Logger), nil
	}
	return nil, nil
}
