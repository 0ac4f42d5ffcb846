package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/public"

	platformerrors "storefront-go/internal/platform/errors"
)

const defaultAuthority = "https://login.microsoftonline.com/common"

// MSAL wraps the real identity client. Token caching, silent refresh and the
// interactive browser flow are all delegated to the underlying library; this
// type only maps between its surface and the Provider contract.
type MSAL struct {
	client   public.Client
	clientID string
	redirect string
	logger   *slog.Logger
}

// NewMSAL builds the real provider. The external token cache is persisted
// through the configured local store so sign-in survives restarts.
func NewMSAL(cfg Config) (*MSAL, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client id required for real identity provider")
	}

	authority := cfg.Authority
	if authority == "" {
		authority = defaultAuthority
	}

	opts := []public.Option{
		public.WithAuthority(authority),
	}
	if cfg.Cache != nil {
		opts = append(opts, public.WithCache(newCacheAccessor(cfg.Cache)))
	}

	client, err := public.New(cfg.ClientID, opts...)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindAuth, "provider.msal", "create identity client", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MSAL{
		client:   client,
		clientID: cfg.ClientID,
		redirect: cfg.RedirectURI,
		logger:   logger,
	}, nil
}

// LoginInteractive opens the system browser for sign-in and waits for the
// redirect. A dismissed or abandoned flow surfaces as ErrCancelled via context
// cancellation.
func (m *MSAL) LoginInteractive(ctx context.Context, scopes []string) (Token, error) {
	var opts []public.AcquireInteractiveOption
	if m.redirect != "" {
		opts = append(opts, public.WithRedirectURI(m.redirect))
	}

	result, err := m.client.AcquireTokenInteractive(ctx, scopes, opts...)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Token{}, fmt.Errorf("%w: %v", ErrCancelled, err)
		}
		return Token{}, fmt.Errorf("interactive sign-in failed: %w", err)
	}

	m.logger.Debug("interactive token acquisition successful")
	return m.tokenFromResult(result), nil
}

// Logout removes all cached accounts. The provider-side session (browser
// cookies at the authority) is out of this process's reach.
func (m *MSAL) Logout(ctx context.Context) error {
	accounts, err := m.client.Accounts(ctx)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		if err := m.client.RemoveAccount(ctx, account); err != nil {
			return fmt.Errorf("remove account %s: %w", account.PreferredUsername, err)
		}
	}
	return nil
}

// AcquireTokenSilent serves the token from cache or a refresh, without user
// interaction. Any failure (expired grant, consent required, unknown account)
// is the caller's cue to fall back to the interactive flow.
func (m *MSAL) AcquireTokenSilent(ctx context.Context, scopes []string, account Account) (Token, error) {
	target, err := m.findAccount(ctx, account)
	if err != nil {
		return Token{}, err
	}

	result, err := m.client.AcquireTokenSilent(ctx, scopes, public.WithSilentAccount(target))
	if err != nil {
		return Token{}, fmt.Errorf("silent token acquisition failed: %w", err)
	}

	m.logger.Debug("silent token acquisition successful")
	return m.tokenFromResult(result), nil
}

// CurrentAccounts lists the accounts known to the token cache.
func (m *MSAL) CurrentAccounts(ctx context.Context) ([]Account, error) {
	accounts, err := m.client.Accounts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, Account{
			ID:       a.HomeAccountID,
			TenantID: a.Realm,
			Username: a.PreferredUsername,
		})
	}
	return out, nil
}

func (m *MSAL) findAccount(ctx context.Context, account Account) (public.Account, error) {
	accounts, err := m.client.Accounts(ctx)
	if err != nil {
		return public.Account{}, err
	}
	for _, a := range accounts {
		if a.HomeAccountID == account.ID {
			return a, nil
		}
	}
	return public.Account{}, fmt.Errorf("no cached account for %s", account.Username)
}

func (m *MSAL) tokenFromResult(result public.AuthResult) Token {
	account := Account{
		ID:       result.Account.HomeAccountID,
		TenantID: result.Account.Realm,
		Username: result.Account.PreferredUsername,
	}

	// The account record from the cache has no display name; pull it from the
	// ID token claims when one was issued.
	if raw := result.IDToken.RawToken; raw != "" {
		if name, username, err := displayClaims(raw); err == nil {
			if name != "" {
				account.Name = name
			}
			if account.Username == "" && username != "" {
				account.Username = username
			}
		}
	}

	return Token{
		Value:     result.AccessToken,
		ExpiresOn: result.ExpiresOn,
		Account:   account,
	}
}
