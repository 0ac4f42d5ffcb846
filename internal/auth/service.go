package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"golang.org/x/sync/singleflight"

	"storefront-go/internal/auth/provider"
	"storefront-go/internal/eventbus"
)

// ErrTokenAcquisition reports that both the silent and the interactive token
// flows failed.
var ErrTokenAcquisition = errors.New("token acquisition failed")

// DefaultScopes are requested at login when the caller does not ask for
// anything more specific.
var DefaultScopes = []string{"user.read", "openid", "profile", "email"}

// tokenExpirySlack is how close to expiry a cached token may get before it is
// treated as stale and re-acquired.
const tokenExpirySlack = 30 * time.Second

// Service owns the process-wide sign-in state. It is the only writer of that
// state; everything else reads it through User and AcquireToken. All methods
// are safe for concurrent use.
type Service struct {
	logger *slog.Logger
	bus    evbus.Bus

	mu       sync.RWMutex
	provider provider.Provider
	clientID string

	tokenMu sync.Mutex
	tokens  map[string]provider.Token
	flight  singleflight.Group
}

// NewService builds an unconfigured service. Nothing works until Configure has
// selected a provider.
func NewService(logger *slog.Logger, bus evbus.Bus) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if bus == nil {
		bus = eventbus.Get()
	}
	return &Service{
		logger: logger,
		bus:    bus,
		tokens: make(map[string]provider.Token),
	}
}

// Configure selects the identity provider: real when cfg.ClientID is set, the
// demo stand-in when it is empty and cfg.AllowDemo is true, otherwise the
// service stays unconfigured and every other method is a no-op. Once a
// provider exists, further calls are ignored.
func (s *Service) Configure(cfg provider.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider != nil {
		return nil
	}

	if cfg.Logger == nil {
		cfg.Logger = s.logger
	}
	p, err := provider.New(cfg)
	if err != nil {
		return fmt.Errorf("configure identity provider: %w", err)
	}
	if p == nil {
		s.logger.Info("no identity provider configured, anonymous browsing only")
		return nil
	}

	s.provider = p
	s.clientID = cfg.ClientID
	return nil
}

// IsConfigured reports whether a provider has been selected.
func (s *Service) IsConfigured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider != nil
}

// ClientID returns the configured application client id, empty in demo mode
// and when unconfigured.
func (s *Service) ClientID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientID
}

// Login runs the interactive sign-in flow and returns the resulting account.
// Callers should re-fetch user-scoped data (cart, orders) afterwards. When
// unconfigured it is a no-op returning nil.
func (s *Service) Login(ctx context.Context, scopes ...string) (*provider.Account, error) {
	p := s.currentProvider()
	if p == nil {
		return nil, nil
	}
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	if _, err := p.LoginInteractive(ctx, scopes); err != nil {
		return nil, err
	}

	account := s.User(ctx)
	s.logger.Info("user signed in", "username", accountUsername(account))
	s.bus.Publish(eventbus.TopicUserLogin, account)
	return account, nil
}

// Logout clears cached tokens and the provider's signed-in state. Calling it
// with nobody signed in, or before configuration, is a harmless no-op.
func (s *Service) Logout(ctx context.Context) error {
	p := s.currentProvider()
	if p == nil {
		return nil
	}

	s.tokenMu.Lock()
	s.tokens = make(map[string]provider.Token)
	s.tokenMu.Unlock()

	if err := p.Logout(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}

	s.logger.Info("user signed out")
	s.bus.Publish(eventbus.TopicUserLogout, (*provider.Account)(nil))
	return nil
}

// User returns the signed-in account, or nil when unconfigured or signed out.
// It never fails; lookup errors are logged and reported as "nobody signed in".
// If the provider reports several accounts the first one wins.
func (s *Service) User(ctx context.Context) *provider.Account {
	p := s.currentProvider()
	if p == nil {
		return nil
	}

	accounts, err := p.CurrentAccounts(ctx)
	if err != nil {
		s.logger.Warn("account lookup failed", "error", err)
		return nil
	}
	if len(accounts) == 0 {
		return nil
	}
	account := accounts[0]
	return &account
}

// AcquireToken returns a bearer token for the given scopes, trying the silent
// flow first and falling back to the interactive one. The silent attempt must
// finish before the interactive one starts; concurrent callers for the same
// scope set share a single flight. Tokens are cached until shortly before
// expiry. Unconfigured, it returns an empty token and no error so anonymous
// calls proceed without an Authorization header.
func (s *Service) AcquireToken(ctx context.Context, scopes ...string) (string, error) {
	p := s.currentProvider()
	if p == nil {
		return "", nil
	}

	key := strings.Join(scopes, " ")
	if tok, ok := s.cachedToken(key); ok {
		return tok.Value, nil
	}

	value, err, _ := s.flight.Do(key, func() (interface{}, error) {
		if tok, ok := s.cachedToken(key); ok {
			return tok, nil
		}
		tok, err := s.acquire(ctx, p, scopes)
		if err != nil {
			return nil, err
		}
		s.storeToken(key, tok)
		return tok, nil
	})
	if err != nil {
		return "", err
	}
	return value.(provider.Token).Value, nil
}

func (s *Service) acquire(ctx context.Context, p provider.Provider, scopes []string) (provider.Token, error) {
	var account provider.Account
	if u := s.User(ctx); u != nil {
		account = *u
	}

	tok, silentErr := p.AcquireTokenSilent(ctx, scopes, account)
	if silentErr == nil {
		return tok, nil
	}
	s.logger.Debug("silent token acquisition failed, trying interactive",
		"scopes", scopes, "error", silentErr)

	tok, interactiveErr := p.LoginInteractive(ctx, scopes)
	if interactiveErr == nil {
		return tok, nil
	}
	if errors.Is(interactiveErr, provider.ErrCancelled) {
		return provider.Token{}, interactiveErr
	}
	return provider.Token{}, fmt.Errorf("%w: silent: %v; interactive: %v",
		ErrTokenAcquisition, silentErr, interactiveErr)
}

func (s *Service) currentProvider() provider.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider
}

func (s *Service) cachedToken(key string) (provider.Token, bool) {
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()

	tok, ok := s.tokens[key]
	if !ok {
		return provider.Token{}, false
	}
	// Zero expiry means the token never expires (demo mode).
	if !tok.ExpiresOn.IsZero() && time.Until(tok.ExpiresOn) < tokenExpirySlack {
		delete(s.tokens, key)
		return provider.Token{}, false
	}
	return tok, true
}

func (s *Service) storeToken(key string, tok provider.Token) {
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()
	s.tokens[key] = tok
}

func accountUsername(account *provider.Account) string {
	if account == nil {
		return ""
	}
	return account.Username
}
