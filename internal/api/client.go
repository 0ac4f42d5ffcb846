package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"

	"storefront-go/internal/auth/provider"
	"storefront-go/internal/eventbus"
)

// DefaultScope is the resource scope suffix requested for backend calls; the
// full scope is api://<client id>/<scope>.
const DefaultScope = "store-api"

// TokenSource supplies the signed-in user and bearer tokens. *auth.Service
// satisfies it.
type TokenSource interface {
	User(ctx context.Context) *provider.Account
	AcquireToken(ctx context.Context, scopes ...string) (string, error)
}

// Config wires up a Client.
type Config struct {
	// Endpoint is the base URL of the service-invocation gateway, "/" when
	// unset. Operation paths are appended to it verbatim.
	Endpoint string
	// ClientID gates the Authorization header: without it calls go out
	// anonymously even when a user is signed in (demo mode).
	ClientID string
	// Scope overrides DefaultScope.
	Scope  string
	Tokens TokenSource
	// Bus, when set, invalidates the memoized token on every logout event so
	// a later sign-in cannot reuse the previous user's credential.
	Bus        evbus.Bus
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client calls the backend services through the gateway's path convention
// v1.0/invoke/<service>/method/<method>. All operations funnel through one
// request primitive that handles auth, serialization and error decoding.
type Client struct {
	endpoint string
	clientID string
	scope    string
	tokens   TokenSource
	http     *http.Client
	logger   *slog.Logger

	// The last acquired token is reused for the life of the client; re-acquiry
	// happens on the identity layer's side when its cache misses.
	tokenMu     sync.Mutex
	accessToken string
}

// NewClient builds a backend client. A nil Tokens source means every call is
// anonymous.
func NewClient(cfg Config) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "/"
	}
	scope := cfg.Scope
	if scope == "" {
		scope = DefaultScope
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		endpoint: endpoint,
		clientID: cfg.ClientID,
		scope:    scope,
		tokens:   cfg.Tokens,
		http:     httpClient,
		logger:   logger,
	}

	if cfg.Bus != nil {
		if err := cfg.Bus.Subscribe(eventbus.TopicUserLogout, func(_ *provider.Account) {
			c.ClearToken()
		}); err != nil {
			logger.Warn("logout event subscription failed", "error", err)
		}
	}
	return c
}

// call is the single request primitive. It resolves the URL against the
// endpoint, attaches a bearer token only when a user is signed in and a client
// id is configured, sends the optional payload as JSON and decodes a JSON
// response into out. Non-success statuses become *HTTPError, transport
// failures *NetworkError.
func (c *Client) call(ctx context.Context, apiPath, method string, payload, out interface{}) error {
	url := c.endpoint + apiPath
	c.logger.Debug("api call", "method", method, "url", url)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.bearerToken(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newHTTPError(resp.StatusCode, http.StatusText(resp.StatusCode),
			url, resp.Header.Get("Content-Type"), respBody)
	}

	if out != nil && isJSON(resp.Header.Get("Content-Type")) {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response from %s: %w", url, err)
		}
	}
	return nil
}

// bearerToken returns the token to send, or empty for anonymous calls. Tokens
// only flow when real sign-in is configured: a demo user with no client id
// stays anonymous.
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	if c.tokens == nil || c.clientID == "" {
		return "", nil
	}
	if c.tokens.User(ctx) == nil {
		return "", nil
	}

	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	if c.accessToken != "" {
		return c.accessToken, nil
	}

	scope := fmt.Sprintf("api://%s/%s", c.clientID, c.scope)
	token, err := c.tokens.AcquireToken(ctx, scope)
	if err != nil {
		return "", fmt.Errorf("acquire api token: %w", err)
	}
	c.accessToken = token
	return token, nil
}

// ClearToken drops the memoized bearer token, forcing re-acquisition on the
// next call. It runs on every logout event when a bus is wired.
func (c *Client) ClearToken() {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	c.accessToken = ""
}
