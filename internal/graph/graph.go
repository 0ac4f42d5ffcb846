// Package graph is a small directory helper over the Microsoft Graph REST
// API, used to enrich the signed-in user's profile. Everything here is a no-op
// unless real sign-in is configured; demo mode has no directory to query.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"storefront-go/internal/auth/provider"
)

const graphBase = "https://graph.microsoft.com/beta"

// Scopes requested for directory calls.
var Scopes = []string{"user.read", "user.readbasic.all"}

// TokenSource matches the session service's token surface.
type TokenSource interface {
	User(ctx context.Context) *provider.Account
	AcquireToken(ctx context.Context, scopes ...string) (string, error)
}

// DirectoryUser is the subset of the Graph user resource we care about.
type DirectoryUser struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	UserPrincipalName string `json:"userPrincipalName"`
	Mail              string `json:"mail"`
	JobTitle          string `json:"jobTitle"`
	MobilePhone       string `json:"mobilePhone"`
}

type userList struct {
	Value []DirectoryUser `json:"value"`
}

// Client calls the Graph API with tokens from the session service.
type Client struct {
	clientID string
	tokens   TokenSource
	http     *http.Client
	base     string
}

// Option adjusts a Client, mainly for tests.
type Option func(*Client)

// WithHTTPClient overrides the transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

// WithBaseURL overrides the Graph endpoint.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.base = base }
}

// NewClient builds a Graph client. An empty clientID disables all calls.
func NewClient(clientID string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		clientID: clientID,
		tokens:   tokens,
		http:     &http.Client{Timeout: 30 * time.Second},
		base:     graphBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Self returns the signed-in user's directory record, or nil when directory
// calls are disabled.
func (c *Client) Self(ctx context.Context) (*DirectoryUser, error) {
	body, err := c.callGraph(ctx, "/me")
	if err != nil || body == nil {
		return nil, err
	}

	var user DirectoryUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode directory user: %w", err)
	}
	return &user, nil
}

// Photo returns the signed-in user's 240x240 photo bytes, or nil when
// directory calls are disabled.
func (c *Client) Photo(ctx context.Context) ([]byte, error) {
	return c.callGraph(ctx, "/me/photos/240x240/$value")
}

// SearchUsers finds directory users whose display name or principal name
// starts with the search string, up to max results.
func (c *Client) SearchUsers(ctx context.Context, search string, max int) ([]DirectoryUser, error) {
	if max <= 0 {
		max = 50
	}
	filter := fmt.Sprintf("startswith(displayName, '%s') or startswith(userPrincipalName, '%s')", search, search)
	path := fmt.Sprintf("/users?$filter=%s&$top=%d", url.QueryEscape(filter), max)

	body, err := c.callGraph(ctx, path)
	if err != nil || body == nil {
		return nil, err
	}

	var list userList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode directory search: %w", err)
	}
	return list.Value, nil
}

// callGraph is the shared request path. Returns (nil, nil) when directory
// calls are disabled so callers degrade gracefully.
func (c *Client) callGraph(ctx context.Context, apiPath string) ([]byte, error) {
	if c.clientID == "" || c.tokens == nil || c.tokens.User(ctx) == nil {
		return nil, nil
	}

	token, err := c.tokens.AcquireToken(ctx, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("acquire directory token: %w", err)
	}

	reqURL := c.base + apiPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call to %s failed: %w", reqURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("call to %s failed: %s", reqURL, http.StatusText(resp.StatusCode))
	}
	return io.ReadAll(resp.Body)
}
