package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-go/internal/auth/provider"
)

type fakeTokens struct {
	user     *provider.Account
	token    string
	acquired [][]string
}

func (f *fakeTokens) User(context.Context) *provider.Account {
	return f.user
}

func (f *fakeTokens) AcquireToken(_ context.Context, scopes ...string) (string, error) {
	f.acquired = append(f.acquired, scopes)
	return f.token, nil
}

func TestSelfNoOpWithoutClientID(t *testing.T) {
	tokens := &fakeTokens{user: &provider.Account{ID: "acct-1"}, token: "tok"}
	client := NewClient("", tokens)

	user, err := client.Self(context.Background())
	if err != nil {
		t.Fatalf("Self error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user, got %+v", user)
	}
	if len(tokens.acquired) != 0 {
		t.Error("no token should be acquired when directory calls are disabled")
	}
}

func TestSelfNoOpWithoutSignedInUser(t *testing.T) {
	client := NewClient("client-123", &fakeTokens{token: "tok"})

	user, err := client.Self(context.Background())
	if err != nil {
		t.Fatalf("Self error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user, got %+v", user)
	}
}

func TestSelfFetchesDirectoryRecord(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"u1","displayName":"Ada Lovelace","userPrincipalName":"ada@example.net"}`)
	}))
	defer srv.Close()

	tokens := &fakeTokens{user: &provider.Account{ID: "acct-1"}, token: "graph-tok"}
	client := NewClient("client-123", tokens, WithBaseURL(srv.URL))

	user, err := client.Self(context.Background())
	if err != nil {
		t.Fatalf("Self error: %v", err)
	}
	if user == nil || user.DisplayName != "Ada Lovelace" {
		t.Errorf("user = %+v", user)
	}
	if gotAuth != "Bearer graph-tok" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/me" {
		t.Errorf("path = %q", gotPath)
	}
	if len(tokens.acquired) != 1 || len(tokens.acquired[0]) != 2 {
		t.Fatalf("acquired scopes = %v", tokens.acquired)
	}
	if tokens.acquired[0][0] != "user.read" || tokens.acquired[0][1] != "user.readbasic.all" {
		t.Errorf("scopes = %v", tokens.acquired[0])
	}
}

func TestSearchUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if top := r.URL.Query().Get("$top"); top != "10" {
			t.Errorf("$top = %q", top)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"value":[{"id":"u1","displayName":"Ada"},{"id":"u2","displayName":"Adam"}]}`)
	}))
	defer srv.Close()

	tokens := &fakeTokens{user: &provider.Account{ID: "acct-1"}, token: "tok"}
	client := NewClient("client-123", tokens, WithBaseURL(srv.URL))

	users, err := client.SearchUsers(context.Background(), "Ad", 10)
	if err != nil {
		t.Fatalf("SearchUsers error: %v", err)
	}
	if len(users) != 2 || users[0].DisplayName != "Ada" {
		t.Errorf("users = %+v", users)
	}
}

func TestGraphErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	tokens := &fakeTokens{user: &provider.Account{ID: "acct-1"}, token: "tok"}
	client := NewClient("client-123", tokens, WithBaseURL(srv.URL))

	if _, err := client.Self(context.Background()); err == nil {
		t.Fatal("expected error for 403 response")
	}
}
