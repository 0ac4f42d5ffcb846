package provider

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func signedTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}
	return raw
}

func TestDisplayClaims(t *testing.T) {
	raw := signedTestToken(t, jwt.MapClaims{
		"name":               "Ada Lovelace",
		"preferred_username": "ada@example.net",
	})

	name, username, err := displayClaims(raw)
	if err != nil {
		t.Fatalf("displayClaims error: %v", err)
	}
	if name != "Ada Lovelace" {
		t.Errorf("name = %q", name)
	}
	if username != "ada@example.net" {
		t.Errorf("username = %q", username)
	}
}

func TestDisplayClaimsMissingFields(t *testing.T) {
	raw := signedTestToken(t, jwt.MapClaims{"sub": "abc123"})

	name, username, err := displayClaims(raw)
	if err != nil {
		t.Fatalf("displayClaims error: %v", err)
	}
	if name != "" || username != "" {
		t.Errorf("expected empty claims, got name=%q username=%q", name, username)
	}
}

func TestDisplayClaimsMalformedToken(t *testing.T) {
	if _, _, err := displayClaims("not-a-jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
