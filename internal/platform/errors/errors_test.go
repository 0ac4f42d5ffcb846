package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "error with cause",
			err: Wrap(KindConfig, "load", "failed to load config",
				errors.New("file not found")),
			contains: []string{"[config:load]", "failed to load config", "file not found"},
		},
		{
			name:     "error without cause",
			err:      New(KindAuth, "acquire", "no token returned"),
			contains: []string{"[auth:acquire]", "no token returned"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(errStr, substr) {
					t.Errorf("error string %q does not contain %q", errStr, substr)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	wrappedErr := Wrap(KindAPI, "call", "wrapped", originalErr)

	if !errors.Is(wrappedErr, originalErr) {
		t.Error("Unwrap should return the original error")
	}
}

func TestWrap_AlreadyTyped(t *testing.T) {
	inner := New(KindStorage, "get", "missing key")
	outer := Wrap(KindAPI, "call", "outer", inner)

	if outer != inner {
		t.Error("Wrap should return the existing typed error unchanged")
	}
}

func TestIsKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     Kind
		expected bool
	}{
		{
			name:     "direct kind match",
			err:      New(KindConfig, "test", "message"),
			kind:     KindConfig,
			expected: true,
		},
		{
			name:     "kind mismatch",
			err:      New(KindAuth, "test", "message"),
			kind:     KindAPI,
			expected: false,
		},
		{
			name:     "wrapped kind match",
			err:      Wrap(KindStorage, "test", "message", errors.New("cause")),
			kind:     KindStorage,
			expected: true,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			kind:     KindUnknown,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			kind:     KindConfig,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsKind(tt.err, tt.kind); got != tt.expected {
				t.Errorf("IsKind() = %v, want %v", got, tt.expected)
			}
		})
	}
}
