package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "error without details",
			err:      NewDomainError("SMS-TEST-1000", "test message"),
			expected: "[SMS-TEST-1000] test message",
		},
		{
			name:     "error with details",
			err:      NewDomainError("SMS-TEST-1001", "test message").WithDetails("extra info"),
			expected: "[SMS-TEST-1001] test message: extra info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDomainError_IsAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := ErrTokenStore.WithCause(cause)

	if !errors.Is(err, ErrTokenStore) {
		t.Error("errors.Is should match by code")
	}
	if errors.Is(err, ErrNoToken) {
		t.Error("errors.Is should not match a different code")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if GetErrorCode(fmt.Errorf("wrapped: %w", err)) != "SMS-SYS-5001" {
		t.Error("GetErrorCode should see through wrapping")
	}
	if !IsDomainError(err, "") || IsDomainError(cause, "") {
		t.Error("IsDomainError mismatch")
	}
}

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusForbidden, KindUnauthorized},
		{http.StatusBadRequest, KindValidation},
		{http.StatusConflict, KindValidation},
		{http.StatusInternalServerError, KindServer},
		{http.StatusBadGateway, KindServer},
		{http.StatusFound, KindServer},
	}
	for _, tt := range tests {
		if got := KindForStatus(tt.status); got != tt.want {
			t.Errorf("KindForStatus(%d) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestMessageOr(t *testing.T) {
	withMsg := &APIError{Kind: KindUnauthorized, Status: 401, Message: "Invalid credentials"}
	noMsg := &APIError{Kind: KindServer, Status: 500}
	unreachable := &APIError{Kind: KindUnreachable, Cause: errors.New("connection refused")}

	if got := MessageOr(withMsg, "Login failed"); got != "Invalid credentials" {
		t.Errorf("MessageOr(withMsg) = %q", got)
	}
	if got := MessageOr(fmt.Errorf("login: %w", noMsg), "Login failed"); got != "Login failed" {
		t.Errorf("MessageOr(noMsg) = %q", got)
	}
	if got := MessageOr(unreachable, "Login failed"); got != "Login failed" {
		t.Errorf("MessageOr(unreachable) = %q", got)
	}
	if !IsUnreachable(fmt.Errorf("wrap: %w", unreachable)) || IsUnreachable(withMsg) {
		t.Error("IsUnreachable mismatch")
	}

	detailOnly := &APIError{Kind: KindServer, Status: 500, Detail: "sql: connection reset"}
	if got := MessageOr(detailOnly, "Login failed"); got != "Login failed" {
		t.Errorf("MessageOr(detailOnly) = %q", got)
	}
	timeout := &APIError{Kind: KindTimeout, Cause: errors.New("deadline exceeded")}
	if IsUnreachable(timeout) {
		t.Error("timeout reported as unreachable")
	}
}

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		err  *APIError
		want string
	}{
		{&APIError{Kind: KindUnauthorized, Status: 401, Message: "Invalid credentials"}, "unauthorized (status 401): Invalid credentials"},
		{&APIError{Kind: KindServer, Status: 500, Detail: "sql: connection reset"}, "server (status 500): sql: connection reset"},
		{&APIError{Kind: KindServer, Status: 502}, "server: request failed with status 502"},
		{&APIError{Kind: KindTimeout, Cause: errors.New("deadline exceeded")}, "backend call aborted: deadline exceeded"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
