// Package connection provides the smsauth client's link to the SMS backend.
package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/yndnr/smsauth/internal/core/domain"
)

// Backend endpoint paths, relative to the base URL.
const (
	PathMe             = "/auth/me"
	PathLogin          = "/auth/login"
	PathRegister       = "/auth/register"
	PathProfile        = "/auth/profile"
	PathChangePassword = "/auth/change-password"
)

// AuthAPI performs the /auth calls of the SMS backend.
type AuthAPI struct {
	http *HTTPClient
}

// NewAuthAPI wraps client.
func NewAuthAPI(client *HTTPClient) *AuthAPI {
	return &AuthAPI{http: client}
}

// Credential returns the credential used by the underlying client.
func (a *AuthAPI) Credential() *Credential {
	return a.http.Credential()
}

// Me fetches the user identified by the attached credential.
// The backend may reply with the bare user or with {"user": {...}}.
func (a *AuthAPI) Me(ctx context.Context) (*domain.User, error) {
	var raw json.RawMessage
	if err := a.http.Do(ctx, http.MethodGet, PathMe, nil, &raw); err != nil {
		return nil, err
	}
	return decodeUser(raw)
}

// Login exchanges credentials for a token and user.
func (a *AuthAPI) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthGrant, error) {
	var grant domain.AuthGrant
	if err := a.http.Do(ctx, http.MethodPost, PathLogin, creds, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// Register creates an account and returns its token and user.
func (a *AuthAPI) Register(ctx context.Context, reg domain.Registration) (*domain.AuthGrant, error) {
	var grant domain.AuthGrant
	if err := a.http.Do(ctx, http.MethodPost, PathRegister, reg, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// UpdateProfile sends profile changes and returns the user as stored by the backend.
func (a *AuthAPI) UpdateProfile(ctx context.Context, profile *domain.Profile) (*domain.User, error) {
	body := struct {
		Profile *domain.Profile `json:"profile"`
	}{Profile: profile}

	var reply struct {
		User *domain.User `json:"user"`
	}
	if err := a.http.Do(ctx, http.MethodPut, PathProfile, body, &reply); err != nil {
		return nil, err
	}
	return reply.User, nil
}

// ChangePassword changes the password of the authenticated user.
func (a *AuthAPI) ChangePassword(ctx context.Context, change domain.PasswordChange) error {
	return a.http.Do(ctx, http.MethodPut, PathChangePassword, change, nil)
}

func decodeUser(raw json.RawMessage) (*domain.User, error) {
	var wrapped struct {
		User *domain.User `json:"user"`
	}
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.User != nil {
			return wrapped.User, nil
		}
	}
	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, &domain.APIError{Kind: domain.KindServer, Status: http.StatusOK, Cause: err}
	}
	return &user, nil
}
