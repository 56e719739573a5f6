// Package service provides the session store of the smsauth client.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yndnr/smsauth/internal/core/domain"
	"github.com/yndnr/smsauth/internal/devmode"
	"github.com/yndnr/smsauth/internal/notify"
	"github.com/yndnr/smsauth/internal/telemetry/logger"
	"github.com/yndnr/smsauth/internal/telemetry/metric"
)

// Backend is the SMS backend as seen by the store.
type Backend interface {
	// Me returns the user owning the attached credential.
	Me(ctx context.Context) (*domain.User, error)

	// Login exchanges credentials for a token and user.
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthGrant, error)

	// Register creates an account and returns its token and user.
	Register(ctx context.Context, reg domain.Registration) (*domain.AuthGrant, error)

	// UpdateProfile stores profile changes and returns the merged user.
	UpdateProfile(ctx context.Context, profile *domain.Profile) (*domain.User, error)

	// ChangePassword changes the password of the authenticated user.
	ChangePassword(ctx context.Context, change domain.PasswordChange) error
}

// Credential is the request configuration carrying the bearer token.
type Credential interface {
	Set(token string)
	Clear()
}

// TokenStore is the persisted token slot.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Remove(ctx context.Context) error
}

var errIncompleteGrant = errors.New("reply carries no token or user")

// Operation names used in logs and metrics.
const (
	OpInitialize     = "initialize"
	OpResolveSession = "resolve_session"
	OpLogin          = "login"
	OpRegister       = "register"
	OpLogout         = "logout"
	OpUpdateProfile  = "update_profile"
	OpChangePassword = "change_password"
)

// User-facing messages.
const (
	MsgLoginSuccess        = "Login successful!"
	MsgDevLoginSuccess     = "Login successful! (Development Mode)"
	MsgLoginFailed         = "Login failed"
	MsgRegisterSuccess     = "Registration successful!"
	MsgRegisterFailed      = "Registration failed"
	MsgLogoutSuccess       = "Logged out successfully"
	MsgProfileUpdated      = "Profile updated successfully"
	MsgProfileUpdateFailed = "Profile update failed"
	MsgPasswordChanged     = "Password changed successfully"
	MsgPasswordFailed      = "Password change failed"
)

// Store holds the authentication state of one client session.
//
// Store is safe for concurrent use. Transitions are applied atomically, but
// operations are not serialized: see the package documentation.
type Store struct {
	mu    sync.RWMutex
	state domain.State

	backend  Backend
	cred     Credential
	tokens   TokenStore
	notifier notify.Notifier
	logger   logger.Logger
	metrics  *metric.Registry

	devRequested bool
	devMode      bool
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier sets the notifier. Default: notify.Discard.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

// WithLogger sets the logger. Default: logger.Default().
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithMetrics records operations and transitions in r.
func WithMetrics(r *metric.Registry) Option {
	return func(s *Store) {
		s.metrics = r
	}
}

// WithDevMode requests the offline development fallback. The request only
// takes effect in binaries built with the smsdev tag.
func WithDevMode(requested bool) Option {
	return func(s *Store) {
		s.devRequested = requested
	}
}

// NewStore creates a Store in the initial (loading) state.
func NewStore(backend Backend, cred Credential, tokens TokenStore, opts ...Option) *Store {
	s := &Store{
		state:    domain.InitialState(),
		backend:  backend,
		cred:     cred,
		tokens:   tokens,
		notifier: notify.Discard{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Default()
	}
	s.logger = s.logger.With("component", "session")
	s.devMode = devmode.Allowed(s.devRequested, s.logger)

	return s
}

// State returns a snapshot of the current state.
func (s *Store) State() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// DevMode reports whether the development fallback is active.
func (s *Store) DevMode() bool {
	return s.devMode
}

// Initialize resolves the session from the persisted token. Without a token
// the store settles unauthenticated; with one it calls ResolveSession.
// Initialize never fails: unreadable token storage counts as no token.
func (s *Store) Initialize(ctx context.Context) domain.State {
	start := time.Now()

	token, err := s.tokens.Load(ctx)
	if err != nil && !errors.Is(err, domain.ErrNoToken) {
		s.logger.Warn("cannot read persisted token", "error", err)
	}

	if token == "" {
		defer s.observe(OpInitialize, true, start)
		if s.devMode {
			s.logger.Info("no token found, using mock session for development")
			return s.establishMock(ctx, "", false)
		}
		return s.dispatch(domain.SetLoading{Loading: false})
	}

	return s.ResolveSession(ctx, token)
}

// ResolveSession attaches token and asks the backend who it belongs to.
// On failure the persisted token is discarded and the session logged out.
func (s *Store) ResolveSession(ctx context.Context, token string) domain.State {
	start := time.Now()
	s.cred.Set(token)

	user, err := s.backend.Me(ctx)
	s.observe(OpResolveSession, err == nil, start)
	if err == nil {
		return s.dispatch(domain.LoginSuccess{User: user, Token: token})
	}

	if s.devMode && domain.IsUnreachable(err) {
		s.logger.Info("backend unreachable, using mock session for development", "error", err)
		return s.establishMock(ctx, "", false)
	}

	s.logger.Info("session resolution failed, discarding token", "error", err)
	s.discardToken(ctx)
	return s.dispatch(domain.Logout{})
}

// Login authenticates with email and password.
func (s *Store) Login(ctx context.Context, email, password string) domain.Result {
	start := time.Now()

	grant, err := s.backend.Login(ctx, domain.Credentials{Email: email, Password: password})
	if err == nil {
		err = checkGrant(grant)
	}
	if err != nil {
		if s.devMode && domain.IsUnreachable(err) {
			s.logger.Info("backend unreachable, using mock login for development", "error", err)
			s.establishMock(ctx, email, true)
			s.observe(OpLogin, true, start)
			s.notifier.Success(MsgDevLoginSuccess)
			return domain.Succeeded()
		}
		return s.fail(OpLogin, err, MsgLoginFailed, start)
	}

	s.establish(ctx, grant.User, grant.Token)
	s.observe(OpLogin, true, start)
	s.notifier.Success(MsgLoginSuccess)
	return domain.Succeeded()
}

// Register creates an account and signs in with it.
func (s *Store) Register(ctx context.Context, reg domain.Registration) domain.Result {
	start := time.Now()

	grant, err := s.backend.Register(ctx, reg)
	if err == nil {
		err = checkGrant(grant)
	}
	if err != nil {
		return s.fail(OpRegister, err, MsgRegisterFailed, start)
	}

	s.establish(ctx, grant.User, grant.Token)
	s.observe(OpRegister, true, start)
	s.notifier.Success(MsgRegisterSuccess)
	return domain.Succeeded()
}

// Logout ends the session locally. It makes no network call, cannot fail
// and is idempotent.
func (s *Store) Logout(ctx context.Context) domain.State {
	start := time.Now()

	s.discardToken(ctx)
	state := s.dispatch(domain.Logout{})

	s.observe(OpLogout, true, start)
	s.notifier.Success(MsgLogoutSuccess)
	return state
}

// UpdateProfile sends profile changes and adopts the user returned by the
// backend. The backend performs the merge.
func (s *Store) UpdateProfile(ctx context.Context, profile *domain.Profile) domain.Result {
	start := time.Now()

	if !s.State().HasSession() {
		return s.fail(OpUpdateProfile, domain.ErrNotAuthenticated, domain.ErrNotAuthenticated.Message, start)
	}

	user, err := s.backend.UpdateProfile(ctx, profile)
	if err != nil {
		return s.fail(OpUpdateProfile, err, MsgProfileUpdateFailed, start)
	}

	if _, ok := s.tryDispatch(domain.UpdateUser{Partial: user}); !ok {
		s.logger.Warn("session ended during profile update, update not applied")
	}
	s.observe(OpUpdateProfile, true, start)
	s.notifier.Success(MsgProfileUpdated)
	return domain.Succeeded()
}

// ChangePassword changes the password. The state is not modified.
func (s *Store) ChangePassword(ctx context.Context, currentPassword, newPassword string) domain.Result {
	start := time.Now()

	err := s.backend.ChangePassword(ctx, domain.PasswordChange{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	})
	if err != nil {
		return s.fail(OpChangePassword, err, MsgPasswordFailed, start)
	}

	s.observe(OpChangePassword, true, start)
	s.notifier.Success(MsgPasswordChanged)
	return domain.Succeeded()
}

// establish persists token, attaches it and records the session.
// A failed write is logged; the in-memory session is still valid.
func (s *Store) establish(ctx context.Context, user *domain.User, token string) domain.State {
	if err := s.tokens.Save(ctx, token); err != nil {
		s.logger.Warn("cannot persist token", "error", err)
	}
	s.cred.Set(token)
	return s.dispatch(domain.LoginSuccess{User: user, Token: token})
}

// establishMock records the development identity. Only login persists the
// mock token; startup fallbacks leave storage untouched.
func (s *Store) establishMock(ctx context.Context, email string, persist bool) domain.State {
	user := devmode.MockUser(email)
	if persist {
		return s.establish(ctx, user, devmode.MockToken)
	}
	s.cred.Set(devmode.MockToken)
	return s.dispatch(domain.LoginSuccess{User: user, Token: devmode.MockToken})
}

func (s *Store) discardToken(ctx context.Context) {
	if err := s.tokens.Remove(ctx); err != nil {
		s.logger.Warn("cannot remove persisted token", "error", err)
	}
	s.cred.Clear()
}

// fail reports a failed operation and builds its Result.
func (s *Store) fail(op string, err error, fallback string, start time.Time) domain.Result {
	msg := domain.MessageOr(err, fallback)
	s.logger.Info("operation failed", "operation", op, "error", err)
	s.observe(op, false, start)
	s.notifier.Error(msg)
	return domain.Failed(msg)
}

func (s *Store) dispatch(ev domain.Event) domain.State {
	state, _ := s.tryDispatch(ev)
	return state
}

// tryDispatch applies ev under the lock. UpdateUser is refused (ok false)
// when no user is present, since Reduce panics on it.
func (s *Store) tryDispatch(ev domain.Event) (domain.State, bool) {
	s.mu.Lock()
	if _, isUpdate := ev.(domain.UpdateUser); isUpdate && s.state.User == nil {
		snapshot := s.state.Clone()
		s.mu.Unlock()
		return snapshot, false
	}
	s.state = domain.Reduce(s.state, ev)
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.logger.Debug("state transition",
		"transition", ev.Name(),
		"authenticated", snapshot.IsAuthenticated,
		"loading", snapshot.Loading)
	if s.metrics != nil {
		s.metrics.ObserveTransition(ev.Name(), snapshot.IsAuthenticated)
	}
	return snapshot, true
}

func (s *Store) observe(op string, success bool, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(op, success, time.Since(start))
	}
}

// checkGrant rejects a success reply that carries no session.
func checkGrant(grant *domain.AuthGrant) error {
	if grant == nil || grant.Token == "" || grant.User == nil {
		return &domain.APIError{Kind: domain.KindServer, Status: 200, Cause: errIncompleteGrant}
	}
	return nil
}
