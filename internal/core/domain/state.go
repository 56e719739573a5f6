// Package domain defines the core models of the smsauth session client.
package domain

// State is the authentication state of the client.
//
// IsAuthenticated is true if and only if User and Token are both present
// after the last successful transition. Loading is true only while the
// initial session resolution is in progress.
type State struct {
	User            *User  `json:"user"`
	Token           string `json:"-"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	Loading         bool   `json:"loading"`
}

// InitialState returns the state before any session resolution:
// nothing known and Loading set.
func InitialState() State {
	return State{Loading: true}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	s.User = s.User.Clone()
	return s
}

// HasSession reports whether both a user and a token are present.
func (s State) HasSession() bool {
	return s.User != nil && s.Token != ""
}

// Event is a named state change. The set of events is closed.
type Event interface {
	// Name returns the transition name used in logs and metrics.
	Name() string
	isEvent()
}

// LoginSuccess records a resolved user and its credential.
type LoginSuccess struct {
	User  *User
	Token string
}

// Logout clears the session.
type Logout struct{}

// SetLoading toggles the loading flag only.
type SetLoading struct {
	Loading bool
}

// UpdateUser shallow-merges Partial into the current user.
type UpdateUser struct {
	Partial *User
}

func (LoginSuccess) Name() string { return "LOGIN_SUCCESS" }
func (Logout) Name() string       { return "LOGOUT" }
func (SetLoading) Name() string   { return "SET_LOADING" }
func (UpdateUser) Name() string   { return "UPDATE_USER" }

func (LoginSuccess) isEvent() {}
func (Logout) isEvent()       {}
func (SetLoading) isEvent()   {}
func (UpdateUser) isEvent()   {}

// Reduce applies ev to s and returns the new state. It performs no IO and
// never mutates s.
//
// UpdateUser with no current user is a programming error and panics.
// LoginSuccess derives IsAuthenticated from the presence of both user and
// token, so a transition carrying an empty token never reports an
// authenticated session.
func Reduce(s State, ev Event) State {
	next := s.Clone()

	switch e := ev.(type) {
	case LoginSuccess:
		next.User = e.User.Clone()
		next.Token = e.Token
		next.IsAuthenticated = next.HasSession()
		next.Loading = false
	case Logout:
		next.User = nil
		next.Token = ""
		next.IsAuthenticated = false
		next.Loading = false
	case SetLoading:
		next.Loading = e.Loading
	case UpdateUser:
		if next.User == nil {
			panic("domain: UpdateUser applied without an authenticated user")
		}
		next.User = next.User.Merge(e.Partial)
	default:
		return next
	}

	return next
}
