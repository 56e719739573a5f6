package output

import (
	"time"

	"github.com/yndnr/smsauth/internal/core/domain"
)

// SessionView is the printable form of a session.
type SessionView struct {
	Authenticated bool   `json:"authenticated" yaml:"authenticated"`
	ID            string `json:"id,omitempty" yaml:"id,omitempty"`
	Email         string `json:"email,omitempty" yaml:"email,omitempty"`
	Role          string `json:"role,omitempty" yaml:"role,omitempty"`
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	Phone         string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Avatar        string `json:"avatar,omitempty" yaml:"avatar,omitempty" table:"wide"`
	TokenSubject  string `json:"tokenSubject,omitempty" yaml:"token_subject,omitempty" table:"wide"`
	TokenExpires  string `json:"tokenExpires,omitempty" yaml:"token_expires,omitempty"`
	DevMode       bool   `json:"devMode,omitempty" yaml:"dev_mode,omitempty" table:"wide"`
}

// NewSessionView builds the view of state. Claims of JWT tokens are
// decoded for display; opaque tokens leave the token fields empty.
func NewSessionView(state domain.State, devMode bool, now time.Time) SessionView {
	v := SessionView{
		Authenticated: state.IsAuthenticated,
		DevMode:       devMode,
	}
	if u := state.User; u != nil {
		v.ID = string(u.ID)
		v.Email = u.Email
		v.Role = u.Role
		v.Name = u.Profile.FullName()
		if u.Profile != nil {
			v.Phone = u.Profile.Phone
			v.Avatar = u.Profile.Avatar
		}
	}
	if info, ok := domain.InspectToken(state.Token); ok {
		v.TokenSubject = info.Subject
		if !info.ExpiresAt.IsZero() {
			v.TokenExpires = info.ExpiresAt.Local().Format(time.RFC3339)
			if info.Expired(now) {
				v.TokenExpires += " (expired)"
			}
		}
	}
	return v
}

// ResultView is the printable form of an operation outcome.
type ResultView struct {
	Operation string `json:"operation" yaml:"operation"`
	Success   bool   `json:"success" yaml:"success"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
}

// NewResultView builds the view of r for operation op.
func NewResultView(op string, r domain.Result) ResultView {
	return ResultView{Operation: op, Success: r.Success, Message: r.Message}
}
