// Package domain defines the core models of the smsauth session client.
package domain

import "encoding/json"

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the account creation payload.
type Registration struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     string   `json:"role,omitempty"`
	Profile  *Profile `json:"profile,omitempty"`

	// Extra is sent as additional top-level fields. Modeled fields win
	// over an Extra key of the same name.
	Extra map[string]json.RawMessage `json:"-"`
}

var registrationKeys = []string{"email", "password", "role", "profile"}

// MarshalJSON encodes known fields together with Extra.
func (r Registration) MarshalJSON() ([]byte, error) {
	type plain Registration
	return withExtra(plain(r), r.Extra)
}

// UnmarshalJSON decodes known fields and keeps the rest in Extra.
func (r *Registration) UnmarshalJSON(data []byte) error {
	type plain Registration
	var known plain
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := extraFields(data, registrationKeys)
	if err != nil {
		return err
	}
	*r = Registration(known)
	r.Extra = extra
	return nil
}

// PasswordChange is the password change payload.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthGrant is the backend reply to a successful login or registration.
type AuthGrant struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
