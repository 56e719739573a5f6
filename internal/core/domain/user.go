// Package domain defines the core models of the smsauth session client.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
)

// ID is an opaque user identifier.
// The backend sends either a JSON string or a JSON number; both decode into ID.
type ID string

// UnmarshalJSON accepts string and numeric identifiers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric identifiers back as numbers.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Profile holds the personal details of a user.
type Profile struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Avatar    string `json:"avatar,omitempty"`

	// Extra keeps profile fields this client does not model.
	Extra map[string]json.RawMessage `json:"-"`
}

// FullName returns "First Last", trimmed of missing parts.
func (p *Profile) FullName() string {
	if p == nil {
		return ""
	}
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.Extra = maps.Clone(p.Extra)
	return &c
}

var profileKeys = []string{"firstName", "lastName", "phone", "avatar"}

// UnmarshalJSON decodes known fields and keeps the rest in Extra.
func (p *Profile) UnmarshalJSON(data []byte) error {
	type plain Profile
	var known plain
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := extraFields(data, profileKeys)
	if err != nil {
		return err
	}
	*p = Profile(known)
	p.Extra = extra
	return nil
}

// MarshalJSON encodes known fields together with Extra.
func (p Profile) MarshalJSON() ([]byte, error) {
	type plain Profile
	return withExtra(plain(p), p.Extra)
}

// User is the identity record of the authenticated user.
type User struct {
	ID      ID       `json:"id"`
	Email   string   `json:"email,omitempty"`
	Role    string   `json:"role,omitempty"`
	Profile *Profile `json:"profile,omitempty"`

	// Extra keeps top-level fields this client does not model
	// (for example isActive or lastLogin).
	Extra map[string]json.RawMessage `json:"-"`

	// present records which modeled keys the decoded JSON carried.
	present map[string]bool
}

var userKeys = []string{"id", "email", "role", "profile"}

// UnmarshalJSON decodes known fields and keeps the rest in Extra.
// It also records which modeled keys were present, including explicit
// empty strings and nulls, for Merge.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var known plain
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	present := make(map[string]bool, len(userKeys))
	for _, k := range userKeys {
		if _, ok := all[k]; ok {
			present[k] = true
		}
	}
	extra, err := extraFields(data, userKeys)
	if err != nil {
		return err
	}
	*u = User(known)
	u.Extra = extra
	u.present = present
	return nil
}

// WithFields marks the named JSON keys (id, email, role, profile) as present,
// so Merge applies them even when they hold zero values.
func (u *User) WithFields(keys ...string) *User {
	if u.present == nil {
		u.present = make(map[string]bool, len(keys))
	}
	for _, k := range keys {
		u.present[k] = true
	}
	return u
}

// has reports whether key counts as present in u. Decoded users answer from
// the keys they carried; users built in code fall back to non-zero values.
func (u *User) has(key string) bool {
	if u.present != nil {
		return u.present[key]
	}
	switch key {
	case "id":
		return u.ID != ""
	case "email":
		return u.Email != ""
	case "role":
		return u.Role != ""
	case "profile":
		return u.Profile != nil
	}
	return false
}

// MarshalJSON encodes known fields together with Extra.
func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	return withExtra(plain(u), u.Extra)
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Profile = u.Profile.Clone()
	c.Extra = maps.Clone(u.Extra)
	c.present = maps.Clone(u.present)
	return &c
}

// Merge returns a copy of u with every field present in partial overwritten.
//
// The merge is shallow: a present Profile replaces the whole profile record,
// and an explicit "profile": null clears it. Presence follows the keys a
// decoded partial carried, so an explicit empty value overwrites.
func (u *User) Merge(partial *User) *User {
	merged := u.Clone()
	merged.present = nil
	if partial == nil {
		return merged
	}
	if partial.has("id") {
		merged.ID = partial.ID
	}
	if partial.has("email") {
		merged.Email = partial.Email
	}
	if partial.has("role") {
		merged.Role = partial.Role
	}
	if partial.has("profile") {
		merged.Profile = partial.Profile.Clone()
	}
	if len(partial.Extra) > 0 {
		if merged.Extra == nil {
			merged.Extra = make(map[string]json.RawMessage, len(partial.Extra))
		}
		for k, v := range partial.Extra {
			merged.Extra[k] = v
		}
	}
	return merged
}

// DisplayName returns the profile name, falling back to the email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := u.Profile.FullName(); name != "" {
		return name
	}
	return u.Email
}

func extraFields(data []byte, known []string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

func withExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for k, raw := range extra {
		if _, ok := all[k]; !ok {
			all[k] = raw
		}
	}
	return json.Marshal(all)
}
