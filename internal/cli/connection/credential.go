// Package connection provides the smsauth client's link to the SMS backend.
package connection

import (
	"net/http"
	"sync"
)

// Credential holds the bearer token applied to outgoing requests.
// The zero value carries no token.
type Credential struct {
	mu    sync.RWMutex
	token string
}

// NewCredential creates an empty credential.
func NewCredential() *Credential {
	return &Credential{}
}

// Set attaches token to all subsequent requests.
func (c *Credential) Set(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Clear removes the token.
func (c *Credential) Clear() {
	c.Set("")
}

// Token returns the current token, or "" when none is set.
func (c *Credential) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// IsSet returns true if a token is attached.
func (c *Credential) IsSet() bool {
	return c.Token() != ""
}

// Apply sets the Authorization header on req when a token is attached.
func (c *Credential) Apply(req *http.Request) {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
