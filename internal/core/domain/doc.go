// Package domain defines the core models of the smsauth session client.
//
// Domain models are pure values without any IO dependencies. This package
// contains:
//
//   - User: the identity record returned by the SMS backend
//   - State: the session state and its transition function (Reduce)
//   - Result: the outcome reported to callers of session operations
//   - Errors: local DomainError codes and the APIError taxonomy
//   - Token: read-only inspection of JWT bearer tokens
package domain
