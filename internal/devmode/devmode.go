// Package devmode provides the offline fallback used while developing
// against a backend that is not running.
//
// The fallback is compiled in only with the smsdev build tag:
//
//	go build -tags smsdev ./cmd/smsauth-cli
//
// and is then enabled at runtime with dev_mode: true (or SMSAUTH_DEV_MODE).
// Release builds ignore the runtime switch.
package devmode

import (
	"github.com/yndnr/smsauth/internal/core/domain"
	"github.com/yndnr/smsauth/internal/telemetry/logger"
)

// MockToken is the bearer token of the synthesized session.
const MockToken = "dev-token"

// Mock identity.
const (
	MockUserID    = "dev-user-1"
	MockEmail     = "admin@school.com"
	MockRole      = "admin"
	MockFirstName = "System"
	MockLastName  = "Admin"
)

// Compiled reports whether the binary was built with the smsdev tag.
func Compiled() bool {
	return compiled
}

// Allowed reports whether the fallback is active for the given runtime switch.
// Asking for it in a build without the tag logs a warning and returns false.
func Allowed(requested bool, log logger.Logger) bool {
	if !requested {
		return false
	}
	if !compiled {
		if log == nil {
			log = logger.Default()
		}
		log.Warn("dev_mode ignored: binary built without the smsdev tag")
		return false
	}
	return true
}

// MockUser returns the synthesized user. A non-empty email replaces the
// default one, mirroring a login with that address.
func MockUser(email string) *domain.User {
	if email == "" {
		email = MockEmail
	}
	return &domain.User{
		ID:    MockUserID,
		Email: email,
		Role:  MockRole,
		Profile: &domain.Profile{
			FirstName: MockFirstName,
			LastName:  MockLastName,
		},
	}
}
