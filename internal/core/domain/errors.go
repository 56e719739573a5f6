// Package domain defines the core models of the smsauth session client.
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a local client error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "SMS-AUTH-4010")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches DomainErrors by code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

var (
	// ErrNoToken indicates no persisted token exists.
	ErrNoToken = NewDomainError("SMS-AUTH-4040", "no persisted token")

	// ErrNotAuthenticated indicates an operation that needs a session was called without one.
	ErrNotAuthenticated = NewDomainError("SMS-AUTH-4010", "not authenticated")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("SMS-ARG-1002", "missing required argument")

	// ErrTokenStore indicates the token store failed.
	ErrTokenStore = NewDomainError("SMS-SYS-5001", "token store error")

	// ErrInvalidConfig indicates the client configuration is invalid.
	ErrInvalidConfig = NewDomainError("SMS-CFG-4000", "invalid configuration")
)

// ErrorKind classifies a failed backend call.
type ErrorKind int

const (
	// KindUnreachable means no HTTP response was received.
	KindUnreachable ErrorKind = iota + 1
	// KindUnauthorized means the credential was rejected (401/403).
	KindUnauthorized
	// KindValidation means the backend rejected the request (other 4xx).
	KindValidation
	// KindServer covers 5xx and any other unexpected reply.
	KindServer
	// KindTimeout means the call was cancelled or timed out before a reply.
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// APIError is a failed call to the SMS backend.
type APIError struct {
	Kind   ErrorKind
	Status int    // HTTP status, 0 when unreachable
	Code   string // backend error code, if any
	// Message is the human-readable text supplied by the backend, if any.
	Message string
	// Detail is the backend's raw "error" field. It is logged, never shown.
	Detail string
	Cause  error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.Kind == KindUnreachable:
		return fmt.Sprintf("backend unreachable: %v", e.Cause)
	case e.Kind == KindTimeout:
		return fmt.Sprintf("backend call aborted: %v", e.Cause)
	case e.Message != "":
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	case e.Detail != "":
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Detail)
	default:
		return fmt.Sprintf("%s: request failed with status %d", e.Kind, e.Status)
	}
}

// Unwrap returns the transport error, if any.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// KindForStatus maps an HTTP status code to an ErrorKind.
func KindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}

// IsUnreachable reports whether err is a backend call that got no response.
func IsUnreachable(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Kind == KindUnreachable
}

// MessageOr returns the backend-supplied message carried by err,
// or fallback when there is none.
func MessageOr(err error, fallback string) string {
	var ae *APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}
