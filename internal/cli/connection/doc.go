// Package connection provides the smsauth client's link to the SMS backend.
//
//   - credential.go: the bearer credential attached to outgoing requests
//   - http.go: JSON-over-HTTP client and error classification
//   - auth.go: typed calls for the /auth endpoints
//
// The credential is an explicit object owned by whoever builds the client;
// nothing in this package mutates process-wide defaults.
package connection
