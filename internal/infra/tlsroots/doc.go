// Package tlsroots builds the trust store used to reach an HTTPS backend.
//
// The system pool is extended with a private CA from tls.ca_file, so
// school deployments with an internal CA work without touching the host
// trust store.
package tlsroots
