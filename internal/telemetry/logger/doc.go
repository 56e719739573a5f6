// Package logger provides structured logging for the smsauth client.
//
//   - logger.go: Logger interface over log/slog, level control
//   - context.go: context propagation of loggers and request IDs
//   - redact.go: masking of credentials before they reach the output
//
// Passwords and bearer tokens pass through this client constantly; every
// handler built by New redacts them, so callers can log request structs
// without scrubbing them first.
package logger
