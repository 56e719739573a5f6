// Package notify delivers short user-facing success and error messages.
//
// The session store reports the outcome of every operation through a
// Notifier; the CLI prints them, tests record them.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/yndnr/smsauth/internal/telemetry/logger"
)

// Notifier receives transient user-facing messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Console writes successes to out and errors to errOut.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	quiet  bool
}

// NewConsole creates a Console notifier.
func NewConsole(out, errOut io.Writer) *Console {
	return &Console{out: out, errOut: errOut}
}

// SetQuiet suppresses success messages. Errors are always printed.
func (c *Console) SetQuiet(quiet bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quiet = quiet
}

// Success prints msg with a check mark.
func (c *Console) Success(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quiet {
		return
	}
	fmt.Fprintf(c.out, "✓ %s\n", msg)
}

// Error prints msg with a cross.
func (c *Console) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.errOut, "✗ %s\n", msg)
}

// Log forwards messages to a logger.
type Log struct {
	logger logger.Logger
}

// NewLog creates a Notifier that logs at info (success) and warn (error).
func NewLog(l logger.Logger) *Log {
	if l == nil {
		l = logger.Default()
	}
	return &Log{logger: l}
}

// Success logs msg at info level.
func (l *Log) Success(msg string) {
	l.logger.Info("notification", "kind", KindSuccess, "message", msg)
}

// Error logs msg at warn level.
func (l *Log) Error(msg string) {
	l.logger.Warn("notification", "kind", KindError, "message", msg)
}

// Multi fans a message out to several notifiers.
type Multi []Notifier

// Success forwards to every notifier.
func (m Multi) Success(msg string) {
	for _, n := range m {
		n.Success(msg)
	}
}

// Error forwards to every notifier.
func (m Multi) Error(msg string) {
	for _, n := range m {
		n.Error(msg)
	}
}

// Discard drops every message.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Error(string)   {}
