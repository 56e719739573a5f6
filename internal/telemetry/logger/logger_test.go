package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Format: "json", Output: &buf})

	l.Info("hello", "user", "a@b.com")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", entry["msg"])
	}
	if entry["user"] != "a@b.com" {
		t.Errorf("user = %v, want a@b.com", entry["user"])
	}
}

func TestNew_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf})

	l.Info("text entry")

	if !strings.Contains(buf.String(), "msg=\"text entry\"") {
		t.Errorf("expected text handler output, got %q", buf.String())
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Format: "json", Output: &buf})

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below warn should be filtered: %s", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "error", Format: "json", Output: &buf})
	defer SetLevel("warn")

	l.Info("before")
	SetLevel("debug")
	l.Info("after")

	if GetLevel() != "debug" {
		t.Errorf("GetLevel() = %q, want debug", GetLevel())
	}
	if strings.Contains(buf.String(), "before") {
		t.Error("info should be filtered at error level")
	}
	if !strings.Contains(buf.String(), "after") {
		t.Error("info should pass after SetLevel(debug)")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "DEBUG",
		"INFO":    "INFO",
		"warning": "WARN",
		"error":   "ERROR",
		"bogus":   "INFO",
	}
	for in, want := range tests {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Output: &buf}).With("operation", "login")

	l.Info("done")

	if !strings.Contains(buf.String(), `"operation":"login"`) {
		t.Errorf("With() attribute missing: %s", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing")
	if l.With("k", "v") == nil {
		t.Error("With() on discard logger returned nil")
	}
}

func TestContextHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Output: &buf})

	ctx := WithLogger(context.Background(), l)
	ctx = WithRequestID(ctx, "01J000")

	if RequestIDFromContext(ctx) != "01J000" {
		t.Errorf("RequestIDFromContext() = %q", RequestIDFromContext(ctx))
	}
	if RequestIDFromContext(context.Background()) != "" {
		t.Error("empty context should have no request ID")
	}
	if FromContext(context.Background()) != Default() {
		t.Error("FromContext() without logger should return Default()")
	}

	L(ctx).Info("scoped")
	if !strings.Contains(buf.String(), `"request_id":"01J000"`) {
		t.Errorf("L() should add request_id: %s", buf.String())
	}
}
