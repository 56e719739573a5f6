package connection

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yndnr/smsauth/internal/core/domain"
	"github.com/yndnr/smsauth/internal/telemetry/logger"
)

func TestNewHTTPClient(t *testing.T) {
	tests := []struct {
		name       string
		server     string
		wantPrefix string
	}{
		{"with http prefix", "http://localhost:5000/api", "http://localhost:5000/api"},
		{"with https prefix", "https://sms.example.com/api", "https://sms.example.com/api"},
		{"without prefix", "localhost:5000/api", "http://localhost:5000/api"},
		{"trailing slash", "http://localhost:5000/api/", "http://localhost:5000/api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewHTTPClient(tt.server, nil)
			if client.BaseURL() != tt.wantPrefix {
				t.Errorf("BaseURL() = %q, want %q", client.BaseURL(), tt.wantPrefix)
			}
			if client.Credential() == nil {
				t.Error("Credential() = nil, want empty credential")
			}
		})
	}
}

func TestHTTPClient_Headers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %q, want GET", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer T1" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer T1")
		}
		if got := r.Header.Get("User-Agent"); got != "smsauth-cli/1.0" {
			t.Errorf("User-Agent = %q, want %q", got, "smsauth-cli/1.0")
		}
		if got := r.Header.Get("X-Request-ID"); len(got) != 26 {
			t.Errorf("X-Request-ID = %q, want a ULID", got)
		}
		if r.URL.Path != "/api/test/path" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/api/test/path")
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	cred := NewCredential()
	cred.Set("T1")
	client := NewHTTPClient(server.URL+"/api", cred,
		WithUserAgent("smsauth-cli/1.0"), WithLogger(logger.Discard()))

	var result map[string]string
	if err := client.Do(context.Background(), http.MethodGet, "/test/path", nil, &result); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("status = %q, want %q", result["status"], "ok")
	}
}

func TestHTTPClient_NoCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want none", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, NewCredential(), WithLogger(logger.Discard()))
	if err := client.Do(context.Background(), http.MethodPut, "/x", map[string]int{"a": 1}, nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestHTTPClient_PostBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "a@b.com" {
			t.Errorf("email = %q", body["email"])
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, nil, WithLogger(logger.Discard()))
	err := client.Do(context.Background(), http.MethodPost, "/x", map[string]string{"email": "a@b.com"}, nil)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestHTTPClient_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    domain.ErrorKind
		wantMessage string
		wantDetail  string
	}{
		{"unauthorized with message", 401, `{"message":"Invalid credentials"}`, domain.KindUnauthorized, "Invalid credentials", ""},
		{"forbidden", 403, `{}`, domain.KindUnauthorized, "", ""},
		{"error field is not a message", 422, `{"error":"email is required"}`, domain.KindValidation, "", "email is required"},
		{"message wins over error", 400, `{"message":"Bad email","error":"ValidationError"}`, domain.KindValidation, "Bad email", "ValidationError"},
		{"server error no body", 500, ``, domain.KindServer, "", ""},
		{"server error html", 502, `<html>bad gateway</html>`, domain.KindServer, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewHTTPClient(server.URL, nil, WithLogger(logger.Discard()))
			err := client.Do(context.Background(), http.MethodGet, "/x", nil, nil)

			var apiErr *domain.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Do() error = %v, want *domain.APIError", err)
			}
			if apiErr.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", apiErr.Kind, tt.wantKind)
			}
			if apiErr.Status != tt.status {
				t.Errorf("Status = %d, want %d", apiErr.Status, tt.status)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
			if apiErr.Detail != tt.wantDetail {
				t.Errorf("Detail = %q, want %q", apiErr.Detail, tt.wantDetail)
			}
		})
	}
}

func TestHTTPClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewHTTPClient(url, nil, WithLogger(logger.Discard()))
	err := client.Do(context.Background(), http.MethodGet, "/x", nil, nil)
	if !domain.IsUnreachable(err) {
		t.Errorf("Do() error = %v, want unreachable", err)
	}
}

func TestHTTPClient_AbortedIsNotUnreachable(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
		opts []Option
	}{
		{
			name: "client timeout",
			ctx:  func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) },
			opts: []Option{WithTimeout(50 * time.Millisecond)},
		},
		{
			name: "context deadline",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 50*time.Millisecond)
			},
		},
		{
			name: "context cancelled",
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				time.AfterFunc(50*time.Millisecond, cancel)
				return ctx, cancel
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()
			client := NewHTTPClient(server.URL, nil, append(tt.opts, WithLogger(logger.Discard()))...)

			err := client.Do(ctx, http.MethodGet, "/x", nil, nil)

			if domain.IsUnreachable(err) {
				t.Errorf("Do() error = %v, classified as unreachable", err)
			}
			var apiErr *domain.APIError
			if !errors.As(err, &apiErr) || apiErr.Kind != domain.KindTimeout {
				t.Errorf("Do() error = %v, want timeout APIError", err)
			}
		})
	}
}

func TestHTTPClient_BadRequestBody(t *testing.T) {
	client := NewHTTPClient("localhost:1", nil, WithLogger(logger.Discard()))
	err := client.Do(context.Background(), http.MethodPost, "/x", make(chan int), nil)
	if err == nil {
		t.Fatal("expected marshal error")
	}
	if domain.IsUnreachable(err) {
		t.Error("marshal error classified as unreachable")
	}
}

func TestHTTPClient_UndecodableSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, nil, WithLogger(logger.Discard()))
	var target map[string]any
	err := client.Do(context.Background(), http.MethodGet, "/x", nil, &target)

	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != domain.KindServer {
		t.Errorf("Do() error = %v, want server APIError", err)
	}
}

func TestHTTPClient_RequestIDFromContext(t *testing.T) {
	var got []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, nil, WithLogger(logger.Discard()))
	ctx := logger.WithRequestID(context.Background(), "line-42")
	for i := 0; i < 2; i++ {
		if err := client.Do(ctx, http.MethodGet, "/x", nil, nil); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
	}
	if err := client.Do(context.Background(), http.MethodGet, "/x", nil, nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	if got[0] != "line-42" || got[1] != "line-42" {
		t.Errorf("request IDs = %q, want line-42 from context", got[:2])
	}
	if len(got[2]) != 26 {
		t.Errorf("request ID without context = %q, want a ULID", got[2])
	}
}
