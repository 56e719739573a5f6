// Package connection provides the smsauth client's link to the SMS backend.
package connection

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/smsauth/internal/core/domain"
	"github.com/yndnr/smsauth/internal/telemetry/logger"
)

// DefaultTimeout bounds a single backend round trip.
const DefaultTimeout = 30 * time.Second

// HTTPClient provides HTTP communication with the SMS backend.
type HTTPClient struct {
	baseURL   string
	client    *http.Client
	cred      *Credential
	userAgent string
	logger    logger.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithTLSConfig sets the TLS configuration used for https backends.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *HTTPClient) {
		if cfg == nil {
			return
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = cfg
		c.client.Transport = transport
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *HTTPClient) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *HTTPClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewHTTPClient creates a new HTTP client for server.
// A nil cred is replaced by an empty Credential.
func NewHTTPClient(server string, cred *Credential, opts ...Option) *HTTPClient {
	// Ensure baseURL has http:// prefix
	baseURL := strings.TrimRight(server, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	if cred == nil {
		cred = NewCredential()
	}

	c := &HTTPClient{
		baseURL:   baseURL,
		cred:      cred,
		userAgent: "smsauth-cli/dev",
		logger:    logger.Default(),
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base URL of the client.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Credential returns the credential applied to requests.
func (c *HTTPClient) Credential() *Credential {
	return c.cred
}

// Do sends a request and decodes the reply into target (which may be nil).
// The X-Request-ID header carries the request ID of ctx when it has one,
// otherwise a fresh ULID.
//
// Backend failures are a *domain.APIError: KindTimeout when the call was
// cancelled or timed out, KindUnreachable when no connection could be made,
// otherwise the kind derived from the status code. Errors building the
// request are returned as is.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body, target any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		var urlErr *url.Error
		if !errors.As(err, &urlErr) {
			return err
		}
		if urlErr.Timeout() || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return &domain.APIError{Kind: domain.KindTimeout, Cause: err}
		}
		return &domain.APIError{Kind: domain.KindUnreachable, Cause: err}
	}
	return ParseResponse(resp, target)
}

func (c *HTTPClient) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := logger.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = ulid.Make().String()
	}
	c.addHeaders(req, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	log := c.logger.With("method", method, "path", path, "request_id", requestID, "duration", time.Since(start))
	if err != nil {
		log.Debug("backend request failed", "error", err)
		return nil, err
	}
	log.Debug("backend request", "status", resp.StatusCode)
	return resp, nil
}

// addHeaders adds authentication and common headers.
func (c *HTTPClient) addHeaders(req *http.Request, requestID string) {
	c.cred.Apply(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
}

// ParseResponse parses a JSON response body into the target struct.
// Replies with status >= 400 become a *domain.APIError carrying the
// backend's message when the body has one. The body's "error" field only
// goes to Detail.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &domain.APIError{
			Kind:   domain.KindForStatus(resp.StatusCode),
			Status: resp.StatusCode,
		}
		var errResp struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			apiErr.Code = errResp.Code
			apiErr.Message = errResp.Message
			apiErr.Detail = errResp.Error
		}
		return apiErr
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return &domain.APIError{
				Kind:   domain.KindServer,
				Status: resp.StatusCode,
				Cause:  fmt.Errorf("parse response: %w", err),
			}
		}
	}

	return nil
}
