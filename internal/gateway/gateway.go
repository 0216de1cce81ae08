// Package gateway is the REST client for the remote ticket service. It is
// the client's only path to the source of truth: every request carries the
// session bearer token via a transport interceptor, API failures surface the
// server's own message verbatim when one is present, and a 401 tears down
// the stored session through a callback instead of bubbling through every
// call site.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// TokenSource yields the current bearer credential. An empty string means
// no session; requests are then sent unauthenticated and the service
// answers 401 for protected routes.
type TokenSource interface {
	Token() string
}

// Client talks to one deployment of the ticket service.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes Client construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (tests use this to
// point at an httptest server with its own transport).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// New creates a client for the service at baseURL (e.g.
// "http://localhost:8080/api/v1"). tokens supplies the bearer credential
// per request; onExpired, when non-nil, runs once per 401 so the owner can
// clear the stored session.
func New(baseURL string, tokens TokenSource, onExpired func(), opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = &authTransport{base: base, tokens: tokens, onExpired: onExpired}
	return c
}

// authTransport attaches the bearer token to every outgoing request and
// watches responses for session expiry.
type authTransport struct {
	base      http.RoundTripper
	tokens    TokenSource
	onExpired func()
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens != nil {
		if token := t.tokens.Token(); token != "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized && t.onExpired != nil {
		t.onExpired()
	}
	return resp, nil
}

// APIError is a non-2xx answer from the service. Message is the server's
// own text when the body carried one, else a generic fallback; the UI shows
// it verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("service: %s (HTTP %d)", e.Message, e.StatusCode)
}

// IsAuthError reports whether err is a 401 or 403 from the service.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gateway: decode %s %s: %w", method, path, err)
	}
	return nil
}

// decodeAPIError digs the server's message out of an error body. The
// service answers either {"message": "..."} or a bare string; anything
// unreadable falls back to the HTTP status text.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return apiErr
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil {
		if msg := strings.TrimSpace(body.Message); msg != "" {
			apiErr.Message = msg
			return apiErr
		}
		if msg := strings.TrimSpace(body.Error); msg != "" {
			apiErr.Message = msg
			return apiErr
		}
	}
	var plain string
	if json.Unmarshal(data, &plain) == nil && strings.TrimSpace(plain) != "" {
		apiErr.Message = strings.TrimSpace(plain)
		return apiErr
	}
	if text := strings.TrimSpace(string(data)); text != "" && !strings.HasPrefix(text, "{") {
		apiErr.Message = text
	}
	return apiErr
}
