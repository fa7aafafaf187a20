// Package api is the REST half of the remote service client. Each method maps
// to one endpoint under /api/v1 and returns the decoded response body.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"livechat/auth"
	"livechat/logging"
	"livechat/middleware"
)

// ErrTransport marks failures where the request never produced a response
var ErrTransport = errors.New("transport failure")

// Error is a non-2xx response from the server
type Error struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// StatusCode extracts the HTTP status of a server rejection, or 0 for any other error
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

type options struct {
	rps   float64
	burst int
}

type Option func(*options)

// WithRateLimit caps outgoing requests at rps per second with the given burst
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		o.rps = rps
		o.burst = burst
	}
}

// New builds a client whose requests are logged, traced and carry the stored bearer token.
// A nil log falls back to slog.Default.
func New(baseURL string, timeout time.Duration, creds auth.CredentialStore, log *slog.Logger, opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var next http.RoundTripper = &middleware.BearerTransport{Credentials: creds}
	if o.rps > 0 {
		next = middleware.NewRateLimitTransport(o.rps, o.burst, next)
	}
	hc := &http.Client{
		Timeout:   timeout,
		Transport: &middleware.LoggingTransport{Base: next},
	}
	return NewWithHTTPClient(baseURL, hc, log)
}

// NewWithHTTPClient uses hc as is. Its transports find the client's logger in the request context.
func NewWithHTTPClient(baseURL string, hc *http.Client, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{baseURL: baseURL, http: hc, log: log.With("component", "api")}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(logging.WithContext(ctx, c.log), method, target, reader)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp, method, path)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.WarnContext(ctx, "api - response - decode failed", "method", method, "path", path, logging.Err(err))
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}

// newError reads the message the server put in the body, falling back to the status text
func newError(resp *http.Response, method, path string) *Error {
	e := &Error{StatusCode: resp.StatusCode, Method: method, Path: path}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			e.Message = body.Message
		} else {
			e.Message = body.Error
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}

func escape(id string) string {
	return url.PathEscape(id)
}
