// Package shared holds the plumbing common to all provider adapters:
// construction settings, request building, body capture, and rate-limit
// header parsing.
package shared

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// RequestTimeout bounds every probe request.
const RequestTimeout = 10 * time.Second

// maxCapturedBody caps how much of a response body is kept for diagnostics.
const maxCapturedBody = 64 * 1024

// Settings is everything an adapter needs besides the credential itself.
// Adapters are stateless; a Settings value is baked in at construction and
// never mutated afterwards.
type Settings struct {
	BaseURL string // override of the adapter's default endpoint
	Client  *http.Client
	Logger  *log.Logger
}

// Option mutates Settings during adapter construction.
type Option func(*Settings)

// WithBaseURL points the adapter at a different endpoint, used by tests and
// by per-provider config overrides.
func WithBaseURL(u string) Option {
	return func(s *Settings) { s.BaseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient substitutes the transport.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Settings) {
		if c != nil {
			s.Client = c
		}
	}
}

// WithLogger injects the adapter's logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Settings) {
		if l != nil {
			s.Logger = l
		}
	}
}

// NewSettings applies options over defaults: a client with the mandatory
// request timeout and a silent logger.
func NewSettings(opts ...Option) Settings {
	s := Settings{
		Client: &http.Client{Timeout: RequestTimeout},
		Logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Response is the outcome of one probe: status, captured body, and headers.
type Response struct {
	Status int
	Body   []byte
	Header http.Header
}

// Get issues a GET with the given headers and captures the response. The
// request inherits ctx on top of the client timeout. Transport failures come
// back as errors; HTTP-level failures do not.
func (s Settings) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCapturedBody))
	if err != nil {
		return Response{}, fmt.Errorf("reading response: %w", err)
	}
	return Response{Status: resp.StatusCode, Body: body, Header: resp.Header}, nil
}

// BearerHeaders builds the common Authorization header shape.
func BearerHeaders(secret string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + secret}
}

// HeaderInt parses an integer rate-limit header. Returns 0, false when the
// header is absent or malformed.
func HeaderInt(h http.Header, key string) (int, bool) {
	v := strings.TrimSpace(h.Get(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// HeaderValue returns the first non-empty value among the given header keys.
func HeaderValue(h http.Header, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(h.Get(k)); v != "" {
			return v
		}
	}
	return ""
}

// Snippet truncates a body for log lines.
func Snippet(body []byte) string {
	const n = 200
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n])
}
