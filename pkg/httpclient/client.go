// Package httpclient provides the shared HTTP client used by every provider
// and the download engine. One client is constructed at startup and passed
// down explicitly; its transport keeps a bounded pool of keep-alive
// connections so repeated API calls and downloads reuse connections.
package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/appimage-updater/appimage-updater/internal/logger"
	"github.com/appimage-updater/appimage-updater/pkg/errors"
)

const (
	maxIdleConns    = 32
	maxConnsPerHost = 8
	idleConnTimeout = 90 * time.Second
)

// Client wraps http.Client with the updater's user agent and per-host
// authentication headers sourced from the environment.
type Client struct {
	client    *http.Client
	userAgent string
	tokens    TokenSource
}

// Option customizes a Client.
type Option func(*Client)

// WithTokenSource overrides the environment-based token lookup, mainly for
// tests.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithTracing wraps the transport with a decorator that logs every request
// at debug level.
func WithTracing() Option {
	return func(c *Client) {
		c.client.Transport = &tracingTransport{next: c.client.Transport}
	}
}

// New creates a Client with the given timeout and user agent.
func New(timeout time.Duration, userAgent string, opts ...Option) *Client {
	if userAgent == "" {
		userAgent = "appimage-updater/1.0"
	}
	c := &Client{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    maxIdleConns,
				MaxConnsPerHost: maxConnsPerHost,
				IdleConnTimeout: idleConnTimeout,
			},
		},
		userAgent: userAgent,
		tokens:    EnvTokenSource{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do executes req after attaching the user agent and any token for the
// request's host.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	if header, value, ok := c.tokens.TokenFor(req.URL.Hostname()); ok {
		req.Header.Set(header, value)
	}
	return c.client.Do(req)
}

// Get issues a GET request for rawURL.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	return c.Do(req)
}

// Head issues a HEAD request for rawURL, following redirects.
func (c *Client) Head(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	return c.Do(req)
}

// CloseIdleConnections releases the connection pool. Called once at process
// exit.
func (c *Client) CloseIdleConnections() {
	c.client.CloseIdleConnections()
}

// StatusError converts a non-2xx API status into the matching sentinel error.
func StatusError(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return errors.ErrAuthFailed
	case http.StatusForbidden:
		return errors.ErrForbidden
	case http.StatusNotFound:
		return errors.ErrReleaseNotFound
	default:
		return errors.Wrapf(errors.ErrProvider, "unexpected status code %d", statusCode)
	}
}

// tracingTransport logs every round trip at debug level.
type tracingTransport struct {
	next http.RoundTripper
}

func (t *tracingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}
	start := time.Now()
	resp, err := next.RoundTrip(req)
	fields := logger.Fields{
		"method":   req.Method,
		"url":      req.URL.Redacted(),
		"duration": time.Since(start).Round(time.Millisecond).String(),
	}
	if err != nil {
		fields["error"] = err.Error()
	} else {
		fields["status"] = resp.StatusCode
	}
	logger.Debug("http request", fields)
	return resp, err
}
