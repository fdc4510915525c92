// Package transport issues the catalog's JSON GET requests.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
)

const defaultBaseURL = "http://localhost:9000"

// Client fetches result pages from a bouquins server.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	metrics *Metrics
	log     logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit spaces requests to at most rps per second. rps <= 0
// disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics records request outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger used for per-request debug output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client for the server at baseURL.
// If baseURL is empty, a local server on :9000 is assumed.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No timeout by default: a hung request waits until the caller's
		// context ends.
		http: &http.Client{},
		log:  logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the server root requests are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Fetch GETs path and calls exactly one of onSuccess or onError once the
// request settles. Success requires a 200 status and a body that parses as
// JSON. A 200 with a malformed body goes to onError as a *ParseError, any
// other status as a *StatusError. Nothing is retried.
//
// Fetch blocks; callers run it inside a tea.Cmd to keep the event loop free.
func (c *Client) Fetch(ctx context.Context, path string, onSuccess func(json.RawMessage), onError func(error)) {
	start := time.Now()
	id := uuid.NewString()
	entity := entityLabel(path)
	log := c.log.WithFields(logrus.Fields{"request_id": id, "path": path})

	body, err := c.get(ctx, id, path)
	if err != nil {
		c.metrics.observe(entity, outcomeOf(err), time.Since(start))
		log.WithError(err).Debug("request failed")
		onError(err)
		return
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		perr := NewParseError(err)
		c.metrics.observe(entity, outcomeParse, time.Since(start))
		log.WithError(perr).Debug("response is not JSON")
		onError(perr)
		return
	}

	c.metrics.observe(entity, outcomeOK, time.Since(start))
	log.WithField("duration", time.Since(start).String()).Debug("request completed")
	onSuccess(raw)
}

// get executes the request and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, id, path string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("GET %s: waiting for rate limiter: %w", path, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	// The server only answers listings in JSON when asked to.
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", id)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: reading body: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

// url resolves a request path against the base URL.
func (c *Client) url(path string) string {
	if path == "" || (path[0] != '/' && path[0] != '?') {
		path = "/" + path
	}
	return c.baseURL + path
}

// entityLabel maps a request path to a bounded metrics label.
func entityLabel(path string) string {
	seg := strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(seg, "/?"); i >= 0 {
		seg = seg[:i]
	}
	if t := catalog.EntityType(seg); t.Valid() {
		return string(t)
	}
	return "unknown"
}
