// Package tmdb is a client for The Movie Database v3 API: search, details,
// watch providers, trending titles and videos.
package tmdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/couchqueue/couchqueue-server/internal/cache"
	"github.com/couchqueue/couchqueue-server/internal/metrics"
)

const (
	// DefaultBaseURL is the TMDB v3 API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"

	// TMDB allows roughly 50 requests per second; stay under it.
	defaultRPS   = 40
	defaultBurst = 20

	defaultTimeout  = 30 * time.Second
	defaultAttempts = 3
	defaultDelay    = 500 * time.Millisecond
)

// Config configures a Client.
type Config struct {
	APIKey  string
	BaseURL string
}

// Client is a rate-limited, retrying, caching TMDB client.
type Client struct {
	http       *http.Client
	limiter    *rate.Limiter
	cache      *cache.Cache
	apiKey     string
	baseURL    string
	retryDelay time.Duration
	logger     *slog.Logger
}

// New creates a TMDB client. The cache may be nil.
func New(cfg Config, c *cache.Cache, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter:    rate.NewLimiter(defaultRPS, defaultBurst),
		cache:      c,
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(base, "/"),
		retryDelay: defaultDelay,
		logger:     logger,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// get fetches path and decodes the JSON body into dest.
// Responses are served from the cache when present; 429 and 5xx are retried.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, dest any) error {
	if !c.Configured() {
		return wrapError(op, path, ErrNotConfigured)
	}

	key := path
	if len(query) > 0 {
		key += "?" + query.Encode()
	}

	var body json.RawMessage
	hit, err := c.cache.Get(ctx, key, &body)
	if err != nil {
		c.logger.Warn("tmdb cache read failed", "key", key, "error", err)
	}
	if c.cache != nil {
		metrics.RecordCacheLookup(hit)
	}

	if !hit {
		start := time.Now()
		body, err = retry.DoWithData(
			func() (json.RawMessage, error) {
				return c.doRequest(ctx, path, query)
			},
			retry.Context(ctx),
			retry.Attempts(defaultAttempts),
			retry.Delay(c.retryDelay),
			retry.DelayType(retry.BackOffDelay),
			retry.RetryIf(retryable),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(n uint, err error) {
				c.logger.Debug("retrying tmdb request", "path", path, "attempt", n+1, "error", err)
			}),
		)
		metrics.RecordUpstream("tmdb", time.Since(start), err)
		if err != nil {
			return wrapError(op, path, err)
		}

		if err := c.cache.Set(ctx, key, body); err != nil {
			c.logger.Warn("tmdb cache write failed", "key", key, "error", err)
		}
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return wrapError(op, path, fmt.Errorf("parse response: %w", err))
	}
	return nil
}

// doRequest executes one GET with rate limiting and maps the status to a sentinel.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("rate limit wait: %w", err))
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("tmdb request", "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
