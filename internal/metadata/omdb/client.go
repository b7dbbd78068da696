// Package omdb looks up IMDb and Rotten Tomatoes ratings through the OMDb API.
package omdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/metrics"
)

const (
	// DefaultBaseURL is the OMDb API root.
	DefaultBaseURL = "https://www.omdbapi.com"

	defaultTimeout = 15 * time.Second

	breakerName      = "omdb"
	failureThreshold = 5
	openTimeout      = 60 * time.Second
)

// Config configures a Client.
type Config struct {
	APIKey  string
	BaseURL string
}

// Ratings holds the ratings found for a title. Absent values are nil.
type Ratings struct {
	IMDBRating          *float64
	RottenTomatoesScore *int
	IMDBID              string
}

// Client is a rate-limited OMDb client guarded by a circuit breaker.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*Ratings]
	apiKey  string
	baseURL string
	logger  *slog.Logger
}

// New creates an OMDb client.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	c := &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		// Free keys allow 1000 requests/day; bulk refresh paces itself as well.
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(base, "/"),
		logger:  logger,
	}

	c.breaker = gobreaker.NewCircuitBreaker[*Ratings](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.SetCircuitBreakerState(name, int(to))
		},
	})
	metrics.SetCircuitBreakerState(breakerName, int(gobreaker.StateClosed))

	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// GetRatings looks up a title's ratings.
// A title OMDb does not know, or a non-OK response, yields empty Ratings and no error.
// Transport failures and an open circuit return an error.
func (c *Client) GetRatings(ctx context.Context, title string, year *int, mediaType domain.MediaType) (*Ratings, error) {
	if !c.Configured() {
		return nil, &Error{Title: title, Err: ErrNotConfigured}
	}

	start := time.Now()
	r, err := c.breaker.Execute(func() (*Ratings, error) {
		return c.fetch(ctx, title, year, mediaType)
	})
	metrics.RecordUpstream("omdb", time.Since(start), err)

	switch {
	case err == nil:
		return r, nil
	case errors.Is(err, ErrServer):
		c.logger.Warn("omdb returned an error status", "title", title, "error", err)
		return &Ratings{}, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, &Error{Title: title, Err: fmt.Errorf("%w: %w", ErrCircuitOpen, err)}
	default:
		return nil, &Error{Title: title, Err: err}
	}
}

func (c *Client) fetch(ctx context.Context, title string, year *int, mediaType domain.MediaType) (*Ratings, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("t", title)
	if year != nil {
		params.Set("y", strconv.Itoa(*year))
	}
	switch mediaType {
	case domain.MediaTV:
		params.Set("type", "series")
	case domain.MediaMovie:
		params.Set("type", "movie")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
	}

	var data response
	if err := json.Unmarshal(body, &data); err != nil {
		if resp.StatusCode != http.StatusOK {
			c.logger.Warn("omdb request failed", "title", title, "status", resp.StatusCode)
			return &Ratings{}, nil
		}
		return nil, fmt.Errorf("parse response: %w", err)
	}

	// OMDb answers 200 with Response=False for unknown titles.
	if data.Response == "False" {
		c.logger.Warn("omdb lookup failed", "title", title, "error", data.Error)
		return &Ratings{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("omdb request failed", "title", title, "status", resp.StatusCode)
		return &Ratings{}, nil
	}

	return data.ratings(), nil
}

type response struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	IMDBRating string `json:"imdbRating"`
	IMDBID     string `json:"imdbID"`
	Ratings    []struct {
		Source string `json:"Source"`
		Value  string `json:"Value"`
	} `json:"Ratings"`
}

func (r *response) ratings() *Ratings {
	out := &Ratings{IMDBID: r.IMDBID}

	if r.IMDBRating != "" && r.IMDBRating != "N/A" {
		if v, err := strconv.ParseFloat(r.IMDBRating, 64); err == nil && v != 0 {
			out.IMDBRating = &v
		}
	}

	for _, rt := range r.Ratings {
		if rt.Source != "Rotten Tomatoes" {
			continue
		}
		if v, err := strconv.Atoi(strings.TrimSuffix(rt.Value, "%")); err == nil && v != 0 {
			out.RottenTomatoesScore = &v
		}
		break
	}
	return out
}
