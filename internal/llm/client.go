// Package llm is a client for the Anthropic Messages API.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/couchqueue/couchqueue-server/internal/metrics"
)

const (
	// DefaultBaseURL is the Anthropic API root.
	DefaultBaseURL = "https://api.anthropic.com"

	// DefaultModel is used when neither the request nor the config names one.
	DefaultModel = "claude-sonnet-4-20250514"

	apiVersion = "2023-06-01"

	webSearchToolType = "web_search_20250305"
	webSearchToolName = "web_search"
)

// Config configures a Client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout time.Duration
}

// Client calls the Messages API. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	apiKey  string
	baseURL string
	model   string
	logger  *slog.Logger
}

// New creates a Messages API client.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(base, "/"),
		model:   model,
		logger:  logger,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Model returns the default model name.
func (c *Client) Model() string {
	return c.model
}

type wireThinking struct {
	Type         string `json:"type"`
	BudgetTokens int    `json:"budget_tokens"`
}

type wireTool struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	MaxUses int    `json:"max_uses,omitempty"`
}

type wireRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []Message     `json:"messages"`
	Thinking  *wireThinking `json:"thinking,omitempty"`
	Tools     []wireTool    `json:"tools,omitempty"`
}

type wireError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) buildRequest(req Request) wireRequest {
	w := wireRequest{
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
		Messages:  req.Messages,
	}
	if w.Model == "" {
		w.Model = c.model
	}
	if req.Thinking != nil {
		w.Thinking = &wireThinking{Type: "enabled", BudgetTokens: req.Thinking.BudgetTokens}
	}
	for _, t := range req.Tools {
		if t.WebSearch != nil {
			w.Tools = append(w.Tools, wireTool{
				Type:    webSearchToolType,
				Name:    webSearchToolName,
				MaxUses: t.WebSearch.MaxUses,
			})
		}
	}
	return w
}

// Generate sends one Messages request and returns the decoded reply.
// Failures are not retried.
func (c *Client) Generate(ctx context.Context, req Request) (*Response, error) {
	if !c.Configured() {
		return nil, &Error{Err: ErrNotConfigured}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	wire := c.buildRequest(req)
	body, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	c.logger.Debug("llm request",
		"model", wire.Model,
		"max_tokens", wire.MaxTokens,
		"thinking", wire.Thinking != nil,
		"tools", len(wire.Tools),
	)

	start := time.Now()
	resp, err := c.do(httpReq)
	metrics.RecordUpstream("llm", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("llm response",
		"model", resp.Model,
		"stop_reason", resp.StopReason,
		"segments", len(resp.Segments),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"duration", time.Since(start),
	)
	return resp, nil
}

func (c *Client) do(req *http.Request) (*Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &Error{Status: resp.StatusCode, Err: statusError(resp.StatusCode)}
		var we wireError
		if json.Unmarshal(body, &we) == nil {
			apiErr.Type = we.Error.Type
			apiErr.Message = we.Error.Message
		}
		return nil, apiErr
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &out, nil
}

func statusError(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status == 529:
		return ErrOverloaded
	case status >= 500:
		return ErrServer
	default:
		return ErrBadRequest
	}
}
