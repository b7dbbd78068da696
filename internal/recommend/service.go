// Package recommend turns a household's watchlist and tag preferences into
// generated viewing recommendations.
package recommend

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/errors"
	"github.com/couchqueue/couchqueue-server/internal/llm"
	"github.com/couchqueue/couchqueue-server/internal/metrics"
	"github.com/couchqueue/couchqueue-server/internal/store"
)

// Generation limits.
const (
	QuickMaxTokens      = 1500
	DeepMaxTokens       = 8000
	DeepThinkingBudget  = 4000
	DeepWebSearchUses   = 3
	CleanupMaxTokens    = 2000
	SummaryMaxTokens    = 300
	failedGenerationMsg = "Failed to generate recommendations"
)

// Store is the persistence the recommender needs.
type Store interface {
	ListShows(ctx context.Context, householdID string) ([]*domain.Show, error)
	ListTags(ctx context.Context, householdID string) ([]*domain.Tag, error)
	GetRecommendation(ctx context.Context, householdID string) (*domain.Recommendation, error)
	UpsertRecommendation(ctx context.Context, householdID string, field domain.RecommendationField, text string) error
}

// Request selects the mode and the tag buckets for one recommendation.
type Request struct {
	Deep    bool
	Buckets Buckets
}

// Filters echoes the tag names each bucket was selected with.
type Filters struct {
	LovedTags    []string
	LikedTags    []string
	DislikedTags []string
	PoolTags     []string
}

// InputContext describes what the recommendation was generated from.
type InputContext struct {
	LovedShows    []string
	LikedShows    []string
	DislikedShows []string
	PoolShows     []string
	Filters       Filters
	// Prompt is the exact text sent, nil when no generation happened.
	Prompt *string
}

// Result is the outcome of Recommend.
type Result struct {
	Recommendation string
	Deep           bool
	InputContext   InputContext
}

// Service orchestrates tag resolution, prompt composition, generation and persistence.
type Service struct {
	store  Store
	gen    llm.Generator
	logger *slog.Logger
}

// NewService creates a recommendation service.
func NewService(s Store, gen llm.Generator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, gen: gen, logger: logger}
}

// Latest returns the household's stored recommendation, or nil when none exists.
func (s *Service) Latest(ctx context.Context, householdID string) (*domain.Recommendation, error) {
	rec, err := s.store.GetRecommendation(ctx, householdID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to load recommendation")
	}
	return rec, nil
}

// Recommend generates and stores a recommendation for the household.
// An empty watchlist or a pool filter that matches nothing returns an explanatory
// message without calling the generator or writing anything.
func (s *Service) Recommend(ctx context.Context, householdID string, req Request) (*Result, error) {
	buckets := req.Buckets.WithDefaults()
	mode := modeName(req.Deep)

	shows, err := s.store.ListShows(ctx, householdID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to load watchlist")
	}
	tags, err := s.store.ListTags(ctx, householdID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to load tags")
	}

	sel := Select(shows, NewTagIndex(tags), buckets)
	result := &Result{
		Deep: req.Deep,
		InputContext: InputContext{
			LovedShows:    Titles(sel.Loved),
			LikedShows:    Titles(sel.Liked),
			DislikedShows: Titles(sel.Disliked),
			PoolShows:     Titles(sel.Pool),
			Filters: Filters{
				LovedTags:    buckets.Loved,
				LikedTags:    buckets.Liked,
				DislikedTags: buckets.Disliked,
				PoolTags:     buckets.Pool,
			},
		},
	}

	if len(sel.ToWatch) == 0 {
		result.Recommendation = EmptyWatchlistMessage
		return result, nil
	}
	if len(sel.Pool) == 0 {
		s.logger.Info("recommendation pool filters matched nothing",
			"household_id", householdID,
			"pool_tags", buckets.Pool,
			"to_watch", len(sel.ToWatch),
		)
		result.Recommendation = NoMatchMessage(buckets.Pool)
		return result, nil
	}

	blocks := NewBlocks(sel)
	prompt := QuickPrompt(blocks)
	if req.Deep {
		prompt = DeepPrompt(blocks)
	}
	result.InputContext.Prompt = &prompt

	start := time.Now()
	text, err := s.generate(ctx, prompt, req.Deep)
	metrics.RecordRecommendation(mode, time.Since(start), err)
	if err != nil {
		s.logger.Error("recommendation generation failed",
			"household_id", householdID,
			"mode", mode,
			"error", err,
		)
		return nil, errors.Wrap(err, errors.CodeInternal, failedGenerationMsg)
	}

	field := domain.FieldQuickPick
	if req.Deep {
		field = domain.FieldDeepAnalysis
	}
	if err := s.store.UpsertRecommendation(ctx, householdID, field, text); err != nil {
		s.logger.Error("failed to store recommendation", "household_id", householdID, "field", field, "error", err)
		return nil, errors.Wrap(err, errors.CodeInternal, failedGenerationMsg)
	}

	s.logger.Info("recommendation generated",
		"household_id", householdID,
		"mode", mode,
		"pool", len(sel.Pool),
		"duration", time.Since(start),
	)

	result.Recommendation = text
	return result, nil
}

func (s *Service) generate(ctx context.Context, prompt string, deep bool) (string, error) {
	req := llm.Request{
		MaxTokens: QuickMaxTokens,
		Messages:  []llm.Message{llm.UserMessage(prompt)},
	}
	if deep {
		req.MaxTokens = DeepMaxTokens
		req.Thinking = &llm.Thinking{BudgetTokens: DeepThinkingBudget}
		req.Tools = []llm.Tool{{WebSearch: &llm.WebSearch{MaxUses: DeepWebSearchUses}}}
	}

	resp, err := s.gen.Generate(ctx, req)
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return FallbackText, nil
	}
	if !deep {
		return text, nil
	}
	return s.cleanup(ctx, text), nil
}

// cleanup reformats a deep analysis. Any failure keeps the raw text.
func (s *Service) cleanup(ctx context.Context, raw string) string {
	resp, err := s.gen.Generate(ctx, llm.Request{
		MaxTokens: CleanupMaxTokens,
		Messages:  []llm.Message{llm.UserMessage(CleanupPrompt(raw))},
	})
	if err != nil {
		metrics.CleanupFallbacks.Inc()
		s.logger.Warn("deep analysis cleanup failed, keeping raw text", "error", err)
		return raw
	}

	cleaned := resp.FirstText()
	if cleaned == "" {
		metrics.CleanupFallbacks.Inc()
		s.logger.Warn("deep analysis cleanup returned no text, keeping raw text")
		return raw
	}
	return cleaned
}

// Summarize generates a short viewer-oriented summary of a title.
func (s *Service) Summarize(ctx context.Context, title, overview string, mediaType domain.MediaType) (string, error) {
	resp, err := s.gen.Generate(ctx, llm.Request{
		MaxTokens: SummaryMaxTokens,
		Messages:  []llm.Message{llm.UserMessage(SummaryPrompt(title, overview, mediaType))},
	})
	if err != nil {
		return "", err
	}
	if text := resp.FirstText(); text != "" {
		return text, nil
	}
	return SummaryFallbackText, nil
}

func modeName(deep bool) string {
	if deep {
		return "deep"
	}
	return "quick"
}
