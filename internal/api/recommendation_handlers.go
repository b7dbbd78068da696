package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/couchqueue/couchqueue-server/internal/errors"
	"github.com/couchqueue/couchqueue-server/internal/metrics"
	"github.com/couchqueue/couchqueue-server/internal/recommend"
)

func (s *Server) registerRecommendationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getRecommendation",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendation",
		Summary:     "Get recommendation",
		Description: "Returns the household's latest quick pick and deep analysis",
		Tags:        []string{"Recommendations"},
		Security:    []map[string][]string{{"household": {}}},
	}, s.handleGetRecommendation)

	huma.Register(s.api, huma.Operation{
		OperationID: "createRecommendation",
		Method:      http.MethodPost,
		Path:        "/api/v1/recommendation",
		Summary:     "Generate recommendation",
		Description: "Asks the generative backend what to watch next from the to-watch list. Deep mode searches the web and is slow.",
		Tags:        []string{"Recommendations"},
		Security:    []map[string][]string{{"household": {}}},
	}, s.handleCreateRecommendation)
}

// === DTOs ===

// GetRecommendationInput contains parameters for reading the stored recommendation.
type GetRecommendationInput struct {
	UserID      string `header:"X-User-ID"`
	HouseholdID string `header:"X-Household-ID"`
}

// RecommendationResponse contains the stored recommendation. Fields are null until generated.
type RecommendationResponse struct {
	QuickPick    *string    `json:"quickPick" doc:"Latest quick-mode recommendation"`
	DeepAnalysis *string    `json:"deepAnalysis" doc:"Latest deep-mode analysis"`
	UpdatedAt    *time.Time `json:"updatedAt" doc:"When either field last changed"`
}

// RecommendationOutput wraps the recommendation response for Huma.
type RecommendationOutput struct {
	Body RecommendationResponse
}

// CreateRecommendationRequest selects the mode and tag filters.
// Omitted tag lists fall back to Loved, Liked and Didn't Like with no pool filter.
type CreateRecommendationRequest struct {
	Deep         bool     `json:"deep,omitempty" doc:"Use web search and extended reasoning"`
	LovedTags    []string `json:"lovedTags,omitempty" doc:"Tags marking loved shows" maxItems:"20"`
	LikedTags    []string `json:"likedTags,omitempty" doc:"Tags marking liked shows" maxItems:"20"`
	DislikedTags []string `json:"dislikedTags,omitempty" doc:"Tags marking disliked shows" maxItems:"20"`
	PoolTags     []string `json:"poolTags,omitempty" doc:"Restrict candidates to shows carrying all of these tags" maxItems:"20"`
}

// CreateRecommendationInput wraps the create recommendation request for Huma.
type CreateRecommendationInput struct {
	UserID      string `header:"X-User-ID"`
	HouseholdID string `header:"X-Household-ID"`
	Body        *CreateRecommendationRequest
}

// FiltersResponse echoes the tag names used per bucket.
type FiltersResponse struct {
	LovedTags    []string `json:"lovedTags"`
	LikedTags    []string `json:"likedTags"`
	DislikedTags []string `json:"dislikedTags"`
	PoolTags     []string `json:"poolTags"`
}

// InputContextResponse describes what a recommendation was generated from.
type InputContextResponse struct {
	LovedShows    []string        `json:"lovedShows" doc:"Titles in the loved bucket"`
	LikedShows    []string        `json:"likedShows" doc:"Titles in the liked bucket"`
	DislikedShows []string        `json:"dislikedShows" doc:"Titles in the disliked bucket"`
	PoolShows     []string        `json:"poolShows" doc:"Candidate titles, in list order"`
	Filters       FiltersResponse `json:"filters" doc:"Tag names applied to each bucket"`
	Prompt        *string         `json:"prompt" doc:"Exact prompt sent, null when nothing was generated"`
}

// CreateRecommendationResponse contains a fresh recommendation.
type CreateRecommendationResponse struct {
	Recommendation string               `json:"recommendation" doc:"Recommendation text, or an explanation when nothing could be recommended"`
	Deep           bool                 `json:"deep" doc:"Whether deep mode was used"`
	InputContext   InputContextResponse `json:"inputContext"`
}

// CreateRecommendationOutput wraps the create recommendation response for Huma.
type CreateRecommendationOutput struct {
	Body CreateRecommendationResponse
}

// === Handlers ===

func (s *Server) handleGetRecommendation(ctx context.Context, input *GetRecommendationInput) (*RecommendationOutput, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	rec, err := s.services.Recommend.Latest(ctx, m.HouseholdID)
	if err != nil {
		s.logger.Error("Failed to load recommendation", "household_id", m.HouseholdID, "error", err)
		return nil, handlerError(err)
	}

	out := &RecommendationOutput{}
	if rec != nil {
		updated := rec.UpdatedAt
		out.Body = RecommendationResponse{
			QuickPick:    rec.QuickPick,
			DeepAnalysis: rec.DeepAnalysis,
			UpdatedAt:    &updated,
		}
	}
	return out, nil
}

func (s *Server) handleCreateRecommendation(ctx context.Context, input *CreateRecommendationInput) (*CreateRecommendationOutput, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	if !s.recLimiter.Allow(m.HouseholdID) {
		metrics.RateLimited.WithLabelValues("recommendation").Inc()
		s.logger.Warn("Recommendation rate limit exceeded", "household_id", m.HouseholdID)
		return nil, handlerError(domainerrors.RateLimited("Too many recommendation requests. Please try again later."))
	}

	req := recommend.Request{}
	if b := input.Body; b != nil {
		req.Deep = b.Deep
		req.Buckets = recommend.Buckets{
			Loved:    b.LovedTags,
			Liked:    b.LikedTags,
			Disliked: b.DislikedTags,
			Pool:     b.PoolTags,
		}
	}

	res, err := s.services.Recommend.Recommend(ctx, m.HouseholdID, req)
	if err != nil {
		s.logger.Error("Recommendation failed",
			"household_id", m.HouseholdID,
			"deep", req.Deep,
			"error", err,
		)
		return nil, handlerError(err)
	}

	ic := res.InputContext
	return &CreateRecommendationOutput{
		Body: CreateRecommendationResponse{
			Recommendation: res.Recommendation,
			Deep:           res.Deep,
			InputContext: InputContextResponse{
				LovedShows:    nonNil(ic.LovedShows),
				LikedShows:    nonNil(ic.LikedShows),
				DislikedShows: nonNil(ic.DislikedShows),
				PoolShows:     nonNil(ic.PoolShows),
				Filters: FiltersResponse{
					LovedTags:    nonNil(ic.Filters.LovedTags),
					LikedTags:    nonNil(ic.Filters.LikedTags),
					DislikedTags: nonNil(ic.Filters.DislikedTags),
					PoolTags:     nonNil(ic.Filters.PoolTags),
				},
				Prompt: ic.Prompt,
			},
		},
	}, nil
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
