package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/couchqueue/couchqueue-server/internal/service"
)

func (s *Server) registerDiscoverRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search catalog",
		Description: "Searches movies and series by title",
		Tags:        []string{"Discover"},
		Security:    []map[string][]string{{"household": {}}},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "trending",
		Method:      http.MethodGet,
		Path:        "/api/v1/trending",
		Summary:     "Trending titles",
		Description: "Returns this week's top movies and series, best rated first",
		Tags:        []string{"Discover"},
		Security:    []map[string][]string{{"household": {}}},
	}, s.handleTrending)
}

// SearchInput contains search parameters.
type SearchInput struct {
	UserID      string `header:"X-User-ID"`
	HouseholdID string `header:"X-Household-ID"`
	Query       string `query:"q" doc:"Title to search for"`
}

// TrendingInput contains trending parameters.
type TrendingInput struct {
	UserID      string `header:"X-User-ID"`
	HouseholdID string `header:"X-Household-ID"`
}

// DiscoverOutput wraps catalog items for Huma.
type DiscoverOutput struct {
	Body []service.DiscoverItem
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*DiscoverOutput, error) {
	if _, err := s.requireMember(ctx, input.UserID, input.HouseholdID); err != nil {
		return nil, err
	}

	items, err := s.services.Discover.Search(ctx, input.Query)
	if err != nil {
		return nil, handlerError(err)
	}
	return &DiscoverOutput{Body: items}, nil
}

func (s *Server) handleTrending(ctx context.Context, input *TrendingInput) (*DiscoverOutput, error) {
	if _, err := s.requireMember(ctx, input.UserID, input.HouseholdID); err != nil {
		return nil, err
	}

	items, err := s.services.Discover.Trending(ctx)
	if err != nil {
		return nil, handlerError(err)
	}
	return &DiscoverOutput{Body: items}, nil
}
