package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/errors"
	"github.com/couchqueue/couchqueue-server/internal/metadata/tmdb"
)

// DiscoverItem is a catalog title offered for adding to the list.
type DiscoverItem struct {
	TMDBID    int64            `json:"tmdb_id"`
	Title     string           `json:"title"`
	Type      domain.MediaType `json:"type"`
	PosterURL string           `json:"poster_url"`
	Year      *int             `json:"year"`
	Overview  string           `json:"overview"`
	Rating    *float64         `json:"rating,omitempty"`
}

// DiscoverService searches the catalog and lists trending titles.
type DiscoverService struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewDiscoverService creates a new discover service.
func NewDiscoverService(catalog Catalog, logger *slog.Logger) *DiscoverService {
	return &DiscoverService{catalog: catalog, logger: logger}
}

// Search finds movies and series matching query.
func (s *DiscoverService) Search(ctx context.Context, query string) ([]DiscoverItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.Validation(`Query parameter "q" is required`)
	}

	results, err := s.catalog.SearchMulti(ctx, query)
	if err != nil {
		s.logger.Error("catalog search failed", "query", query, "error", err)
		return nil, errors.Upstream(err, "Failed to search")
	}

	items := make([]DiscoverItem, 0, len(results))
	for _, r := range results {
		title := r.DisplayTitle()
		if title == "" {
			title = "Unknown"
		}
		items = append(items, DiscoverItem{
			TMDBID:    r.ID,
			Title:     title,
			Type:      r.Type(),
			PosterURL: tmdb.PosterURL(r.PosterPath, tmdb.DefaultPosterSize),
			Year:      tmdb.Year(r.Date()),
			Overview:  r.Overview,
		})
	}
	return items, nil
}

// Trending lists this week's most popular movies and series.
func (s *DiscoverService) Trending(ctx context.Context) ([]DiscoverItem, error) {
	trending, err := s.catalog.GetTrending(ctx)
	if err != nil {
		s.logger.Error("trending fetch failed", "error", err)
		return nil, errors.Upstream(err, "Failed to fetch trending")
	}

	items := make([]DiscoverItem, 0, len(trending))
	for _, t := range trending {
		rating := t.VoteAverage
		items = append(items, DiscoverItem{
			TMDBID:    t.ID,
			Title:     t.Title,
			Type:      t.Type,
			PosterURL: tmdb.PosterURL(t.PosterPath, tmdb.DefaultPosterSize),
			Year:      tmdb.Year(t.ReleaseDate),
			Overview:  t.Overview,
			Rating:    &rating,
		})
	}
	return items, nil
}
