// Package service implements the household, watchlist, tag and discovery use cases.
package service

import (
	"context"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/metadata/omdb"
	"github.com/couchqueue/couchqueue-server/internal/metadata/tmdb"
)

// Catalog is the media catalog the services search and enrich from.
// *tmdb.Client satisfies it.
type Catalog interface {
	SearchMulti(ctx context.Context, query string) ([]tmdb.SearchResult, error)
	GetTrending(ctx context.Context) ([]tmdb.TrendingItem, error)
	GetWatchProviders(ctx context.Context, mediaType domain.MediaType, id int64) []string
	GetGenreTags(ctx context.Context, mediaType domain.MediaType, id int64) []string
	GetTrailerKey(ctx context.Context, mediaType domain.MediaType, id int64) (string, error)
}

// RatingsSource looks up critic ratings. *omdb.Client satisfies it.
type RatingsSource interface {
	GetRatings(ctx context.Context, title string, year *int, mediaType domain.MediaType) (*omdb.Ratings, error)
}

// Summarizer writes short viewer-oriented summaries. *recommend.Service satisfies it.
type Summarizer interface {
	Summarize(ctx context.Context, title, overview string, mediaType domain.MediaType) (string, error)
}

var (
	_ Catalog       = (*tmdb.Client)(nil)
	_ RatingsSource = (*omdb.Client)(nil)
)
