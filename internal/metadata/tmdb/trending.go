package tmdb

import (
	"cmp"
	"context"
	"slices"

	"github.com/sourcegraph/conc/pool"

	"github.com/couchqueue/couchqueue-server/internal/domain"
)

const (
	trendingPerType = 10
	trendingTotal   = 20
)

// GetTrending returns this week's top movies and tv shows, highest rated first.
func (c *Client) GetTrending(ctx context.Context) ([]TrendingItem, error) {
	var movies, shows []SearchResult

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var resp pagedResponse[SearchResult]
		if err := c.get(ctx, "trending", "/trending/movie/week", nil, &resp); err != nil {
			return err
		}
		movies = resp.Results
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var resp pagedResponse[SearchResult]
		if err := c.get(ctx, "trending", "/trending/tv/week", nil, &resp); err != nil {
			return err
		}
		shows = resp.Results
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	items := make([]TrendingItem, 0, trendingTotal)
	items = appendTrending(items, movies, domain.MediaMovie)
	items = appendTrending(items, shows, domain.MediaTV)

	slices.SortStableFunc(items, func(a, b TrendingItem) int {
		return cmp.Compare(b.VoteAverage, a.VoteAverage)
	})
	if len(items) > trendingTotal {
		items = items[:trendingTotal]
	}
	return items, nil
}

func appendTrending(items []TrendingItem, results []SearchResult, mediaType domain.MediaType) []TrendingItem {
	for i, r := range results {
		if i == trendingPerType {
			break
		}
		items = append(items, TrendingItem{
			ID:          r.ID,
			Title:       r.DisplayTitle(),
			Type:        mediaType,
			PosterPath:  r.PosterPath,
			ReleaseDate: r.Date(),
			Overview:    r.Overview,
			VoteAverage: r.VoteAverage,
		})
	}
	return items
}
