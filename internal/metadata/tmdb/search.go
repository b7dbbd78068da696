package tmdb

import (
	"context"
	"net/url"
)

// SearchMulti searches movies and tv shows. People and other media types are dropped.
func (c *Client) SearchMulti(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var resp pagedResponse[SearchResult]
	if err := c.get(ctx, "search", "/search/multi", params, &resp); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.MediaType == "movie" || r.MediaType == "tv" {
			results = append(results, r)
		}
	}

	c.logger.Debug("tmdb search results", "query", query, "count", len(results))
	return results, nil
}
