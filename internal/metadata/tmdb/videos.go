package tmdb

import (
	"context"
	"fmt"

	"github.com/couchqueue/couchqueue-server/internal/domain"
)

// GetTrailerKey returns the YouTube key of the title's trailer.
// Prefers a video typed "Trailer", then any YouTube video. Returns ErrNotFound when none exist.
func (c *Client) GetTrailerKey(ctx context.Context, mediaType domain.MediaType, id int64) (string, error) {
	path := fmt.Sprintf("/%s/%d/videos", mediaType, id)

	var resp videosResponse
	if err := c.get(ctx, "videos", path, nil, &resp); err != nil {
		return "", err
	}

	var fallback string
	for _, v := range resp.Results {
		if v.Site != "YouTube" || v.Key == "" {
			continue
		}
		if v.Type == "Trailer" {
			return v.Key, nil
		}
		if fallback == "" {
			fallback = v.Key
		}
	}
	if fallback == "" {
		return "", wrapError("videos", path, ErrNotFound)
	}
	return fallback, nil
}
