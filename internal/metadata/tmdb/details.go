package tmdb

import (
	"context"
	"fmt"
	"slices"

	"github.com/couchqueue/couchqueue-server/internal/domain"
)

// GenreMap maps TMDB genre names onto the seeded genre tag names.
var GenreMap = map[string]string{
	// Movies
	"Action":          "Action",
	"Adventure":       "Action",
	"Comedy":          "Funny",
	"Drama":           "Drama",
	"Horror":          "Thriller",
	"Romance":         "Romcom",
	"Science Fiction": "Scifi",
	"Thriller":        "Thriller",
	"Documentary":     "Documentary",
	"Mystery":         "Mystery",
	"Crime":           "Thriller",
	"Fantasy":         "Scifi",
	// TV
	"Action & Adventure": "Action",
	"Sci-Fi & Fantasy":   "Scifi",
}

// GetDetails fetches a movie or tv show.
func (c *Client) GetDetails(ctx context.Context, mediaType domain.MediaType, id int64) (*Details, error) {
	var d Details
	if err := c.get(ctx, "details", fmt.Sprintf("/%s/%d", mediaType, id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetGenreTags returns the tag names matching the title's genres, deduplicated in order.
// Lookup failures yield an empty list.
func (c *Client) GetGenreTags(ctx context.Context, mediaType domain.MediaType, id int64) []string {
	d, err := c.GetDetails(ctx, mediaType, id)
	if err != nil {
		c.logger.Warn("tmdb genre lookup failed", "tmdb_id", id, "type", mediaType, "error", err)
		return []string{}
	}
	return MapGenres(d.Genres)
}

// MapGenres converts TMDB genres to tag names through GenreMap.
func MapGenres(genres []Genre) []string {
	tags := []string{}
	for _, g := range genres {
		name, ok := GenreMap[g.Name]
		if ok && !slices.Contains(tags, name) {
			tags = append(tags, name)
		}
	}
	return tags
}
