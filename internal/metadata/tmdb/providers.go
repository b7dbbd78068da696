package tmdb

import (
	"context"
	"fmt"
	"slices"

	"github.com/couchqueue/couchqueue-server/internal/domain"
)

// providerNames maps the subscription services we track to their display names.
var providerNames = map[string]string{
	"Netflix":            "Netflix",
	"Hulu":               "Hulu",
	"Amazon Prime Video": "Prime Video",
	"Disney Plus":        "Disney+",
	"HBO Max":            "Max",
	"Max":                "Max",
	"Peacock":            "Peacock",
	"Apple TV Plus":      "Apple TV+",
	"Apple TV+":          "Apple TV+",
	"Paramount Plus":     "Paramount+",
	"Paramount+":         "Paramount+",
}

// GetWatchProviders returns the US subscription services streaming the title.
// Lookup failures yield an empty list.
func (c *Client) GetWatchProviders(ctx context.Context, mediaType domain.MediaType, id int64) []string {
	var resp providersResponse
	if err := c.get(ctx, "providers", fmt.Sprintf("/%s/%d/watch/providers", mediaType, id), nil, &resp); err != nil {
		c.logger.Warn("tmdb provider lookup failed", "tmdb_id", id, "type", mediaType, "error", err)
		return []string{}
	}

	services := []string{}
	for _, p := range resp.Results["US"].Flatrate {
		name, ok := providerNames[p.ProviderName]
		if ok && !slices.Contains(services, name) {
			services = append(services, name)
		}
	}
	return services
}
