package tmdb

import (
	"strconv"
	"strings"
)

// ImageBaseURL is the TMDB image CDN root.
const ImageBaseURL = "https://image.tmdb.org/t/p"

// DefaultPosterSize is the poster width used for list views.
const DefaultPosterSize = "w342"

// PosterURL builds an image URL for a poster path. Empty paths yield "".
func PosterURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = DefaultPosterSize
	}
	return ImageBaseURL + "/" + size + path
}

// Year extracts the year from a YYYY-MM-DD date. Returns nil when absent or malformed.
func Year(date string) *int {
	head, _, _ := strings.Cut(date, "-")
	y, err := strconv.Atoi(head)
	if err != nil {
		return nil
	}
	return &y
}
