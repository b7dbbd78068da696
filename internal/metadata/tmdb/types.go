package tmdb

import "github.com/couchqueue/couchqueue-server/internal/domain"

// SearchResult is one movie or tv entry from /search/multi.
type SearchResult struct {
	ID           int64   `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
}

// DisplayTitle returns the movie title or the tv name.
func (r SearchResult) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// Date returns the release date for movies or first air date for tv.
func (r SearchResult) Date() string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

// Type returns the result's media type.
func (r SearchResult) Type() domain.MediaType {
	return domain.MediaType(r.MediaType)
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Details is the subset of /movie/{id} and /tv/{id} the server uses.
type Details struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	Genres       []Genre `json:"genres"`
	VoteAverage  float64 `json:"vote_average"`
	IMDBID       string  `json:"imdb_id"`
}

// TrendingItem is a normalized movie or tv entry from the trending lists.
type TrendingItem struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Type        domain.MediaType `json:"type"`
	PosterPath  string           `json:"poster_path"`
	ReleaseDate string           `json:"release_date"`
	Overview    string           `json:"overview"`
	VoteAverage float64          `json:"vote_average"`
}

// Video is one entry from /{type}/{id}/videos.
type Video struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
	Name string `json:"name"`
}

type pagedResponse[T any] struct {
	Page    int `json:"page"`
	Results []T `json:"results"`
}

type providersResponse struct {
	Results map[string]struct {
		Flatrate []struct {
			ProviderID   int    `json:"provider_id"`
			ProviderName string `json:"provider_name"`
		} `json:"flatrate"`
	} `json:"results"`
}

type videosResponse struct {
	Results []Video `json:"results"`
}
