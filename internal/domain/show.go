package domain

import "time"

// MediaType distinguishes movies from series.
type MediaType string

// Media types as stored and as reported by the catalog.
const (
	MediaMovie MediaType = "movie"
	MediaTV    MediaType = "tv"
)

// Valid reports whether m is a known media type.
func (m MediaType) Valid() bool {
	return m == MediaMovie || m == MediaTV
}

// ShowStatus is the viewing lifecycle of a show on the household list.
type ShowStatus string

// Viewing lifecycle states.
const (
	StatusToWatch  ShowStatus = "to_watch"
	StatusWatching ShowStatus = "watching"
	StatusWatched  ShowStatus = "watched"
)

// Valid reports whether s is a known status.
func (s ShowStatus) Valid() bool {
	switch s {
	case StatusToWatch, StatusWatching, StatusWatched:
		return true
	}
	return false
}

// Show is a movie or series on a household's list.
// A household holds at most one show per catalog id.
type Show struct {
	ID                  string     `json:"id"`
	HouseholdID         string     `json:"household_id"`
	TMDBID              int64      `json:"tmdb_id"`
	Title               string     `json:"title"`
	Type                MediaType  `json:"type"`
	PosterURL           string     `json:"poster_url,omitempty"`
	Year                *int       `json:"year,omitempty"`
	Overview            string     `json:"overview,omitempty"`
	Status              ShowStatus `json:"status"`
	IMDBRating          *float64   `json:"imdb_rating,omitempty"`
	RottenTomatoesScore *int       `json:"rotten_tomatoes_score,omitempty"`
	IMDBID              string     `json:"imdb_id,omitempty"`
	StreamingServices   []string   `json:"streaming_services"`
	Comment             string     `json:"comment,omitempty"`
	AISummary           string     `json:"ai_summary,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	// Tags is populated by queries that join show_tags.
	Tags []*Tag `json:"tags"`
}

// Touch updates the UpdatedAt timestamp.
func (s *Show) Touch() {
	s.UpdatedAt = time.Now()
}

// HasAllTags reports whether the show carries every tag id in ids.
// An empty ids list is trivially satisfied.
func (s *Show) HasAllTags(ids []string) bool {
	if len(ids) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(s.Tags))
	for _, t := range s.Tags {
		have[t.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			return false
		}
	}
	return true
}

// ShowUpdate carries the mutable fields of a show. Nil fields are left unchanged.
type ShowUpdate struct {
	Status    *ShowStatus
	Comment   *string
	AISummary *string
}

// IsEmpty reports whether the update changes nothing.
func (u ShowUpdate) IsEmpty() bool {
	return u.Status == nil && u.Comment == nil && u.AISummary == nil
}

// RatingsUpdate carries freshly fetched rating values for a show.
type RatingsUpdate struct {
	IMDBRating          *float64
	RottenTomatoesScore *int
	IMDBID              string
}
