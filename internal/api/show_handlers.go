package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/service"
)

func (s *Server) registerShowRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listShows",
		Method:      http.MethodGet,
		Path:        "/api/v1/shows",
		Summary:     "List shows",
		Description: "Returns the household's shows with tags, newest first",
		Tags:        []string{"Shows"},
		Security:    []map[string][]string{{"household": {}}},
	}, s.handleListShows)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addShow",
		Method:        http.MethodPost,
		Path:          "/api/v1/shows",
		Summary:       "Add show",
		Description:   "Adds a catalog title to the list, enriched with ratings, streaming services and genre tags",
		Tags:          []string{"Shows"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"household": {}}},
	}, s.handleAddShow)

	huma.Register(s.api, huma.Operation{
		OperationID: "refreshRatings",
		Method:      http.MethodPost,
		Path:        "/api/v1/shows/refresh-ratings",
		Summary:     "Refresh ratings",
		Description: "Re-fetches critic ratings for every show in the list",
		Tags:        []string{"Shows"},
		Security:    []map[string][]string{{"household": {}}},
	}, s.handleRefreshRatings)

	huma.Register(s.api, huma.Operation{
		OperationID: "getShow",
		Method:      http.MethodGet,
		Path:        "/api/v1/shows/{id}",
		Summary:     "Get show",
		Description: "Returns a show by ID",
		Tags:        []string{"Shows"},
		Security:    []map[string][]string{{"household": {}}},
	}, s.handleGetShow)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateShow",
		Method:      http.MethodPatch,
		Path:        "/api/v1/shows/{id}",
		Summary:     "Update show",
		Description: "Updates status, note or summary",
		Tags:        []string{"Shows"},
		Security:    []map[string][]string{{"household": {}}},
	}, s.handleUpdateShow)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteShow",
		Method:        http.MethodDelete,
		Path:          "/api/v1/shows/{id}",
		Summary:       "Delete show",
		Description:   "Removes a show from the list",
		Tags:          []string{"Shows"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"household": {}}},
	}, s.handleDeleteShow)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addShowTag",
		Method:        http.MethodPost,
		Path:          "/api/v1/shows/{id}/tags",
		Summary:       "Tag show",
		Description:   "Links a tag to a show",
		Tags:          []string{"Shows"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"household": {}}},
	}, s.handleAddShowTag)

	huma.Register(s.api, huma.Operation{
		OperationID:   "removeShowTag",
		Method:        http.MethodDelete,
		Path:          "/api/v1/shows/{id}/tags/{tagId}",
		Summary:       "Untag show",
		Description:   "Unlinks a tag from a show",
		Tags:          []string{"Shows"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"household": {}}},
	}, s.handleRemoveShowTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getShowTrailer",
		Method:      http.MethodGet,
		Path:        "/api/v1/shows/{id}/trailer",
		Summary:     "Get trailer",
		Description: "Returns the YouTube key of the show's trailer",
		Tags:        []string{"Shows"},
		Security:    []map[string][]string{{"household": {}}},
	}, s.handleGetTrailer)

	huma.Register(s.api, huma.Operation{
		OperationID: "summarizeShow",
		Method:      http.MethodPost,
		Path:        "/api/v1/shows/{id}/summary",
		Summary:     "Summarize show",
		Description: "Generates and stores a short AI summary",
		Tags:        []string{"Shows"},
		Security:    []map[string][]string{{"household": {}}},
	}, s.handleSummarizeShow)
}

// === DTOs ===

// ShowTagResponse is a tag attached to a show.
type ShowTagResponse struct {
	ID       string `json:"id" doc:"Tag ID"`
	Name     string `json:"name" doc:"Tag name"`
	Color    string `json:"color" doc:"Display color"`
	Category string `json:"category" doc:"who, genre, mood or meta"`
}

// ShowResponse contains show data in API responses.
type ShowResponse struct {
	ID                  string            `json:"id" doc:"Show ID"`
	TMDBID              int64             `json:"tmdb_id" doc:"Catalog ID"`
	Title               string            `json:"title" doc:"Title"`
	Type                string            `json:"type" doc:"movie or tv"`
	PosterURL           string            `json:"poster_url,omitempty" doc:"Poster image URL"`
	Year                *int              `json:"year,omitempty" doc:"Release year"`
	Overview            string            `json:"overview,omitempty" doc:"Plot overview"`
	Status              string            `json:"status" doc:"to_watch, watching or watched"`
	IMDBRating          *float64          `json:"imdb_rating,omitempty" doc:"IMDb rating"`
	RottenTomatoesScore *int              `json:"rotten_tomatoes_score,omitempty" doc:"Rotten Tomatoes score"`
	IMDBID              string            `json:"imdb_id,omitempty" doc:"IMDb ID"`
	StreamingServices   []string          `json:"streaming_services" doc:"US subscription services"`
	Comment             string            `json:"comment,omitempty" doc:"Household note"`
	AISummary           string            `json:"ai_summary,omitempty" doc:"Generated summary"`
	Tags                []ShowTagResponse `json:"tags" doc:"Attached tags"`
	CreatedAt           time.Time         `json:"created_at" doc:"When the show was added"`
	UpdatedAt           time.Time         `json:"updated_at" doc:"Last update time"`
}

// ListShowsInput contains parameters for listing shows.
type ListShowsInput struct {
	UserID      string `header:"X-User-ID"`
	HouseholdID string `header:"X-Household-ID"`
}

// ListShowsOutput wraps the list shows response for Huma.
type ListShowsOutput struct {
	Body []ShowResponse
}

// AddShowRequest is the request body for adding a show. It matches a search or trending item.
type AddShowRequest struct {
	TMDBID    int64  `json:"tmdb_id" minimum:"1" doc:"Catalog ID"`
	Title     string `json:"title" minLength:"1" maxLength:"500" doc:"Title"`
	Type      string `json:"type" enum:"movie,tv" doc:"Media type"`
	PosterURL string `json:"poster_url,omitempty" doc:"Poster image URL"`
	Year      *int   `json:"year,omitempty" doc:"Release year"`
	Overview  string `json:"overview,omitempty" doc:"Plot overview"`
	Status    string `json:"status,omitempty" enum:"to_watch,watching,watched" doc:"Initial status (default to_watch)"`
}

// AddShowInput wraps the add show request for Huma.
type AddShowInput struct {
	UserID      string `header:"X-User-ID"`
	HouseholdID string `header:"X-Household-ID"`
	Body        AddShowRequest
}

// ShowOutput wraps the show response for Huma.
type ShowOutput struct {
	Body ShowResponse
}

// ShowInput identifies one show.
type ShowInput struct {
	UserID      string `header:"X-User-ID"`
	HouseholdID string `header:"X-Household-ID"`
	ID          string `path:"id" doc:"Show ID"`
}

// UpdateShowRequest is the request body for updating a show.
type UpdateShowRequest struct {
	Status    *string `json:"status,omitempty" enum:"to_watch,watching,watched" doc:"Viewing status"`
	Comment   *string `json:"comment,omitempty" maxLength:"2000" doc:"Household note"`
	AISummary *string `json:"ai_summary,omitempty" doc:"Summary text"`
}

// UpdateShowInput wraps the update show request for Huma.
type UpdateShowInput struct {
	UserID      string `header:"X-User-ID"`
	HouseholdID string `header:"X-Household-ID"`
	ID          string `path:"id" doc:"Show ID"`
	Body        UpdateShowRequest
}

// AddShowTagRequest names the tag to link.
type AddShowTagRequest struct {
	TagID string `json:"tag_id" minLength:"1" doc:"Tag ID"`
}

// AddShowTagInput wraps the add tag request for Huma.
type AddShowTagInput struct {
	UserID      string `header:"X-User-ID"`
	HouseholdID string `header:"X-Household-ID"`
	ID          string `path:"id" doc:"Show ID"`
	Body        AddShowTagRequest
}

// RemoveShowTagInput identifies a show tag link.
type RemoveShowTagInput struct {
	UserID      string `header:"X-User-ID"`
	HouseholdID string `header:"X-Household-ID"`
	ID          string `path:"id" doc:"Show ID"`
	TagID       string `path:"tagId" doc:"Tag ID"`
}

// MessageOutput is a plain acknowledgement.
type MessageOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

// RefreshRatingsOutput wraps the refresh result for Huma.
type RefreshRatingsOutput struct {
	Body service.RefreshResult
}

// TrailerOutput contains the trailer key.
type TrailerOutput struct {
	Body struct {
		TrailerKey string `json:"trailer_key" doc:"YouTube video key"`
	}
}

// SummaryOutput contains a generated summary.
type SummaryOutput struct {
	Body struct {
		Summary string `json:"summary" doc:"Generated summary"`
	}
}

// === Handlers ===

func (s *Server) handleListShows(ctx context.Context, input *ListShowsInput) (*ListShowsOutput, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	shows, err := s.services.Shows.ListShows(ctx, m.HouseholdID)
	if err != nil {
		return nil, handlerError(err)
	}

	resp := make([]ShowResponse, len(shows))
	for i, sh := range shows {
		resp[i] = toShowResponse(sh)
	}
	return &ListShowsOutput{Body: resp}, nil
}

func (s *Server) handleAddShow(ctx context.Context, input *AddShowInput) (*ShowOutput, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	sh, err := s.services.Shows.AddShow(ctx, m.HouseholdID, service.AddShowRequest{
		TMDBID:    input.Body.TMDBID,
		Title:     input.Body.Title,
		Type:      domain.MediaType(input.Body.Type),
		PosterURL: input.Body.PosterURL,
		Year:      input.Body.Year,
		Overview:  input.Body.Overview,
		Status:    domain.ShowStatus(input.Body.Status),
	})
	if err != nil {
		return nil, handlerError(err)
	}

	return &ShowOutput{Body: toShowResponse(sh)}, nil
}

func (s *Server) handleGetShow(ctx context.Context, input *ShowInput) (*ShowOutput, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	sh, err := s.services.Shows.GetShow(ctx, m.HouseholdID, input.ID)
	if err != nil {
		return nil, handlerError(err)
	}
	return &ShowOutput{Body: toShowResponse(sh)}, nil
}

func (s *Server) handleUpdateShow(ctx context.Context, input *UpdateShowInput) (*ShowOutput, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	req := service.UpdateShowRequest{
		Comment:   input.Body.Comment,
		AISummary: input.Body.AISummary,
	}
	if input.Body.Status != nil {
		st := domain.ShowStatus(*input.Body.Status)
		req.Status = &st
	}

	sh, err := s.services.Shows.UpdateShow(ctx, m.HouseholdID, input.ID, req)
	if err != nil {
		return nil, handlerError(err)
	}
	return &ShowOutput{Body: toShowResponse(sh)}, nil
}

func (s *Server) handleDeleteShow(ctx context.Context, input *ShowInput) (*struct{}, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Shows.DeleteShow(ctx, m.HouseholdID, input.ID); err != nil {
		return nil, handlerError(err)
	}
	return nil, nil
}

func (s *Server) handleAddShowTag(ctx context.Context, input *AddShowTagInput) (*MessageOutput, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Shows.AddTag(ctx, m.HouseholdID, input.ID, input.Body.TagID); err != nil {
		return nil, handlerError(err)
	}

	out := &MessageOutput{}
	out.Body.Message = "Tag added"
	return out, nil
}

func (s *Server) handleRemoveShowTag(ctx context.Context, input *RemoveShowTagInput) (*struct{}, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Shows.RemoveTag(ctx, m.HouseholdID, input.ID, input.TagID); err != nil {
		return nil, handlerError(err)
	}
	return nil, nil
}

func (s *Server) handleRefreshRatings(ctx context.Context, input *ListShowsInput) (*RefreshRatingsOutput, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	res, err := s.services.Shows.RefreshRatings(ctx, m.HouseholdID)
	if err != nil {
		s.logger.Error("Ratings refresh failed", "household_id", m.HouseholdID, "error", err)
		return nil, handlerError(err)
	}
	return &RefreshRatingsOutput{Body: *res}, nil
}

func (s *Server) handleGetTrailer(ctx context.Context, input *ShowInput) (*TrailerOutput, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	key, err := s.services.Shows.Trailer(ctx, m.HouseholdID, input.ID)
	if err != nil {
		return nil, handlerError(err)
	}

	out := &TrailerOutput{}
	out.Body.TrailerKey = key
	return out, nil
}

func (s *Server) handleSummarizeShow(ctx context.Context, input *ShowInput) (*SummaryOutput, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	summary, err := s.services.Shows.Summarize(ctx, m.HouseholdID, input.ID)
	if err != nil {
		return nil, handlerError(err)
	}

	out := &SummaryOutput{}
	out.Body.Summary = summary
	return out, nil
}

func toShowResponse(sh *domain.Show) ShowResponse {
	tags := make([]ShowTagResponse, len(sh.Tags))
	for i, t := range sh.Tags {
		tags[i] = ShowTagResponse{
			ID:       t.ID,
			Name:     t.Name,
			Color:    t.Color,
			Category: string(t.Category),
		}
	}

	services := sh.StreamingServices
	if services == nil {
		services = []string{}
	}

	return ShowResponse{
		ID:                  sh.ID,
		TMDBID:              sh.TMDBID,
		Title:               sh.Title,
		Type:                string(sh.Type),
		PosterURL:           sh.PosterURL,
		Year:                sh.Year,
		Overview:            sh.Overview,
		Status:              string(sh.Status),
		IMDBRating:          sh.IMDBRating,
		RottenTomatoesScore: sh.RottenTomatoesScore,
		IMDBID:              sh.IMDBID,
		StreamingServices:   services,
		Comment:             sh.Comment,
		AISummary:           sh.AISummary,
		Tags:                tags,
		CreatedAt:           sh.CreatedAt,
		UpdatedAt:           sh.UpdatedAt,
	}
}
