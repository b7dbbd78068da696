package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns global and household tags ordered by category and name",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"household": {}}},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          "/api/v1/tags",
		Summary:       "Create tag",
		Description:   "Creates a household tag",
		Tags:          []string{"Tags"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"household": {}}},
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTag",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Update tag",
		Description: "Renames, recolors or recategorizes a household tag",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"household": {}}},
	}, s.handleUpdateTag)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteTag",
		Method:        http.MethodDelete,
		Path:          "/api/v1/tags/{id}",
		Summary:       "Delete tag",
		Description:   "Deletes a household tag and unlinks it from shows",
		Tags:          []string{"Tags"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"household": {}}},
	}, s.handleDeleteTag)
}

// === DTOs ===

// ListTagsInput contains parameters for listing tags.
type ListTagsInput struct {
	UserID      string `header:"X-User-ID"`
	HouseholdID string `header:"X-Household-ID"`
}

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID          string    `json:"id" doc:"Tag ID"`
	HouseholdID *string   `json:"household_id" doc:"Owning household, null for global tags"`
	Name        string    `json:"name" doc:"Tag name"`
	Color       string    `json:"color" doc:"Display color"`
	Category    string    `json:"category" doc:"who, genre, mood or meta"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
}

// ListTagsOutput wraps the list tags response for Huma.
type ListTagsOutput struct {
	Body []TagResponse
}

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	Name     string `json:"name" minLength:"1" maxLength:"50" doc:"Tag name"`
	Color    string `json:"color,omitempty" doc:"Hex display color, e.g. #ff8800. Derived from the name when omitted."`
	Category string `json:"category" enum:"who,genre,mood,meta" doc:"Tag category"`
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	UserID      string `header:"X-User-ID"`
	HouseholdID string `header:"X-Household-ID"`
	Body        CreateTagRequest
}

// TagOutput wraps the tag response for Huma.
type TagOutput struct {
	Body TagResponse
}

// UpdateTagRequest is the request body for updating a tag.
type UpdateTagRequest struct {
	Name     *string `json:"name,omitempty" maxLength:"50" doc:"Tag name"`
	Color    *string `json:"color,omitempty" doc:"Hex display color"`
	Category *string `json:"category,omitempty" enum:"who,genre,mood,meta" doc:"Tag category"`
}

// UpdateTagInput wraps the update tag request for Huma.
type UpdateTagInput struct {
	UserID      string `header:"X-User-ID"`
	HouseholdID string `header:"X-Household-ID"`
	ID          string `path:"id" doc:"Tag ID"`
	Body        UpdateTagRequest
}

// DeleteTagInput contains parameters for deleting a tag.
type DeleteTagInput struct {
	UserID      string `header:"X-User-ID"`
	HouseholdID string `header:"X-Household-ID"`
	ID          string `path:"id" doc:"Tag ID"`
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, input *ListTagsInput) (*ListTagsOutput, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	tags, err := s.services.Tags.ListTags(ctx, m.HouseholdID)
	if err != nil {
		return nil, handlerError(err)
	}

	resp := make([]TagResponse, len(tags))
	for i, t := range tags {
		resp[i] = toTagResponse(t)
	}
	return &ListTagsOutput{Body: resp}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	t, err := s.services.Tags.CreateTag(ctx, m.HouseholdID, service.CreateTagRequest{
		Name:     input.Body.Name,
		Color:    input.Body.Color,
		Category: domain.TagCategory(input.Body.Category),
	})
	if err != nil {
		return nil, handlerError(err)
	}

	return &TagOutput{Body: toTagResponse(t)}, nil
}

func (s *Server) handleUpdateTag(ctx context.Context, input *UpdateTagInput) (*TagOutput, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	req := service.UpdateTagRequest{
		Name:  input.Body.Name,
		Color: input.Body.Color,
	}
	if input.Body.Category != nil {
		c := domain.TagCategory(*input.Body.Category)
		req.Category = &c
	}

	t, err := s.services.Tags.UpdateTag(ctx, m.HouseholdID, input.ID, req)
	if err != nil {
		return nil, handlerError(err)
	}

	return &TagOutput{Body: toTagResponse(t)}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *DeleteTagInput) (*struct{}, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Tags.DeleteTag(ctx, m.HouseholdID, input.ID); err != nil {
		return nil, handlerError(err)
	}
	return nil, nil
}

func toTagResponse(t *domain.Tag) TagResponse {
	return TagResponse{
		ID:          t.ID,
		HouseholdID: t.HouseholdID,
		Name:        t.Name,
		Color:       t.Color,
		Category:    string(t.Category),
		CreatedAt:   t.CreatedAt,
	}
}
