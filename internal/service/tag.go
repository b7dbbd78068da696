package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/couchqueue/couchqueue-server/internal/color"
	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/errors"
	"github.com/couchqueue/couchqueue-server/internal/id"
	"github.com/couchqueue/couchqueue-server/internal/store"
	"github.com/couchqueue/couchqueue-server/internal/validation"
)

// TagService manages household tags.
// Global tags are shared by every household and are read-only.
type TagService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(s store.Store, v *validation.Validator, logger *slog.Logger) *TagService {
	return &TagService{store: s, validator: v, logger: logger}
}

// CreateTagRequest describes a new household tag.
type CreateTagRequest struct {
	Name     string             `json:"name" validate:"required,max=50"`
	Color    string             `json:"color" validate:"omitempty,hexcolor"`
	Category domain.TagCategory `json:"category" validate:"required,oneof=who genre mood meta"`
}

// UpdateTagRequest carries a partial tag update. Nil fields are left unchanged.
type UpdateTagRequest struct {
	Name     *string             `json:"name" validate:"omitempty,max=50"`
	Color    *string             `json:"color" validate:"omitempty,hexcolor"`
	Category *domain.TagCategory `json:"category" validate:"omitempty,oneof=who genre mood meta"`
}

// NormalizeTagName trims, collapses inner whitespace and applies NFC so that
// visually identical names compare equal.
func NormalizeTagName(name string) string {
	return norm.NFC.String(strings.Join(strings.Fields(name), " "))
}

// ListTags returns global and household tags ordered by category, name.
func (s *TagService) ListTags(ctx context.Context, householdID string) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx, householdID)
}

// CreateTag adds a household tag.
func (s *TagService) CreateTag(ctx context.Context, householdID string, req CreateTagRequest) (*domain.Tag, error) {
	req.Name = NormalizeTagName(req.Name)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Color == "" {
		req.Color = color.ForTag(req.Name)
	}

	hid := householdID
	tag := &domain.Tag{
		ID:          id.MustGenerate(id.PrefixTag),
		HouseholdID: &hid,
		Name:        req.Name,
		Color:       req.Color,
		Category:    req.Category,
		CreatedAt:   time.Now(),
	}
	if err := s.store.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Conflict("A tag with this name already exists")
		}
		return nil, err
	}

	s.logger.Info("tag created", "household_id", householdID, "tag_id", tag.ID, "name", tag.Name)
	return tag, nil
}

// UpdateTag renames or recolors a household tag.
func (s *TagService) UpdateTag(ctx context.Context, householdID, tagID string, req UpdateTagRequest) (*domain.Tag, error) {
	if req.Name != nil {
		n := NormalizeTagName(*req.Name)
		if n == "" {
			req.Name = nil
		} else {
			req.Name = &n
		}
	}
	if req.Color != nil && *req.Color == "" {
		req.Color = nil
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.checkOwned(ctx, householdID, tagID, "Cannot modify global tags"); err != nil {
		return nil, err
	}

	u := domain.TagUpdate{Name: req.Name, Color: req.Color, Category: req.Category}
	if u.IsEmpty() {
		return nil, errors.Validation("Nothing to update")
	}

	tag, err := s.store.UpdateTag(ctx, householdID, tagID, u)
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		return nil, errors.Conflict("A tag with this name already exists")
	case errors.Is(err, store.ErrNotFound):
		return nil, errors.NotFound("Tag not found")
	}
	return tag, err
}

// DeleteTag removes a household tag and its show links.
func (s *TagService) DeleteTag(ctx context.Context, householdID, tagID string) error {
	if err := s.checkOwned(ctx, householdID, tagID, "Cannot delete global tags"); err != nil {
		return err
	}

	err := s.store.DeleteTag(ctx, householdID, tagID)
	if errors.Is(err, store.ErrNotFound) {
		return errors.NotFound("Tag not found")
	}
	if err == nil {
		s.logger.Info("tag deleted", "household_id", householdID, "tag_id", tagID)
	}
	return err
}

// checkOwned fails with 403 for global tags and 404 for other households' tags.
func (s *TagService) checkOwned(ctx context.Context, householdID, tagID, globalMsg string) error {
	tag, err := s.store.GetTag(ctx, tagID)
	if errors.Is(err, store.ErrNotFound) {
		return errors.NotFound("Tag not found")
	}
	if err != nil {
		return err
	}
	if tag.IsGlobal() {
		return errors.Forbidden(globalMsg)
	}
	if *tag.HouseholdID != householdID {
		return errors.NotFound("Tag not found")
	}
	return nil
}
