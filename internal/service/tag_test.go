package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchqueue/couchqueue-server/internal/color"
	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/errors"
	"github.com/couchqueue/couchqueue-server/internal/validation"
)

func TestNormalizeTagName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Cozy  ", "Cozy"},
		{"Comfort   Watch", "Comfort Watch"},
		{"Cafe\u0301", "Caf\u00e9"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTagName(tt.in), "input %q", tt.in)
	}
}

func TestTagService_CreateTag(t *testing.T) {
	s := setupTestStore(t)
	owner := createTestHousehold(t, s, "Home")
	svc := NewTagService(s, validation.New(), testLogger())
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, owner.HouseholdID, CreateTagRequest{Name: " Caf\u00e9 Nights ", Color: "#ff6b6b", Category: domain.CategoryMood})
	require.NoError(t, err)
	assert.Equal(t, "Caf\u00e9 Nights", tag.Name)
	require.NotNil(t, tag.HouseholdID)
	assert.Equal(t, owner.HouseholdID, *tag.HouseholdID)

	_, err = svc.CreateTag(ctx, owner.HouseholdID, CreateTagRequest{Name: "Cafe\u0301 Nights", Color: "#000000", Category: domain.CategoryMood})
	assert.True(t, errors.Is(err, errors.ErrConflict), "precomposed and decomposed forms collide")

	_, err = svc.CreateTag(ctx, owner.HouseholdID, CreateTagRequest{Name: "Loved", Color: "#000000", Category: domain.CategoryMeta})
	assert.True(t, errors.Is(err, errors.ErrConflict), "global names are taken")

	_, err = svc.CreateTag(ctx, owner.HouseholdID, CreateTagRequest{Name: "X", Color: "red", Category: domain.CategoryMood})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	tags, err := svc.ListTags(ctx, owner.HouseholdID)
	require.NoError(t, err)
	var found bool
	for _, tg := range tags {
		found = found || tg.ID == tag.ID
	}
	assert.True(t, found)
}

func TestTagService_CreateTag_DefaultColor(t *testing.T) {
	s := setupTestStore(t)
	owner := createTestHousehold(t, s, "Home")
	svc := NewTagService(s, validation.New(), testLogger())

	tag, err := svc.CreateTag(context.Background(), owner.HouseholdID, CreateTagRequest{Name: "Alex", Category: domain.CategoryWho})

	require.NoError(t, err)
	assert.Equal(t, color.ForTag("Alex"), tag.Color)
}

func TestTagService_UpdateTag(t *testing.T) {
	s := setupTestStore(t)
	owner := createTestHousehold(t, s, "Home")
	other := createTestHousehold(t, s, "Other")
	svc := NewTagService(s, validation.New(), testLogger())
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, owner.HouseholdID, CreateTagRequest{Name: "Alex", Color: "#123456", Category: domain.CategoryWho})
	require.NoError(t, err)
	_, err = svc.CreateTag(ctx, owner.HouseholdID, CreateTagRequest{Name: "Sam", Color: "#123456", Category: domain.CategoryWho})
	require.NoError(t, err)

	name := "  Alexandra "
	updated, err := svc.UpdateTag(ctx, owner.HouseholdID, tag.ID, UpdateTagRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alexandra", updated.Name)

	_, err = svc.UpdateTag(ctx, owner.HouseholdID, tag.ID, UpdateTagRequest{})
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Contains(t, err.Error(), "Nothing to update")

	blank := "   "
	_, err = svc.UpdateTag(ctx, owner.HouseholdID, tag.ID, UpdateTagRequest{Name: &blank})
	assert.Contains(t, err.Error(), "Nothing to update")

	taken := "Sam"
	_, err = svc.UpdateTag(ctx, owner.HouseholdID, tag.ID, UpdateTagRequest{Name: &taken})
	assert.True(t, errors.Is(err, errors.ErrConflict))

	color := "#ffffff"
	_, err = svc.UpdateTag(ctx, owner.HouseholdID, "tag-global-loved", UpdateTagRequest{Color: &color})
	assert.True(t, errors.Is(err, errors.ErrForbidden))
	assert.Contains(t, err.Error(), "Cannot modify global tags")

	_, err = svc.UpdateTag(ctx, other.HouseholdID, tag.ID, UpdateTagRequest{Color: &color})
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = svc.UpdateTag(ctx, owner.HouseholdID, "tag-missing", UpdateTagRequest{Color: &color})
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestTagService_DeleteTag(t *testing.T) {
	s := setupTestStore(t)
	owner := createTestHousehold(t, s, "Home")
	other := createTestHousehold(t, s, "Other")
	svc := NewTagService(s, validation.New(), testLogger())
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, owner.HouseholdID, CreateTagRequest{Name: "Alex", Color: "#123456", Category: domain.CategoryWho})
	require.NoError(t, err)

	err = svc.DeleteTag(ctx, owner.HouseholdID, "tag-global-cozy")
	assert.True(t, errors.Is(err, errors.ErrForbidden))
	assert.Contains(t, err.Error(), "Cannot delete global tags")

	err = svc.DeleteTag(ctx, other.HouseholdID, tag.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	require.NoError(t, svc.DeleteTag(ctx, owner.HouseholdID, tag.ID))
	err = svc.DeleteTag(ctx, owner.HouseholdID, tag.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
