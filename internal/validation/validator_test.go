package validation

import (
	"testing"

	domainerrors "github.com/couchqueue/couchqueue-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Color    string `json:"color" validate:"required,hexcolor"`
	Category string `json:"category" validate:"required,oneof=who genre mood meta"`
}

func TestValidate_Valid(t *testing.T) {
	v := New()
	err := v.Validate(tagRequest{Name: "Cozy", Color: "#aabbcc", Category: "mood"})
	assert.NoError(t, err)
}

func TestValidate_FieldErrorsUseJSONNames(t *testing.T) {
	v := New()
	err := v.Validate(tagRequest{Color: "blue", Category: "vibes"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be a hex color like #ff6b6b", details["color"])
	assert.Equal(t, "must be one of: who genre mood meta", details["category"])
}

func TestVar(t *testing.T) {
	v := New()

	assert.NoError(t, v.Var("email", "friend@example.com", "required,email"))

	err := v.Var("email", "not-an-email", "required,email")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
