package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTags_IncludesGlobal(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/tags", as(ts.owner)...)

	require.Equal(t, http.StatusOK, resp.Code)
	var tags []TagResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tags))

	names := make(map[string]bool, len(tags))
	for _, tg := range tags {
		names[tg.Name] = true
		if tg.Name == "Loved" {
			assert.Nil(t, tg.HouseholdID)
		}
	}
	assert.True(t, names["Loved"])
	assert.True(t, names["Didn't Like"])
	assert.True(t, names["Comfort Watch"])
}

func TestCreateTag(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tags", withBody(ts.owner, map[string]any{
		"name":     "  Date   Night ",
		"color":    "#ff8800",
		"category": "mood",
	})...)

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var tag TagResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tag))
	assert.Equal(t, "Date Night", tag.Name)
	require.NotNil(t, tag.HouseholdID)
	assert.Equal(t, ts.owner.HouseholdID, *tag.HouseholdID)

	dup := ts.api.Post("/api/v1/tags", withBody(ts.owner, map[string]any{
		"name": "Date Night", "color": "#000000", "category": "mood",
	})...)
	assert.Equal(t, http.StatusConflict, dup.Code)
}

func TestCreateTag_InvalidColor(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tags", withBody(ts.owner, map[string]any{
		"name": "Date Night", "color": "orange", "category": "mood",
	})...)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	e := decodeAPIError(t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION_ERROR", e.Code)
	assert.NotNil(t, e.Details)
}

func TestUpdateTag_GlobalIsForbidden(t *testing.T) {
	ts := setupTestServer(t)
	tags, err := ts.store.FindTagsByName(t.Context(), ts.owner.HouseholdID, []string{"Loved"})
	require.NoError(t, err)
	require.Len(t, tags, 1)

	resp := ts.api.Patch("/api/v1/tags/"+tags[0].ID, withBody(ts.owner, map[string]any{"name": "Adored"})...)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "Cannot modify global tags", decodeAPIError(t, resp.Body.Bytes()).Message)

	resp = ts.api.Delete("/api/v1/tags/"+tags[0].ID, as(ts.owner)...)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "Cannot delete global tags", decodeAPIError(t, resp.Body.Bytes()).Message)
}

func TestUpdateAndDeleteTag(t *testing.T) {
	ts := setupTestServer(t)
	created := ts.api.Post("/api/v1/tags", withBody(ts.owner, map[string]any{
		"name": "Alex", "color": "#112233", "category": "who",
	})...)
	require.Equal(t, http.StatusCreated, created.Code)
	var tag TagResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &tag))

	resp := ts.api.Patch("/api/v1/tags/"+tag.ID, withBody(ts.owner, map[string]any{"color": "#445566"})...)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var updated TagResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal(t, "#445566", updated.Color)
	assert.Equal(t, "Alex", updated.Name)

	resp = ts.api.Patch("/api/v1/tags/"+tag.ID, withBody(ts.owner, map[string]any{})...)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	other := ts.createHousehold(t, "Neighbours")
	resp = ts.api.Delete("/api/v1/tags/"+tag.ID, as(other)...)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete("/api/v1/tags/"+tag.ID, as(ts.owner)...)
	assert.Equal(t, http.StatusNoContent, resp.Code)
}
