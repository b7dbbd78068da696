package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/metadata/tmdb"
	"github.com/couchqueue/couchqueue-server/internal/service"
)

func TestSearch_RequiresQuery(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/search?q=%20", as(ts.owner)...)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, `Query parameter "q" is required`, decodeAPIError(t, resp.Body.Bytes()).Message)
}

func TestSearch(t *testing.T) {
	ts := setupTestServer(t)
	ts.catalog.search = []tmdb.SearchResult{
		{ID: 70523, MediaType: "tv", Name: "Dark", FirstAirDate: "2017-12-01", PosterPath: "/dark.jpg"},
	}

	resp := ts.api.Get("/api/v1/search?q=dark", as(ts.owner)...)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var items []service.DiscoverItem
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Dark", items[0].Title)
	assert.Equal(t, domain.MediaTV, items[0].Type)
	assert.Equal(t, "https://image.tmdb.org/t/p/w342/dark.jpg", items[0].PosterURL)
	require.NotNil(t, items[0].Year)
	assert.Equal(t, 2017, *items[0].Year)
}

func TestTrending_UpstreamFailure(t *testing.T) {
	ts := setupTestServer(t)
	ts.catalog.err = errors.New("tmdb: server error")

	resp := ts.api.Get("/api/v1/trending", as(ts.owner)...)

	assert.Equal(t, http.StatusBadGateway, resp.Code)
	e := decodeAPIError(t, resp.Body.Bytes())
	assert.Equal(t, "Failed to fetch trending", e.Message)
	assert.NotContains(t, resp.Body.String(), "server error")
}
