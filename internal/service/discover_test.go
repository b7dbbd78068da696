package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/errors"
	"github.com/couchqueue/couchqueue-server/internal/metadata/tmdb"
)

func TestDiscoverService_Search(t *testing.T) {
	catalog := &fakeCatalog{search: []tmdb.SearchResult{
		{ID: 1, MediaType: "tv", Name: "Dark", PosterPath: "/dark.jpg", FirstAirDate: "2017-12-01", Overview: "Kids vanish."},
		{ID: 2, MediaType: "movie", Title: "Arrival", ReleaseDate: "2016-11-11"},
		{ID: 3, MediaType: "movie"},
	}}
	svc := NewDiscoverService(catalog, testLogger())

	items, err := svc.Search(context.Background(), " dark ")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, DiscoverItem{
		TMDBID:    1,
		Title:     "Dark",
		Type:      domain.MediaTV,
		PosterURL: "https://image.tmdb.org/t/p/w342/dark.jpg",
		Year:      intp(2017),
		Overview:  "Kids vanish.",
	}, items[0])
	assert.Equal(t, "", items[1].PosterURL)
	assert.Equal(t, 2016, *items[1].Year)
	assert.Equal(t, "Unknown", items[2].Title)
	assert.Nil(t, items[2].Year)
}

func TestDiscoverService_Search_Errors(t *testing.T) {
	svc := NewDiscoverService(&fakeCatalog{searchErr: tmdb.ErrServer}, testLogger())

	_, err := svc.Search(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Equal(t, `Query parameter "q" is required`, err.Error())

	_, err = svc.Search(context.Background(), "dark")
	assert.True(t, errors.Is(err, errors.ErrUpstream))
	assert.ErrorIs(t, err, tmdb.ErrServer)
}

func TestDiscoverService_Trending(t *testing.T) {
	catalog := &fakeCatalog{trending: []tmdb.TrendingItem{
		{ID: 7, Title: "Severance", Type: domain.MediaTV, ReleaseDate: "2022-02-18", VoteAverage: 8.4},
	}}
	svc := NewDiscoverService(catalog, testLogger())

	items, err := svc.Trending(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Severance", items[0].Title)
	assert.Equal(t, 2022, *items[0].Year)
	require.NotNil(t, items[0].Rating)
	assert.InDelta(t, 8.4, *items[0].Rating, 0.001)

	svc = NewDiscoverService(&fakeCatalog{trendingErr: tmdb.ErrServer}, testLogger())
	_, err = svc.Trending(context.Background())
	assert.True(t, errors.Is(err, errors.ErrUpstream))
	assert.Contains(t, err.Error(), "Failed to fetch trending")
}
