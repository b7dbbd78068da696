package omdb

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchqueue/couchqueue-server/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	client := New(Config{APIKey: "k", BaseURL: server.URL}, logger)
	client.http = server.Client()
	return client, server
}

func intp(v int) *int { return &v }

func TestGetRatings_Parses(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "k", q.Get("apikey"))
		assert.Equal(t, "Dark", q.Get("t"))
		assert.Equal(t, "2017", q.Get("y"))
		assert.Equal(t, "series", q.Get("type"))
		w.Write([]byte(`{
			"Response": "True",
			"imdbRating": "8.7",
			"imdbID": "tt5753856",
			"Ratings": [
				{"Source": "Internet Movie Database", "Value": "8.7/10"},
				{"Source": "Rotten Tomatoes", "Value": "95%"}
			]
		}`))
	})

	r, err := client.GetRatings(context.Background(), "Dark", intp(2017), domain.MediaTV)
	require.NoError(t, err)
	require.NotNil(t, r.IMDBRating)
	assert.Equal(t, 8.7, *r.IMDBRating)
	require.NotNil(t, r.RottenTomatoesScore)
	assert.Equal(t, 95, *r.RottenTomatoesScore)
	assert.Equal(t, "tt5753856", r.IMDBID)
}

func TestGetRatings_NotAvailable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "movie", r.URL.Query().Get("type"))
		assert.Empty(t, r.URL.Query().Get("y"))
		w.Write([]byte(`{"Response": "True", "imdbRating": "N/A", "imdbID": "tt0000001", "Ratings": []}`))
	})

	r, err := client.GetRatings(context.Background(), "Obscure", nil, domain.MediaMovie)
	require.NoError(t, err)
	assert.Nil(t, r.IMDBRating)
	assert.Nil(t, r.RottenTomatoesScore)
	assert.Equal(t, "tt0000001", r.IMDBID)
}

func TestGetRatings_UnknownTitle(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response": "False", "Error": "Movie not found!"}`))
	})

	r, err := client.GetRatings(context.Background(), "zzzz", nil, domain.MediaMovie)
	require.NoError(t, err)
	assert.Equal(t, &Ratings{}, r)
}

func TestGetRatings_ServerErrorIsEmpty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	r, err := client.GetRatings(context.Background(), "Dark", nil, domain.MediaTV)
	require.NoError(t, err)
	assert.Equal(t, &Ratings{}, r)
}

func TestGetRatings_NotConfigured(t *testing.T) {
	client := New(Config{}, nil)
	_, err := client.GetRatings(context.Background(), "Dark", nil, domain.MediaTV)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGetRatings_CircuitOpens(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	ctx := context.Background()
	for i := range failureThreshold {
		_, err := client.GetRatings(ctx, "Dark", nil, domain.MediaTV)
		require.Error(t, err, "attempt %d", i)
		assert.False(t, errors.Is(err, ErrCircuitOpen), "attempt %d should reach the network", i)
	}

	_, err := client.GetRatings(ctx, "Dark", nil, domain.MediaTV)
	assert.ErrorIs(t, err, ErrCircuitOpen)

	var omdbErr *Error
	require.True(t, errors.As(err, &omdbErr))
	assert.Equal(t, "Dark", omdbErr.Title)
}
