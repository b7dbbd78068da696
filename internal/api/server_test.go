package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchqueue/couchqueue-server/internal/cache"
	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/id"
	"github.com/couchqueue/couchqueue-server/internal/llm"
	"github.com/couchqueue/couchqueue-server/internal/metadata/omdb"
	"github.com/couchqueue/couchqueue-server/internal/metadata/tmdb"
	"github.com/couchqueue/couchqueue-server/internal/ratelimit"
	"github.com/couchqueue/couchqueue-server/internal/recommend"
	"github.com/couchqueue/couchqueue-server/internal/service"
	"github.com/couchqueue/couchqueue-server/internal/store/sqlite"
	"github.com/couchqueue/couchqueue-server/internal/validation"
)

// fakeGenerator answers every call with the same text, or fails.
type fakeGenerator struct {
	mu       sync.Mutex
	text     string
	err      error
	requests []llm.Request
}

func (g *fakeGenerator) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &llm.Response{Segments: []llm.Segment{{Kind: llm.SegmentText, Text: g.text}}}, nil
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

// fakeCatalog serves canned catalog data.
type fakeCatalog struct {
	search     []tmdb.SearchResult
	trending   []tmdb.TrendingItem
	err        error
	providers  []string
	genres     []string
	trailerKey string
}

func (c *fakeCatalog) SearchMulti(context.Context, string) ([]tmdb.SearchResult, error) {
	return c.search, c.err
}

func (c *fakeCatalog) GetTrending(context.Context) ([]tmdb.TrendingItem, error) {
	return c.trending, c.err
}

func (c *fakeCatalog) GetWatchProviders(context.Context, domain.MediaType, int64) []string {
	return c.providers
}

func (c *fakeCatalog) GetGenreTags(context.Context, domain.MediaType, int64) []string {
	return c.genres
}

func (c *fakeCatalog) GetTrailerKey(context.Context, domain.MediaType, int64) (string, error) {
	if c.trailerKey == "" {
		return "", tmdb.ErrNotFound
	}
	return c.trailerKey, nil
}

type fakeRatings struct{}

func (fakeRatings) GetRatings(context.Context, string, *int, domain.MediaType) (*omdb.Ratings, error) {
	rating := 8.1
	score := 93
	return &omdb.Ratings{IMDBRating: &rating, RottenTomatoesScore: &score, IMDBID: "tt0000001"}, nil
}

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api     humatest.TestAPI
	store   *sqlite.Store
	gen     *fakeGenerator
	catalog *fakeCatalog
	owner   *domain.Member
}

// setupTestServer creates a server over a temp SQLite store with one household.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() }) //nolint:errcheck // Test cleanup

	c, err := cache.Open("", time.Hour, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() }) //nolint:errcheck // Test cleanup

	gen := &fakeGenerator{text: "Watch Dark next."}
	catalog := &fakeCatalog{}
	v := validation.New()

	recommender := recommend.NewService(st, gen, logger)
	services := &Services{
		Recommend: recommender,
		Shows:     service.NewShowService(st, catalog, fakeRatings{}, recommender, v, logger),
		Tags:      service.NewTagService(st, v, logger),
		Household: service.NewHouseholdService(st, v, logger),
		Discover:  service.NewDiscoverService(catalog, logger),
	}

	limiter := ratelimit.PerMinute(RecommendationsPerMinute, RecommendationBurst)
	t.Cleanup(limiter.Stop)

	srv := NewServer(st, c, services, limiter, Options{RateLimitRequests: 1000}, logger)

	ts := &testServer{
		Server:  srv,
		api:     humatest.Wrap(t, srv.API()),
		store:   st,
		gen:     gen,
		catalog: catalog,
	}
	ts.owner = ts.createHousehold(t, "Couch Potatoes")
	return ts
}

// createHousehold inserts a household and returns its owner.
func (ts *testServer) createHousehold(t *testing.T, name string) *domain.Member {
	t.Helper()
	now := time.Now()
	h := &domain.Household{ID: id.MustGenerate(id.PrefixHousehold), Name: name, CreatedAt: now, UpdatedAt: now}
	owner := &domain.Member{
		ID:        id.MustGenerate(id.PrefixMember),
		UserID:    "user-" + h.ID,
		Email:     "owner-" + h.ID + "@example.com",
		CreatedAt: now,
	}
	require.NoError(t, ts.store.CreateHousehold(context.Background(), h, owner))
	return owner
}

// addShow inserts a show directly and tags it with the named tags.
func (ts *testServer) addShow(t *testing.T, m *domain.Member, title string, status domain.ShowStatus, tagNames ...string) *domain.Show {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	sh := &domain.Show{
		ID:          id.MustGenerate(id.PrefixShow),
		HouseholdID: m.HouseholdID,
		TMDBID:      time.Now().UnixNano(),
		Title:       title,
		Type:        domain.MediaTV,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, ts.store.CreateShow(ctx, sh))

	if len(tagNames) > 0 {
		tags, err := ts.store.FindTagsByName(ctx, m.HouseholdID, tagNames)
		require.NoError(t, err)
		require.Len(t, tags, len(tagNames))
		ids := make([]string, len(tags))
		for i, tg := range tags {
			ids[i] = tg.ID
		}
		require.NoError(t, ts.store.AddShowTags(ctx, sh.ID, ids...))
	}
	return sh
}

// as returns the identity headers of a member.
func as(m *domain.Member) []any {
	return []any{
		HeaderUserID + ": " + m.UserID,
		HeaderHouseholdID + ": " + m.HouseholdID,
	}
}

// withBody appends a request body to the identity headers.
func withBody(m *domain.Member, body any) []any {
	return append(as(m), body)
}

func decodeAPIError(t *testing.T, body []byte) APIError {
	t.Helper()
	var e APIError
	require.NoError(t, json.Unmarshal(body, &e))
	return e
}

func TestIdentity_MissingUserHeader(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/shows")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	e := decodeAPIError(t, resp.Body.Bytes())
	assert.Equal(t, "UNAUTHORIZED", e.Code)
	assert.Contains(t, e.Message, HeaderUserID)
}

func TestIdentity_UserWithoutHousehold(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/shows", HeaderUserID+": user-nobody")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "No household found", decodeAPIError(t, resp.Body.Bytes()).Message)
}

func TestIdentity_HouseholdMismatch(t *testing.T) {
	ts := setupTestServer(t)
	other := ts.createHousehold(t, "Neighbours")

	resp := ts.api.Get("/api/v1/shows",
		HeaderUserID+": "+ts.owner.UserID,
		HeaderHouseholdID+": "+other.HouseholdID,
	)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestIdentity_HouseholdHeaderOptional(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/shows", HeaderUserID+": "+ts.owner.UserID)

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestServer_UnknownRouteIsJSON(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/nope")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeAPIError(t, resp.Body.Bytes()).Code)
}

func TestServer_Metrics(t *testing.T) {
	ts := setupTestServer(t)
	ts.api.Get("/health")

	resp := ts.api.Get("/metrics")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "couchqueue_api_requests_total")
}

func TestServer_ResponsesOmitSchemaLink(t *testing.T) {
	ts := setupTestServer(t)

	for _, resp := range []*httptest.ResponseRecorder{
		ts.api.Get("/health"),
		ts.api.Get("/api/v1/recommendation", as(ts.owner)...),
		ts.api.Post("/api/v1/recommendation", withBody(ts.owner, map[string]any{})...),
	} {
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		var body map[string]any
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.NotContains(t, body, "$schema")
	}
}

func TestServer_IPRateLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(nil, nil, &Services{}, nil, Options{RateLimitRequests: 2, RateLimitWindow: time.Minute}, logger)
	api := humatest.Wrap(t, srv.API())

	assert.Equal(t, http.StatusOK, api.Get("/health").Code)
	assert.Equal(t, http.StatusOK, api.Get("/health").Code)

	resp := api.Get("/health")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "RATE_LIMITED", decodeAPIError(t, resp.Body.Bytes()).Code)
}
