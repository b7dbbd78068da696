package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/id"
	"github.com/couchqueue/couchqueue-server/internal/metadata/omdb"
	"github.com/couchqueue/couchqueue-server/internal/metadata/tmdb"
	"github.com/couchqueue/couchqueue-server/internal/store/sqlite"
	"github.com/couchqueue/couchqueue-server/internal/validation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestStore opens a SQLite store in a temp dir.
func setupTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() }) //nolint:errcheck // Test cleanup
	return s
}

// createTestHousehold creates a household and returns its owner membership.
func createTestHousehold(t *testing.T, s *sqlite.Store, name string) *domain.Member {
	t.Helper()
	now := time.Now()
	h := &domain.Household{ID: id.MustGenerate(id.PrefixHousehold), Name: name, CreatedAt: now, UpdatedAt: now}
	owner := &domain.Member{
		ID:        id.MustGenerate(id.PrefixMember),
		UserID:    "user-" + h.ID,
		Email:     "owner-" + h.ID + "@example.com",
		CreatedAt: now,
	}
	require.NoError(t, s.CreateHousehold(context.Background(), h, owner))
	return owner
}

// fakeCatalog serves canned catalog data.
type fakeCatalog struct {
	mu sync.Mutex

	search      []tmdb.SearchResult
	searchErr   error
	trending    []tmdb.TrendingItem
	trendingErr error
	providers   []string
	genres      []string
	trailerKey  string
	trailerErr  error

	trailerCalls []int64
}

func (c *fakeCatalog) SearchMulti(context.Context, string) ([]tmdb.SearchResult, error) {
	return c.search, c.searchErr
}

func (c *fakeCatalog) GetTrending(context.Context) ([]tmdb.TrendingItem, error) {
	return c.trending, c.trendingErr
}

func (c *fakeCatalog) GetWatchProviders(context.Context, domain.MediaType, int64) []string {
	return c.providers
}

func (c *fakeCatalog) GetGenreTags(context.Context, domain.MediaType, int64) []string {
	return c.genres
}

func (c *fakeCatalog) GetTrailerKey(_ context.Context, _ domain.MediaType, id int64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trailerCalls = append(c.trailerCalls, id)
	return c.trailerKey, c.trailerErr
}

// fakeRatings returns ratings by title; titles in errs fail.
type fakeRatings struct {
	mu     sync.Mutex
	byName map[string]*omdb.Ratings
	errs   map[string]error
	calls  []string
}

func (r *fakeRatings) GetRatings(_ context.Context, title string, _ *int, _ domain.MediaType) (*omdb.Ratings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, title)
	if err, ok := r.errs[title]; ok {
		return nil, err
	}
	if rt, ok := r.byName[title]; ok {
		return rt, nil
	}
	return &omdb.Ratings{}, nil
}

type fakeSummarizer struct {
	text string
	err  error
}

func (f *fakeSummarizer) Summarize(context.Context, string, string, domain.MediaType) (string, error) {
	return f.text, f.err
}

func newTestShowService(t *testing.T, s *sqlite.Store, c *fakeCatalog, r *fakeRatings, sum *fakeSummarizer) *ShowService {
	t.Helper()
	if r == nil {
		r = &fakeRatings{}
	}
	if sum == nil {
		sum = &fakeSummarizer{}
	}
	svc := NewShowService(s, c, r, sum, validation.New(), testLogger())
	svc.refreshSpacing = 0
	return svc
}

func floatp(v float64) *float64 { return &v }
func intp(v int) *int           { return &v }
