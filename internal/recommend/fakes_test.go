package recommend

import (
	"context"
	"sync"
	"time"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/llm"
	"github.com/couchqueue/couchqueue-server/internal/store"
)

// fakeGenerator returns queued responses in order and records every request.
type fakeGenerator struct {
	mu        sync.Mutex
	responses []*llm.Response
	errs      []error
	requests  []llm.Request
}

func (g *fakeGenerator) reply(segments ...llm.Segment) *fakeGenerator {
	g.responses = append(g.responses, &llm.Response{Segments: segments})
	g.errs = append(g.errs, nil)
	return g
}

func (g *fakeGenerator) fail(err error) *fakeGenerator {
	g.responses = append(g.responses, nil)
	g.errs = append(g.errs, err)
	return g
}

func (g *fakeGenerator) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := len(g.requests)
	g.requests = append(g.requests, req)
	if i >= len(g.responses) {
		return &llm.Response{}, nil
	}
	return g.responses[i], g.errs[i]
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

// memStore is an in-memory Store.
type memStore struct {
	shows []*domain.Show
	tags  []*domain.Tag
	recs  map[string]*domain.Recommendation
	err   error
}

func newMemStore() *memStore {
	return &memStore{
		tags: []*domain.Tag{
			{ID: "t-loved", Name: domain.TagLoved, Category: domain.CategoryMeta},
			{ID: "t-liked", Name: domain.TagLiked, Category: domain.CategoryMeta},
			{ID: "t-disliked", Name: domain.TagDidntLike, Category: domain.CategoryMeta},
			{ID: "t-drama", Name: "Drama", Category: domain.CategoryGenre},
			{ID: "t-scifi", Name: "Scifi", Category: domain.CategoryGenre},
			{ID: "t-cozy", Name: "Cozy", Category: domain.CategoryMood},
			{ID: "t-alex", Name: "Alex", Category: domain.CategoryWho},
		},
		recs: make(map[string]*domain.Recommendation),
	}
}

func (m *memStore) tag(name string) *domain.Tag {
	for _, t := range m.tags {
		if t.Name == name {
			return t
		}
	}
	panic("unknown tag " + name)
}

func (m *memStore) addShow(title string, status domain.ShowStatus, tagNames ...string) *domain.Show {
	s := &domain.Show{
		ID:     "show-" + title,
		Title:  title,
		Type:   domain.MediaTV,
		Status: status,
		Tags:   []*domain.Tag{},
	}
	for _, n := range tagNames {
		s.Tags = append(s.Tags, m.tag(n))
	}
	m.shows = append(m.shows, s)
	return s
}

func (m *memStore) ListShows(context.Context, string) ([]*domain.Show, error) {
	return m.shows, m.err
}

func (m *memStore) ListTags(context.Context, string) ([]*domain.Tag, error) {
	return m.tags, m.err
}

func (m *memStore) GetRecommendation(_ context.Context, householdID string) (*domain.Recommendation, error) {
	rec, ok := m.recs[householdID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memStore) UpsertRecommendation(_ context.Context, householdID string, field domain.RecommendationField, text string) error {
	rec, ok := m.recs[householdID]
	if !ok {
		rec = &domain.Recommendation{ID: "rec-" + householdID, HouseholdID: householdID}
		m.recs[householdID] = rec
	}
	v := text
	switch field {
	case domain.FieldQuickPick:
		rec.QuickPick = &v
	case domain.FieldDeepAnalysis:
		rec.DeepAnalysis = &v
	default:
		return store.ErrInvalidInput
	}
	rec.UpdatedAt = time.Now()
	return nil
}
