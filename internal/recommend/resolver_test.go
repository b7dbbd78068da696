package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchqueue/couchqueue-server/internal/domain"
)

func TestBuckets_WithDefaults(t *testing.T) {
	b := Buckets{}.WithDefaults()
	assert.Equal(t, []string{"Loved"}, b.Loved)
	assert.Equal(t, []string{"Liked"}, b.Liked)
	assert.Equal(t, []string{"Didn't Like"}, b.Disliked)
	assert.Equal(t, []string{}, b.Pool)

	explicit := Buckets{Loved: []string{}, Liked: []string{"Alex"}}.WithDefaults()
	assert.Empty(t, explicit.Loved)
	assert.NotNil(t, explicit.Loved)
	assert.Equal(t, []string{"Alex"}, explicit.Liked)
}

func TestTagIndex_Resolve(t *testing.T) {
	ix := NewTagIndex(newMemStore().tags)

	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{name: "known", names: []string{"Drama", "Loved"}, want: []string{"t-drama", "t-loved"}},
		{name: "unknown dropped", names: []string{"Nope", "Cozy", "Also nope"}, want: []string{"t-cozy"}},
		{name: "all unknown", names: []string{"Nope"}, want: []string{}},
		{name: "nil", names: nil, want: []string{}},
		{name: "case sensitive", names: []string{"drama"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ix.Resolve(tt.names))
		})
	}
}

func TestFilterAll(t *testing.T) {
	m := newMemStore()
	a := m.addShow("A", domain.StatusToWatch, "Drama", "Cozy")
	b := m.addShow("B", domain.StatusToWatch, "Drama")
	m.addShow("C", domain.StatusToWatch)
	d := m.addShow("D", domain.StatusToWatch, "Cozy", "Scifi", "Drama")
	all := m.shows

	assert.Equal(t, []*domain.Show{a, b, d}, FilterAll(all, []string{"t-drama"}, false))
	assert.Equal(t, []*domain.Show{a, d}, FilterAll(all, []string{"t-drama", "t-cozy"}, false), "intersection, not union")
	assert.Empty(t, FilterAll(all, []string{"t-alex"}, false))

	assert.Equal(t, []*domain.Show{}, FilterAll(all, nil, false), "empty ids select nothing for sentiment buckets")
	assert.Equal(t, all, FilterAll(all, nil, true), "empty ids keep everything for the pool")
}

// For a pool filter T over a to-watch set W, the pool is exactly {w in W : tags(w) ⊇ T}.
func TestSelect_PoolIsSuperset(t *testing.T) {
	m := newMemStore()
	m.addShow("Watched Drama", domain.StatusWatched, "Drama", "Loved")
	w1 := m.addShow("W1", domain.StatusToWatch, "Drama", "Cozy")
	w2 := m.addShow("W2", domain.StatusToWatch, "Drama")
	m.addShow("Watching", domain.StatusWatching, "Drama", "Cozy")
	w3 := m.addShow("W3", domain.StatusToWatch, "Cozy", "Drama", "Alex")
	ix := NewTagIndex(m.tags)

	sel := Select(m.shows, ix, Buckets{Pool: []string{"Drama", "Cozy"}}.WithDefaults())
	assert.Equal(t, []*domain.Show{w1, w3}, sel.Pool)

	sel = Select(m.shows, ix, Buckets{}.WithDefaults())
	assert.Equal(t, []*domain.Show{w1, w2, w3}, sel.Pool)
	assert.Equal(t, sel.ToWatch, sel.Pool)
	assert.Equal(t, []string{"Watched Drama"}, Titles(sel.Loved))
}

func TestSelect_UnknownNames(t *testing.T) {
	m := newMemStore()
	m.addShow("A", domain.StatusToWatch, "Loved")
	ix := NewTagIndex(m.tags)

	sel := Select(m.shows, ix, Buckets{Loved: []string{"Adored"}, Pool: []string{"Nope"}}.WithDefaults())
	assert.Empty(t, sel.Loved)
	assert.Empty(t, sel.Pool, "pool filters that are all unknown match nothing")

	sel = Select(m.shows, ix, Buckets{Pool: []string{"Nope", "Loved"}}.WithDefaults())
	assert.Equal(t, []string{"A"}, Titles(sel.Pool), "unknown names are dropped from a partially known filter")
}
