package recommend

import (
	"github.com/couchqueue/couchqueue-server/internal/domain"
)

// Buckets holds the tag names that select each group of shows.
// A nil slice means "use the default"; an empty, non-nil slice is an explicit empty selection.
type Buckets struct {
	Loved    []string
	Liked    []string
	Disliked []string
	Pool     []string
}

// WithDefaults fills unspecified buckets with the canonical sentiment tags.
// The pool defaults to no filter.
func (b Buckets) WithDefaults() Buckets {
	if b.Loved == nil {
		b.Loved = []string{domain.TagLoved}
	}
	if b.Liked == nil {
		b.Liked = []string{domain.TagLiked}
	}
	if b.Disliked == nil {
		b.Disliked = []string{domain.TagDidntLike}
	}
	if b.Pool == nil {
		b.Pool = []string{}
	}
	return b
}

// TagIndex maps tag names to IDs for one household's visible tags.
type TagIndex struct {
	byName map[string]string
}

// NewTagIndex builds an index from a full tag listing. The first tag with a given name wins.
func NewTagIndex(tags []*domain.Tag) *TagIndex {
	ix := &TagIndex{byName: make(map[string]string, len(tags))}
	for _, t := range tags {
		if _, ok := ix.byName[t.Name]; !ok {
			ix.byName[t.Name] = t.ID
		}
	}
	return ix
}

// Resolve returns the IDs of the known names in input order. Unknown names are dropped.
func (ix *TagIndex) Resolve(names []string) []string {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		if id, ok := ix.byName[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// FilterAll keeps the shows carrying every tag in ids, preserving order.
// With no ids the result is empty, or the input unchanged when emptyMeansAll is set.
func FilterAll(shows []*domain.Show, ids []string, emptyMeansAll bool) []*domain.Show {
	if len(ids) == 0 {
		if emptyMeansAll {
			return shows
		}
		return []*domain.Show{}
	}

	out := make([]*domain.Show, 0, len(shows))
	for _, s := range shows {
		if s.HasAllTags(ids) {
			out = append(out, s)
		}
	}
	return out
}

// ToWatch returns the shows not yet started, preserving order.
func ToWatch(shows []*domain.Show) []*domain.Show {
	out := make([]*domain.Show, 0, len(shows))
	for _, s := range shows {
		if s.Status == domain.StatusToWatch {
			out = append(out, s)
		}
	}
	return out
}

// Selection is the set of shows in each bucket.
type Selection struct {
	Loved    []*domain.Show
	Liked    []*domain.Show
	Disliked []*domain.Show
	ToWatch  []*domain.Show
	Pool     []*domain.Show
}

// Select resolves the buckets against the index and groups the shows.
// Pool names that are given but all unknown select nothing.
func Select(shows []*domain.Show, ix *TagIndex, b Buckets) Selection {
	sel := Selection{
		Loved:    FilterAll(shows, ix.Resolve(b.Loved), false),
		Liked:    FilterAll(shows, ix.Resolve(b.Liked), false),
		Disliked: FilterAll(shows, ix.Resolve(b.Disliked), false),
		ToWatch:  ToWatch(shows),
	}

	poolIDs := ix.Resolve(b.Pool)
	if len(b.Pool) > 0 && len(poolIDs) == 0 {
		sel.Pool = []*domain.Show{}
	} else {
		sel.Pool = FilterAll(sel.ToWatch, poolIDs, true)
	}
	return sel
}

// Titles lists the show titles in order.
func Titles(shows []*domain.Show) []string {
	out := make([]string, len(shows))
	for i, s := range shows {
		out[i] = s.Title
	}
	return out
}
