package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/id"
	"github.com/couchqueue/couchqueue-server/internal/store"
)

func makeTestTag(t *testing.T, s *Store, householdID, name string) *domain.Tag {
	t.Helper()
	hid := householdID
	tag := &domain.Tag{
		ID:          id.MustGenerate(id.PrefixTag),
		HouseholdID: &hid,
		Name:        name,
		Color:       "#123456",
		Category:    domain.CategoryWho,
		CreatedAt:   time.Now(),
	}
	if err := s.CreateTag(context.Background(), tag); err != nil {
		t.Fatalf("create tag %q: %v", name, err)
	}
	return tag
}

func TestListTags_GlobalPlusOwn(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	h, _ := makeTestHousehold(t, s, "Home")
	other, _ := makeTestHousehold(t, s, "Other")

	makeTestTag(t, s, h.ID, "Alex")
	makeTestTag(t, s, other.ID, "Sam")

	tags, err := s.ListTags(ctx, h.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	names := make(map[string]bool)
	for _, tag := range tags {
		names[tag.Name] = true
	}
	if !names["Alex"] || !names["Loved"] || !names["Didn't Like"] {
		t.Errorf("missing expected tags: %v", names)
	}
	if names["Sam"] {
		t.Error("other household's tag leaked")
	}

	// Ordered by category then name.
	for i := 1; i < len(tags); i++ {
		prev, cur := tags[i-1], tags[i]
		if prev.Category > cur.Category || (prev.Category == cur.Category && prev.Name > cur.Name) {
			t.Errorf("tags out of order at %d: %s/%s before %s/%s", i, prev.Category, prev.Name, cur.Category, cur.Name)
		}
	}
}

func TestCreateTag_NameConflicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	h, _ := makeTestHousehold(t, s, "Home")
	other, _ := makeTestHousehold(t, s, "Other")

	makeTestTag(t, s, h.ID, "Alex")

	hid := h.ID
	dup := &domain.Tag{ID: "tag-dup", HouseholdID: &hid, Name: "Alex", Color: "#000000", Category: domain.CategoryWho, CreatedAt: time.Now()}
	if err := s.CreateTag(ctx, dup); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists for household duplicate, got %v", err)
	}

	shadow := &domain.Tag{ID: "tag-shadow", HouseholdID: &hid, Name: "Loved", Color: "#000000", Category: domain.CategoryMeta, CreatedAt: time.Now()}
	if err := s.CreateTag(ctx, shadow); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists when shadowing a global tag, got %v", err)
	}

	// Same name in another household is allowed.
	makeTestTag(t, s, other.ID, "Alex")
}

func TestUpdateTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	h, _ := makeTestHousehold(t, s, "Home")
	other, _ := makeTestHousehold(t, s, "Other")
	tag := makeTestTag(t, s, h.ID, "Alex")
	makeTestTag(t, s, h.ID, "Sam")

	name := "Alexandra"
	got, err := s.UpdateTag(ctx, h.ID, tag.ID, domain.TagUpdate{Name: &name})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if got.Name != "Alexandra" || got.Color != "#123456" {
		t.Errorf("unexpected tag: %+v", got)
	}

	taken := "Sam"
	if _, err := s.UpdateTag(ctx, h.ID, tag.ID, domain.TagUpdate{Name: &taken}); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists renaming onto sibling, got %v", err)
	}

	global := "Liked"
	if _, err := s.UpdateTag(ctx, h.ID, tag.ID, domain.TagUpdate{Name: &global}); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists renaming onto global, got %v", err)
	}

	if _, err := s.UpdateTag(ctx, other.ID, tag.ID, domain.TagUpdate{Name: &name}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound from another household, got %v", err)
	}

	color := "#ffffff"
	if _, err := s.UpdateTag(ctx, h.ID, "tag-global-loved", domain.TagUpdate{Color: &color}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("global tags must not be updatable, got %v", err)
	}

	if _, err := s.UpdateTag(ctx, h.ID, tag.ID, domain.TagUpdate{}); !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty update, got %v", err)
	}
}

func TestDeleteTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	h, _ := makeTestHousehold(t, s, "Home")
	tag := makeTestTag(t, s, h.ID, "Alex")

	if err := s.DeleteTag(ctx, h.ID, "tag-global-loved"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("global tag delete should not match, got %v", err)
	}
	if err := s.DeleteTag(ctx, h.ID, tag.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetTag(ctx, tag.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected tag gone, got %v", err)
	}
}

func TestFindTagsByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	h, _ := makeTestHousehold(t, s, "Home")
	makeTestTag(t, s, h.ID, "Alex")

	tags, err := s.FindTagsByName(ctx, h.ID, []string{"Drama", "Alex", "Nope"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}

	empty, err := s.FindTagsByName(ctx, h.ID, nil)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil result, got %v %v", empty, err)
	}
}
