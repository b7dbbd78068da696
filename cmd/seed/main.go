// Package main seeds the database with a demo household.
//
// It creates one household with a handful of watched and queued shows tagged
// so that a recommendation request has something to work with.
//
// Usage:
//
//	go run ./cmd/seed --data-dir ./data
//	SEED_USER_ID=alice go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/couchqueue/couchqueue-server/internal/color"
	"github.com/couchqueue/couchqueue-server/internal/config"
	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/id"
	"github.com/couchqueue/couchqueue-server/internal/store"
	"github.com/couchqueue/couchqueue-server/internal/store/sqlite"
)

type seedShow struct {
	tmdbID int64
	title  string
	kind   domain.MediaType
	year   int
	status domain.ShowStatus
	tags   []string
}

var demoShows = []seedShow{
	{1396, "Breaking Bad", domain.MediaTV, 2008, domain.StatusWatched, []string{"Loved", "Thriller"}},
	{70523, "Dark", domain.MediaTV, 2017, domain.StatusWatched, []string{"Loved", "Scifi", "Mystery"}},
	{60059, "Better Call Saul", domain.MediaTV, 2015, domain.StatusWatched, []string{"Liked", "Drama"}},
	{136315, "The Bear", domain.MediaTV, 2022, domain.StatusWatched, []string{"Liked", "Comedy"}},
	{1399, "Game of Thrones", domain.MediaTV, 2011, domain.StatusWatched, []string{"Didn't Like", "Fantasy"}},
	{95396, "Severance", domain.MediaTV, 2022, domain.StatusToWatch, []string{"Scifi", "Mystery"}},
	{87108, "Chernobyl", domain.MediaTV, 2019, domain.StatusToWatch, []string{"Drama"}},
	{545611, "Everything Everywhere All at Once", domain.MediaMovie, 2022, domain.StatusToWatch, []string{"Comedy", "Scifi"}},
	{157336, "Interstellar", domain.MediaMovie, 2014, domain.StatusToWatch, []string{"Scifi", "Comfort Watch"}},
	{120, "The Lord of the Rings: The Fellowship of the Ring", domain.MediaMovie, 2001, domain.StatusWatching, []string{"Fantasy", "Comfort Watch"}},
}

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	userID := os.Getenv("SEED_USER_ID")
	if userID == "" {
		userID = "demo-user"
	}

	fmt.Printf("Opening database at: %s\n", cfg.Database.Path)

	s, err := sqlite.Open(cfg.Database.Path, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	m, err := ensureHousehold(ctx, s, userID)
	if err != nil {
		log.Fatalf("Failed to create household: %v", err)
	}
	fmt.Printf("Seeding household %s for user %s\n", m.HouseholdID, userID)

	added := 0
	for _, ss := range demoShows {
		ok, err := seed(ctx, s, m.HouseholdID, ss)
		if err != nil {
			log.Printf("Failed to seed %q: %v", ss.title, err)
			continue
		}
		if ok {
			added++
		}
	}

	fmt.Printf("\nDone. Added %d of %d shows.\n", added, len(demoShows))
	fmt.Printf("Try: curl -X POST -H 'X-User-ID: %s' localhost:%s/api/v1/recommendation\n", userID, cfg.Server.Port)
}

// ensureHousehold returns the user's membership, creating a household when they have none.
func ensureHousehold(ctx context.Context, s *sqlite.Store, userID string) (*domain.Member, error) {
	m, err := s.GetMemberByUserID(ctx, userID)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	h := &domain.Household{
		ID:        id.MustGenerate(id.PrefixHousehold),
		Name:      "Demo Household",
		CreatedAt: now,
		UpdatedAt: now,
	}
	m = &domain.Member{
		ID:          id.MustGenerate(id.PrefixMember),
		UserID:      userID,
		Email:       userID + "@example.com",
		DisplayName: "Demo",
		CreatedAt:   now,
	}
	if err := s.CreateHousehold(ctx, h, m); err != nil {
		return nil, err
	}
	return m, nil
}

// seed inserts one show with its tags, creating household tags as needed.
// It reports false when the household already has the show.
func seed(ctx context.Context, s *sqlite.Store, householdID string, ss seedShow) (bool, error) {
	exists, err := s.ShowExistsByTMDBID(ctx, householdID, ss.tmdbID)
	if err != nil || exists {
		return false, err
	}

	tagIDs := make([]string, 0, len(ss.tags))
	for _, name := range ss.tags {
		tag, err := ensureTag(ctx, s, householdID, name)
		if err != nil {
			return false, err
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	now := time.Now()
	year := ss.year
	sh := &domain.Show{
		ID:          id.MustGenerate(id.PrefixShow),
		HouseholdID: householdID,
		TMDBID:      ss.tmdbID,
		Title:       ss.title,
		Type:        ss.kind,
		Year:        &year,
		Status:      ss.status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.CreateShow(ctx, sh); err != nil {
		return false, err
	}
	if err := s.AddShowTags(ctx, sh.ID, tagIDs...); err != nil {
		return false, err
	}

	fmt.Printf("  + %s (%s) %v\n", ss.title, ss.status, ss.tags)
	return true, nil
}

func ensureTag(ctx context.Context, s *sqlite.Store, householdID, name string) (*domain.Tag, error) {
	found, err := s.FindTagsByName(ctx, householdID, []string{name})
	if err != nil {
		return nil, err
	}
	if len(found) > 0 {
		return found[0], nil
	}

	tag := &domain.Tag{
		ID:          id.MustGenerate(id.PrefixTag),
		HouseholdID: &householdID,
		Name:        name,
		Color:       color.ForTag(name),
		Category:    domain.CategoryGenre,
		CreatedAt:   time.Now(),
	}
	if err := s.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}
