package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/errors"
	"github.com/couchqueue/couchqueue-server/internal/id"
	"github.com/couchqueue/couchqueue-server/internal/metadata/omdb"
	"github.com/couchqueue/couchqueue-server/internal/store"
	"github.com/couchqueue/couchqueue-server/internal/validation"
)

// defaultRefreshSpacing is the pause between rating lookups in a bulk refresh.
const defaultRefreshSpacing = 250 * time.Millisecond

// ShowService manages a household's watchlist.
type ShowService struct {
	store     store.Store
	catalog   Catalog
	ratings   RatingsSource
	summaries Summarizer
	validator *validation.Validator
	logger    *slog.Logger

	refreshSpacing time.Duration
}

// NewShowService creates a new show service.
func NewShowService(
	s store.Store,
	catalog Catalog,
	ratings RatingsSource,
	summaries Summarizer,
	v *validation.Validator,
	logger *slog.Logger,
) *ShowService {
	return &ShowService{
		store:          s,
		catalog:        catalog,
		ratings:        ratings,
		summaries:      summaries,
		validator:      v,
		logger:         logger,
		refreshSpacing: defaultRefreshSpacing,
	}
}

// AddShowRequest is the catalog entry a member adds to the list.
type AddShowRequest struct {
	TMDBID    int64             `json:"tmdb_id" validate:"required,gt=0"`
	Title     string            `json:"title" validate:"required,max=500"`
	Type      domain.MediaType  `json:"type" validate:"required,oneof=movie tv"`
	PosterURL string            `json:"poster_url"`
	Year      *int              `json:"year"`
	Overview  string            `json:"overview"`
	Status    domain.ShowStatus `json:"status" validate:"omitempty,oneof=to_watch watching watched"`
}

// UpdateShowRequest carries a partial show update. Nil fields are left unchanged.
type UpdateShowRequest struct {
	Status    *domain.ShowStatus `json:"status" validate:"omitempty,oneof=to_watch watching watched"`
	Comment   *string            `json:"comment" validate:"omitempty,max=2000"`
	AISummary *string            `json:"ai_summary"`
}

// RefreshResult reports a bulk ratings refresh.
type RefreshResult struct {
	Message string   `json:"message"`
	Updated int      `json:"updated"`
	Total   int      `json:"total"`
	Errors  []string `json:"errors,omitempty"`
}

// enrichment is what AddShow gathers from upstream before inserting.
type enrichment struct {
	providers []string
	ratings   *omdb.Ratings
	genres    []string
}

// ListShows returns the household's shows, newest first, with tags.
func (s *ShowService) ListShows(ctx context.Context, householdID string) ([]*domain.Show, error) {
	return s.store.ListShows(ctx, householdID)
}

// GetShow returns one show with its tags.
func (s *ShowService) GetShow(ctx context.Context, householdID, showID string) (*domain.Show, error) {
	sh, err := s.store.GetShow(ctx, householdID, showID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.NotFound("Show not found")
	}
	return sh, err
}

// AddShow adds a catalog title to the household's list.
// Providers, ratings and genre tags are fetched in parallel; each degrades to empty on failure.
func (s *ShowService) AddShow(ctx context.Context, householdID string, req AddShowRequest) (*domain.Show, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Status == "" {
		req.Status = domain.StatusToWatch
	}

	exists, err := s.store.ShowExistsByTMDBID(ctx, householdID, req.TMDBID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("Show already in your list")
	}

	enr := s.enrich(ctx, req)

	now := time.Now()
	sh := &domain.Show{
		ID:                id.MustGenerate(id.PrefixShow),
		HouseholdID:       householdID,
		TMDBID:            req.TMDBID,
		Title:             req.Title,
		Type:              req.Type,
		PosterURL:         req.PosterURL,
		Year:              req.Year,
		Overview:          req.Overview,
		Status:            req.Status,
		StreamingServices: enr.providers,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if enr.ratings != nil {
		sh.IMDBRating = enr.ratings.IMDBRating
		sh.RottenTomatoesScore = enr.ratings.RottenTomatoesScore
		sh.IMDBID = enr.ratings.IMDBID
	}

	if err := s.store.CreateShow(ctx, sh); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Conflict("Show already in your list")
		}
		return nil, err
	}

	if len(enr.genres) > 0 {
		s.applyGenreTags(ctx, householdID, sh.ID, enr.genres)
	}

	s.logger.Info("show added",
		"household_id", householdID,
		"show_id", sh.ID,
		"tmdb_id", sh.TMDBID,
		"providers", len(sh.StreamingServices),
		"genres", len(enr.genres),
	)

	return s.store.GetShow(ctx, householdID, sh.ID)
}

func (s *ShowService) enrich(ctx context.Context, req AddShowRequest) enrichment {
	var enr enrichment

	p := pool.New().WithMaxGoroutines(3)
	p.Go(func() {
		enr.providers = s.catalog.GetWatchProviders(ctx, req.Type, req.TMDBID)
	})
	p.Go(func() {
		r, err := s.ratings.GetRatings(ctx, req.Title, req.Year, req.Type)
		if err != nil {
			s.logger.Warn("ratings lookup failed", "title", req.Title, "error", err)
			return
		}
		enr.ratings = r
	})
	p.Go(func() {
		enr.genres = s.catalog.GetGenreTags(ctx, req.Type, req.TMDBID)
	})
	p.Wait()

	if enr.providers == nil {
		enr.providers = []string{}
	}
	return enr
}

// applyGenreTags attaches the visible tags whose names match the genres.
func (s *ShowService) applyGenreTags(ctx context.Context, householdID, showID string, genres []string) {
	tags, err := s.store.FindTagsByName(ctx, householdID, genres)
	if err != nil {
		s.logger.Warn("genre tag lookup failed", "show_id", showID, "error", err)
		return
	}
	if len(tags) == 0 {
		return
	}

	ids := make([]string, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	if err := s.store.AddShowTags(ctx, showID, ids...); err != nil {
		s.logger.Warn("failed to apply genre tags", "show_id", showID, "error", err)
	}
}

// UpdateShow applies a partial update.
func (s *ShowService) UpdateShow(ctx context.Context, householdID, showID string, req UpdateShowRequest) (*domain.Show, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	u := domain.ShowUpdate{Status: req.Status, Comment: req.Comment, AISummary: req.AISummary}
	if u.IsEmpty() {
		return nil, errors.Validation("Nothing to update")
	}

	sh, err := s.store.UpdateShow(ctx, householdID, showID, u)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.NotFound("Show not found")
	}
	return sh, err
}

// DeleteShow removes a show and its tag links.
func (s *ShowService) DeleteShow(ctx context.Context, householdID, showID string) error {
	err := s.store.DeleteShow(ctx, householdID, showID)
	if errors.Is(err, store.ErrNotFound) {
		return errors.NotFound("Show not found")
	}
	return err
}

// AddTag links a tag to a show. Linking an already linked tag succeeds.
func (s *ShowService) AddTag(ctx context.Context, householdID, showID, tagID string) error {
	if _, err := s.GetShow(ctx, householdID, showID); err != nil {
		return err
	}

	tag, err := s.store.GetTag(ctx, tagID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !tag.VisibleTo(householdID)) {
		return errors.NotFound("Tag not found")
	}
	if err != nil {
		return err
	}

	return s.store.AddShowTags(ctx, showID, tagID)
}

// RemoveTag unlinks a tag from a show.
func (s *ShowService) RemoveTag(ctx context.Context, householdID, showID, tagID string) error {
	if _, err := s.GetShow(ctx, householdID, showID); err != nil {
		return err
	}
	return s.store.RemoveShowTag(ctx, showID, tagID)
}

// RefreshRatings re-fetches ratings for every show in the household, one at a time.
// Per-show failures are collected rather than aborting the run.
func (s *ShowService) RefreshRatings(ctx context.Context, householdID string) (*RefreshResult, error) {
	shows, err := s.store.ListShows(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if len(shows) == 0 {
		return &RefreshResult{Message: "No shows to update"}, nil
	}

	res := &RefreshResult{Total: len(shows)}
	for i, sh := range shows {
		if i > 0 && s.refreshSpacing > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.refreshSpacing):
			}
		}

		r, err := s.ratings.GetRatings(ctx, sh.Title, sh.Year, sh.Type)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Error fetching ratings for %s: %v", sh.Title, err))
			continue
		}
		if r.IMDBRating == nil && r.RottenTomatoesScore == nil && r.IMDBID == "" {
			continue
		}

		err = s.store.UpdateShowRatings(ctx, householdID, sh.ID, domain.RatingsUpdate{
			IMDBRating:          r.IMDBRating,
			RottenTomatoesScore: r.RottenTomatoesScore,
			IMDBID:              r.IMDBID,
		})
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Failed to update %s: %v", sh.Title, err))
			continue
		}
		res.Updated++
	}

	res.Message = fmt.Sprintf("Updated ratings for %d of %d shows", res.Updated, res.Total)
	s.logger.Info("ratings refreshed",
		"household_id", householdID,
		"updated", res.Updated,
		"total", res.Total,
		"errors", len(res.Errors),
	)
	return res, nil
}

// Trailer returns the YouTube key of the show's trailer.
func (s *ShowService) Trailer(ctx context.Context, householdID, showID string) (string, error) {
	sh, err := s.GetShow(ctx, householdID, showID)
	if err != nil {
		return "", err
	}

	key, err := s.catalog.GetTrailerKey(ctx, sh.Type, sh.TMDBID)
	if err != nil {
		s.logger.Debug("no trailer", "show_id", showID, "tmdb_id", sh.TMDBID, "error", err)
		return "", errors.NotFound("No trailer found")
	}
	return key, nil
}

// Summarize generates a short summary for the show and stores it.
func (s *ShowService) Summarize(ctx context.Context, householdID, showID string) (string, error) {
	sh, err := s.GetShow(ctx, householdID, showID)
	if err != nil {
		return "", err
	}

	summary, err := s.summaries.Summarize(ctx, sh.Title, sh.Overview, sh.Type)
	if err != nil {
		s.logger.Error("summary generation failed", "show_id", showID, "error", err)
		return "", errors.Wrap(err, errors.CodeInternal, "Failed to generate summary")
	}

	if _, err := s.store.UpdateShow(ctx, householdID, showID, domain.ShowUpdate{AISummary: &summary}); err != nil {
		return "", err
	}
	return summary, nil
}
