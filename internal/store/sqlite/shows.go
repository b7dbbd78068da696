package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/store"
)

var _ store.Store = (*Store)(nil)

// showColumns is the ordered list of columns selected in show queries.
// Must match the scan order in scanShow.
const showColumns = `id, household_id, tmdb_id, title, type, poster_url, year, overview, status,
	imdb_rating, rotten_tomatoes_score, imdb_id, streaming_services, comment, ai_summary,
	created_at, updated_at`

func scanShow(scanner interface{ Scan(dest ...any) error }) (*domain.Show, error) {
	var (
		sh                   domain.Show
		mediaType, status    string
		posterURL, overview  sql.NullString
		imdbID, comment      sql.NullString
		aiSummary            sql.NullString
		year, rtScore        sql.NullInt64
		imdbRating           sql.NullFloat64
		services             string
		createdAt, updatedAt string
	)

	err := scanner.Scan(
		&sh.ID, &sh.HouseholdID, &sh.TMDBID, &sh.Title, &mediaType, &posterURL, &year, &overview, &status,
		&imdbRating, &rtScore, &imdbID, &services, &comment, &aiSummary,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	sh.Type = domain.MediaType(mediaType)
	sh.Status = domain.ShowStatus(status)
	sh.PosterURL = posterURL.String
	sh.Overview = overview.String
	sh.IMDBID = imdbID.String
	sh.Comment = comment.String
	sh.AISummary = aiSummary.String
	sh.Year = intPtr(year)
	sh.RottenTomatoesScore = intPtr(rtScore)
	sh.IMDBRating = floatPtr(imdbRating)
	sh.Tags = []*domain.Tag{}

	if sh.StreamingServices, err = decodeList(services); err != nil {
		return nil, err
	}
	if sh.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sh.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &sh, nil
}

// CreateShow inserts a show.
// Returns store.ErrAlreadyExists when the household already lists the catalog id.
func (s *Store) CreateShow(ctx context.Context, sh *domain.Show) error {
	services, err := encodeList(sh.StreamingServices)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO shows (`+showColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sh.ID, sh.HouseholdID, sh.TMDBID, sh.Title, string(sh.Type), nullString(sh.PosterURL),
		nullInt(sh.Year), nullString(sh.Overview), string(sh.Status),
		nullFloat(sh.IMDBRating), nullInt(sh.RottenTomatoesScore), nullString(sh.IMDBID), services,
		nullString(sh.Comment), nullString(sh.AISummary),
		formatTime(sh.CreatedAt), formatTime(sh.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("show already in list")
	}
	return err
}

// GetShow retrieves a household's show with its tags.
func (s *Store) GetShow(ctx context.Context, householdID, showID string) (*domain.Show, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+showColumns+` FROM shows WHERE id = ? AND household_id = ?`, showID, householdID)
	sh, err := scanShow(row)
	if isNoRows(err) {
		return nil, store.NotFound("show")
	}
	if err != nil {
		return nil, err
	}

	if err := s.attachTags(ctx, []*domain.Show{sh}); err != nil {
		return nil, err
	}
	return sh, nil
}

// ShowExistsByTMDBID reports whether the household already lists the catalog id.
func (s *Store) ShowExistsByTMDBID(ctx context.Context, householdID string, tmdbID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shows WHERE household_id = ? AND tmdb_id = ?`, householdID, tmdbID).Scan(&n)
	return n > 0, err
}

// ListShows returns every show of the household with tags, newest first.
// The order is stable and is the fetch order used by recommendation buckets.
func (s *Store) ListShows(ctx context.Context, householdID string) ([]*domain.Show, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+showColumns+` FROM shows
		WHERE household_id = ?
		ORDER BY created_at DESC, rowid DESC`, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shows := []*domain.Show{}
	for rows.Next() {
		sh, err := scanShow(rows)
		if err != nil {
			return nil, err
		}
		shows = append(shows, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachTags(ctx, shows); err != nil {
		return nil, err
	}
	return shows, nil
}

// attachTags loads tags for the given shows with a single join query.
func (s *Store) attachTags(ctx context.Context, shows []*domain.Show) error {
	if len(shows) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Show, len(shows))
	args := make([]any, 0, len(shows))
	for _, sh := range shows {
		byID[sh.ID] = sh
		args = append(args, sh.ID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT st.show_id, `+prefixed("t", tagColumns)+`
		FROM show_tags st
		JOIN tags t ON t.id = st.tag_id
		WHERE st.show_id IN (`+placeholders(len(args))+`)
		ORDER BY st.created_at ASC, t.name ASC`, args...)
	if err != nil {
		return fmt.Errorf("load show tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var showID string
		t, err := scanTag(prefixScanner{rows, &showID})
		if err != nil {
			return err
		}
		if sh := byID[showID]; sh != nil {
			sh.Tags = append(sh.Tags, t)
		}
	}
	return rows.Err()
}

// UpdateShow applies the non-nil fields of u and returns the updated show.
func (s *Store) UpdateShow(ctx context.Context, householdID, showID string, u domain.ShowUpdate) (*domain.Show, error) {
	sets := []string{"updated_at = ?"}
	args := []any{formatTime(time.Now())}

	if u.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*u.Status))
	}
	if u.Comment != nil {
		sets = append(sets, "comment = ?")
		args = append(args, nullString(*u.Comment))
	}
	if u.AISummary != nil {
		sets = append(sets, "ai_summary = ?")
		args = append(args, nullString(*u.AISummary))
	}

	args = append(args, showID, householdID)
	res, err := s.db.ExecContext(ctx,
		`UPDATE shows SET `+strings.Join(sets, ", ")+` WHERE id = ? AND household_id = ?`, args...)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, store.NotFound("show")
	}
	return s.GetShow(ctx, householdID, showID)
}

// UpdateShowRatings replaces the rating fields of a show.
func (s *Store) UpdateShowRatings(ctx context.Context, householdID, showID string, r domain.RatingsUpdate) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE shows
		SET imdb_rating = ?, rotten_tomatoes_score = ?, imdb_id = ?, updated_at = ?
		WHERE id = ? AND household_id = ?`,
		nullFloat(r.IMDBRating), nullInt(r.RottenTomatoesScore), nullString(r.IMDBID), formatTime(time.Now()),
		showID, householdID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.NotFound("show")
	}
	return nil
}

// DeleteShow removes a show; its tag associations cascade.
func (s *Store) DeleteShow(ctx context.Context, householdID, showID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM shows WHERE id = ? AND household_id = ?`, showID, householdID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.NotFound("show")
	}
	return nil
}

// AddShowTags associates tags with a show. Existing pairs are left as they are.
func (s *Store) AddShowTags(ctx context.Context, showID string, tagIDs ...string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	now := formatTime(time.Now())
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, tagID := range tagIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO show_tags (show_id, tag_id, created_at) VALUES (?, ?, ?)`,
				showID, tagID, now,
			); err != nil {
				return fmt.Errorf("insert show tag %s: %w", tagID, err)
			}
		}
		return nil
	})
}

// RemoveShowTag removes a tag from a show. Removing an absent pair is not an error.
func (s *Store) RemoveShowTag(ctx context.Context, showID, tagID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM show_tags WHERE show_id = ? AND tag_id = ?`, showID, tagID)
	return err
}

// prefixScanner scans a leading column into head before delegating the rest.
type prefixScanner struct {
	rows *sql.Rows
	head *string
}

func (p prefixScanner) Scan(dest ...any) error {
	return p.rows.Scan(append([]any{p.head}, dest...)...)
}

// prefixed qualifies a column list with a table alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
