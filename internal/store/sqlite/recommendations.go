package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/id"
	"github.com/couchqueue/couchqueue-server/internal/store"
)

// GetRecommendation returns the household's recommendation record.
// Returns store.ErrNotFound if none has been generated yet.
func (s *Store) GetRecommendation(ctx context.Context, householdID string) (*domain.Recommendation, error) {
	var (
		rec         domain.Recommendation
		quick, deep sql.NullString
		updatedAt   string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, household_id, quick_pick, deep_analysis, updated_at
		FROM recommendations WHERE household_id = ?`, householdID,
	).Scan(&rec.ID, &rec.HouseholdID, &quick, &deep, &updatedAt)
	if isNoRows(err) {
		return nil, store.NotFound("recommendation")
	}
	if err != nil {
		return nil, err
	}

	rec.QuickPick = stringPtr(quick)
	rec.DeepAnalysis = stringPtr(deep)
	if rec.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpsertRecommendation writes one field of the household's recommendation
// record in a single statement. The other field keeps its stored value, or
// stays NULL when the record is new.
func (s *Store) UpsertRecommendation(ctx context.Context, householdID string, field domain.RecommendationField, text string) error {
	// field is interpolated into SQL, so only the two known column names pass.
	if !field.Valid() {
		return store.ErrInvalidInput.WithMessage("unknown recommendation field: " + string(field))
	}

	recID, err := id.Generate(id.PrefixRecommendation)
	if err != nil {
		return err
	}

	col := string(field)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recommendations (id, household_id, `+col+`, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(household_id) DO UPDATE SET
			`+col+` = excluded.`+col+`,
			updated_at = excluded.updated_at`,
		recID, householdID, text, formatTime(time.Now()),
	)
	return err
}
