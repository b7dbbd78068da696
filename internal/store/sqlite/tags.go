package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, household_id, name, color, category, created_at`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var (
		t           domain.Tag
		householdID sql.NullString
		category    string
		createdAt   string
	)

	if err := scanner.Scan(&t.ID, &householdID, &t.Name, &t.Color, &category, &createdAt); err != nil {
		return nil, err
	}

	t.HouseholdID = stringPtr(householdID)
	t.Category = domain.TagCategory(category)

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTag inserts a household tag.
// Returns store.ErrAlreadyExists if the name is taken by a global tag or
// another tag of the same household.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (`+tagColumns+`)
		SELECT ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM tags WHERE name = ? AND (household_id IS NULL OR household_id IS ?)
		)`,
		t.ID, nullableString(t.HouseholdID), t.Name, t.Color, string(t.Category), formatTime(t.CreatedAt),
		t.Name, nullableString(t.HouseholdID),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("tag name already exists")
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrAlreadyExists.WithMessage("tag name already exists")
	}
	return nil
}

// GetTag retrieves a tag by its ID regardless of owner.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) GetTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = ?`, tagID)
	t, err := scanTag(row)
	if isNoRows(err) {
		return nil, store.NotFound("tag")
	}
	return t, err
}

// ListTags returns global tags plus the household's own tags, ordered by category then name.
func (s *Store) ListTags(ctx context.Context, householdID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tagColumns+` FROM tags
		WHERE household_id IS NULL OR household_id = ?
		ORDER BY category ASC, name ASC`, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// FindTagsByName returns the tags visible to the household whose names are in names.
func (s *Store) FindTagsByName(ctx context.Context, householdID string, names []string) ([]*domain.Tag, error) {
	if len(names) == 0 {
		return []*domain.Tag{}, nil
	}

	args := make([]any, 0, len(names)+1)
	args = append(args, householdID)
	for _, n := range names {
		args = append(args, n)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tagColumns+` FROM tags
		WHERE (household_id IS NULL OR household_id = ?) AND name IN (`+placeholders(len(names))+`)
		ORDER BY name ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// UpdateTag applies the non-nil fields of u to a household-owned tag.
// Global tags never match, so they report store.ErrNotFound.
func (s *Store) UpdateTag(ctx context.Context, householdID, tagID string, u domain.TagUpdate) (*domain.Tag, error) {
	var (
		sets []string
		args []any
	)
	if u.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *u.Name)
	}
	if u.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *u.Color)
	}
	if u.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, string(*u.Category))
	}
	if len(sets) == 0 {
		return nil, store.ErrInvalidInput.WithMessage("nothing to update")
	}

	query := `UPDATE tags SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND household_id = ?`
	args = append(args, tagID, householdID)

	if u.Name != nil {
		// Renames must not collide with a global tag either.
		query += ` AND NOT EXISTS (SELECT 1 FROM tags WHERE name = ? AND household_id IS NULL)`
		args = append(args, *u.Name)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return nil, store.ErrAlreadyExists.WithMessage("tag name already exists")
	}
	if err != nil {
		return nil, err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		existing, getErr := s.GetTag(ctx, tagID)
		if getErr != nil || existing.HouseholdID == nil || *existing.HouseholdID != householdID {
			return nil, store.NotFound("tag")
		}
		return nil, store.ErrAlreadyExists.WithMessage("tag name already exists")
	}
	return s.GetTag(ctx, tagID)
}

// DeleteTag removes a household-owned tag; its show associations cascade.
func (s *Store) DeleteTag(ctx context.Context, householdID, tagID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tags WHERE id = ? AND household_id = ?`, tagID, householdID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.NotFound("tag")
	}
	return nil
}
