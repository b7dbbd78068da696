package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/store"
)

const memberColumns = `id, household_id, user_id, email, display_name, role, created_at`

func scanMember(scanner interface{ Scan(dest ...any) error }) (*domain.Member, error) {
	var (
		m           domain.Member
		displayName sql.NullString
		role        string
		createdAt   string
	)
	if err := scanner.Scan(&m.ID, &m.HouseholdID, &m.UserID, &m.Email, &displayName, &role, &createdAt); err != nil {
		return nil, err
	}
	m.DisplayName = displayName.String
	m.Role = domain.Role(role)

	var err error
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateHousehold inserts a household together with its owning member.
// Returns store.ErrAlreadyExists if the owner already belongs to a household.
func (s *Store) CreateHousehold(ctx context.Context, h *domain.Household, owner *domain.Member) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO households (id, name, created_at, updated_at)
			VALUES (?, ?, ?, ?)`,
			h.ID, h.Name, formatTime(h.CreatedAt), formatTime(h.UpdatedAt),
		); err != nil {
			return fmt.Errorf("insert household: %w", err)
		}

		owner.HouseholdID = h.ID
		owner.Role = domain.RoleOwner
		return insertMember(ctx, tx, owner)
	})
}

func insertMember(ctx context.Context, tx *sql.Tx, m *domain.Member) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO household_members (id, household_id, user_id, email, display_name, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.HouseholdID, m.UserID, m.Email, nullString(m.DisplayName), string(m.Role), formatTime(m.CreatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("user already belongs to a household")
	}
	return err
}

// GetHousehold retrieves a household by ID.
func (s *Store) GetHousehold(ctx context.Context, householdID string) (*domain.Household, error) {
	var (
		h                    domain.Household
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM households WHERE id = ?`, householdID,
	).Scan(&h.ID, &h.Name, &createdAt, &updatedAt)
	if isNoRows(err) {
		return nil, store.NotFound("household")
	}
	if err != nil {
		return nil, err
	}

	if h.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if h.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &h, nil
}

// RenameHousehold updates the household name.
func (s *Store) RenameHousehold(ctx context.Context, householdID, name string) (*domain.Household, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE households SET name = ?, updated_at = ? WHERE id = ?`,
		name, formatTime(time.Now()), householdID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, store.NotFound("household")
	}
	return s.GetHousehold(ctx, householdID)
}

// GetMemberByUserID returns the membership of a user.
// Returns store.ErrNotFound if the user has no household.
func (s *Store) GetMemberByUserID(ctx context.Context, userID string) (*domain.Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM household_members WHERE user_id = ?`, userID)
	m, err := scanMember(row)
	if isNoRows(err) {
		return nil, store.NotFound("membership")
	}
	return m, err
}

// GetMember returns a member of the household by member ID.
func (s *Store) GetMember(ctx context.Context, householdID, memberID string) (*domain.Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM household_members WHERE id = ? AND household_id = ?`, memberID, householdID)
	m, err := scanMember(row)
	if isNoRows(err) {
		return nil, store.NotFound("member")
	}
	return m, err
}

// ListMembers returns household members, owners first, then by join time.
func (s *Store) ListMembers(ctx context.Context, householdID string) ([]*domain.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+memberColumns+` FROM household_members
		WHERE household_id = ?
		ORDER BY CASE role WHEN 'owner' THEN 0 ELSE 1 END, created_at ASC`, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []*domain.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// MemberEmailExists reports whether a member of the household uses email.
func (s *Store) MemberEmailExists(ctx context.Context, householdID, email string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM household_members WHERE household_id = ? AND lower(email) = lower(?)`,
		householdID, email).Scan(&n)
	return n > 0, err
}

// DeleteMember removes a member from the household.
func (s *Store) DeleteMember(ctx context.Context, householdID, memberID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM household_members WHERE id = ? AND household_id = ?`, memberID, householdID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.NotFound("member")
	}
	return nil
}

const invitationColumns = `id, household_id, email, token, invited_by, created_at`

func scanInvitation(scanner interface{ Scan(dest ...any) error }) (*domain.Invitation, error) {
	var (
		inv       domain.Invitation
		createdAt string
	)
	if err := scanner.Scan(&inv.ID, &inv.HouseholdID, &inv.Email, &inv.Token, &inv.InvitedBy, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if inv.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

// CreateInvitation stores a pending invitation.
// Returns store.ErrAlreadyExists when the email is already invited to the household.
func (s *Store) CreateInvitation(ctx context.Context, inv *domain.Invitation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO household_invitations (id, household_id, email, token, invited_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.HouseholdID, inv.Email, inv.Token, inv.InvitedBy, formatTime(inv.CreatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("invitation already exists")
	}
	return err
}

// ListInvitations returns the household's pending invitations, newest first.
func (s *Store) ListInvitations(ctx context.Context, householdID string) ([]*domain.Invitation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+invitationColumns+` FROM household_invitations
		WHERE household_id = ?
		ORDER BY created_at DESC`, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := []*domain.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

// DeleteInvitation revokes a pending invitation.
func (s *Store) DeleteInvitation(ctx context.Context, householdID, invitationID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM household_invitations WHERE id = ? AND household_id = ?`, invitationID, householdID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.NotFound("invitation")
	}
	return nil
}

// AcceptInvitation turns the invitation identified by token into a membership.
// The member's household and role are filled from the invitation.
func (s *Store) AcceptInvitation(ctx context.Context, token string, m *domain.Member) (*domain.Invitation, error) {
	var inv *domain.Invitation
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT `+invitationColumns+` FROM household_invitations WHERE token = ?`, token)
		var err error
		inv, err = scanInvitation(row)
		if isNoRows(err) {
			return store.NotFound("invitation")
		}
		if err != nil {
			return err
		}

		m.HouseholdID = inv.HouseholdID
		m.Role = domain.RoleMember
		if m.Email == "" {
			m.Email = inv.Email
		}
		if err := insertMember(ctx, tx, m); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM household_invitations WHERE id = ?`, inv.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}
