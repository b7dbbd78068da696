package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/errors"
	"github.com/couchqueue/couchqueue-server/internal/id"
	"github.com/couchqueue/couchqueue-server/internal/store"
	"github.com/couchqueue/couchqueue-server/internal/validation"
)

// HouseholdService manages households, their members and pending invitations.
type HouseholdService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewHouseholdService creates a new household service.
func NewHouseholdService(s store.Store, v *validation.Validator, logger *slog.Logger) *HouseholdService {
	return &HouseholdService{store: s, validator: v, logger: logger}
}

// HouseholdView is a household as seen by one of its members.
type HouseholdView struct {
	Household       *domain.Household    `json:"household"`
	Members         []*domain.Member     `json:"members"`
	Invitations     []*domain.Invitation `json:"invitations"`
	CurrentUserRole domain.Role          `json:"current_user_role"`
	CurrentUserID   string               `json:"current_user_id"`
	CurrentMemberID string               `json:"current_member_id"`
}

// CreateHouseholdRequest names a new household.
type CreateHouseholdRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	DisplayName string `json:"display_name" validate:"max=100"`
}

// InviteRequest names the address to invite.
type InviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// JoinRequest accepts an invitation.
type JoinRequest struct {
	Token       string `json:"token" validate:"required"`
	DisplayName string `json:"display_name" validate:"max=100"`
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Membership resolves the caller's membership. A user without a household gets 404.
func (s *HouseholdService) Membership(ctx context.Context, userID string) (*domain.Member, error) {
	m, err := s.store.GetMemberByUserID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.NotFound("No household found")
	}
	return m, err
}

// Get returns the caller's household with members and invitations.
func (s *HouseholdService) Get(ctx context.Context, m *domain.Member) (*HouseholdView, error) {
	h, err := s.store.GetHousehold(ctx, m.HouseholdID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, m.HouseholdID)
	if err != nil {
		return nil, err
	}
	invitations, err := s.store.ListInvitations(ctx, m.HouseholdID)
	if err != nil {
		return nil, err
	}

	return &HouseholdView{
		Household:       h,
		Members:         members,
		Invitations:     invitations,
		CurrentUserRole: m.Role,
		CurrentUserID:   m.UserID,
		CurrentMemberID: m.ID,
	}, nil
}

// Create makes a new household owned by userID.
func (s *HouseholdService) Create(ctx context.Context, userID string, req CreateHouseholdRequest) (*domain.Household, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = NormalizeEmail(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	h := &domain.Household{
		ID:        id.MustGenerate(id.PrefixHousehold),
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	owner := &domain.Member{
		ID:          id.MustGenerate(id.PrefixMember),
		UserID:      userID,
		Email:       req.Email,
		DisplayName: strings.TrimSpace(req.DisplayName),
		CreatedAt:   now,
	}

	if err := s.store.CreateHousehold(ctx, h, owner); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Conflict("You already belong to a household")
		}
		return nil, err
	}

	s.logger.Info("household created", "household_id", h.ID, "user_id", userID)
	return h, nil
}

// Rename changes the household name. Owners only.
func (s *HouseholdService) Rename(ctx context.Context, m *domain.Member, name string) (*domain.Household, error) {
	if !m.IsOwner() {
		return nil, errors.Forbidden("Only owners can update household")
	}
	name = strings.TrimSpace(name)
	if err := s.validator.Var("name", name, "required,max=100"); err != nil {
		return nil, err
	}
	return s.store.RenameHousehold(ctx, m.HouseholdID, name)
}

// Invite creates a pending invitation. Owners only.
func (s *HouseholdService) Invite(ctx context.Context, m *domain.Member, req InviteRequest) (*domain.Invitation, error) {
	if !m.IsOwner() {
		return nil, errors.Forbidden("Only owners can invite members")
	}
	req.Email = NormalizeEmail(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	isMember, err := s.store.MemberEmailExists(ctx, m.HouseholdID, req.Email)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, errors.Conflict("User is already a member")
	}

	inv := &domain.Invitation{
		ID:          id.MustGenerate(id.PrefixInvitation),
		HouseholdID: m.HouseholdID,
		Email:       req.Email,
		Token:       id.NewToken(),
		InvitedBy:   m.UserID,
		CreatedAt:   time.Now(),
	}
	if err := s.store.CreateInvitation(ctx, inv); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Conflict("Invitation already sent")
		}
		return nil, err
	}

	s.logger.Info("invitation created", "household_id", m.HouseholdID, "invitation_id", inv.ID)
	return inv, nil
}

// RevokeInvite deletes a pending invitation. Owners only.
func (s *HouseholdService) RevokeInvite(ctx context.Context, m *domain.Member, invitationID string) error {
	if !m.IsOwner() {
		return errors.Forbidden("Only owners can remove invitations")
	}
	err := s.store.DeleteInvitation(ctx, m.HouseholdID, invitationID)
	if errors.Is(err, store.ErrNotFound) {
		return errors.NotFound("Invitation not found")
	}
	return err
}

// Join accepts an invitation on behalf of userID.
func (s *HouseholdService) Join(ctx context.Context, userID string, req JoinRequest) (*domain.Member, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	m := &domain.Member{
		ID:          id.MustGenerate(id.PrefixMember),
		UserID:      userID,
		DisplayName: strings.TrimSpace(req.DisplayName),
		CreatedAt:   time.Now(),
	}
	inv, err := s.store.AcceptInvitation(ctx, strings.TrimSpace(req.Token), m)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, errors.NotFound("Invitation not found")
	case errors.Is(err, store.ErrAlreadyExists):
		return nil, errors.Conflict("You already belong to a household")
	case err != nil:
		return nil, err
	}

	s.logger.Info("invitation accepted", "household_id", inv.HouseholdID, "user_id", userID)
	return m, nil
}

// RemoveMember removes a member. Owners only; an owner cannot remove themselves or another owner.
func (s *HouseholdService) RemoveMember(ctx context.Context, m *domain.Member, memberID string) error {
	if !m.IsOwner() {
		return errors.Forbidden("Only owners can remove members")
	}

	target, err := s.store.GetMember(ctx, m.HouseholdID, memberID)
	if errors.Is(err, store.ErrNotFound) {
		return errors.NotFound("Member not found")
	}
	if err != nil {
		return err
	}
	if target.UserID == m.UserID {
		return errors.Validation("You can't remove yourself")
	}
	if target.IsOwner() {
		return errors.Validation("You can't remove another owner")
	}

	if err := s.store.DeleteMember(ctx, m.HouseholdID, memberID); err != nil {
		return err
	}
	s.logger.Info("member removed", "household_id", m.HouseholdID, "member_id", memberID)
	return nil
}
