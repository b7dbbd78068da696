package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	"github.com/couchqueue/couchqueue-server/internal/service"
)

func (s *Server) registerHouseholdRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getHousehold",
		Method:      http.MethodGet,
		Path:        "/api/v1/household",
		Summary:     "Get household",
		Description: "Returns the caller's household with members and pending invitations",
		Tags:        []string{"Household"},
		Security:    []map[string][]string{{"household": {}}},
	}, s.handleGetHousehold)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createHousehold",
		Method:        http.MethodPost,
		Path:          "/api/v1/household",
		Summary:       "Create household",
		Description:   "Creates a household owned by the caller. Only for users without one.",
		Tags:          []string{"Household"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"household": {}}},
	}, s.handleCreateHousehold)

	huma.Register(s.api, huma.Operation{
		OperationID: "renameHousehold",
		Method:      http.MethodPatch,
		Path:        "/api/v1/household",
		Summary:     "Rename household",
		Description: "Changes the household name. Owners only.",
		Tags:        []string{"Household"},
		Security:    []map[string][]string{{"household": {}}},
	}, s.handleRenameHousehold)

	huma.Register(s.api, huma.Operation{
		OperationID:   "inviteMember",
		Method:        http.MethodPost,
		Path:          "/api/v1/household/invite",
		Summary:       "Invite member",
		Description:   "Creates an invitation for an email address. Owners only.",
		Tags:          []string{"Household"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"household": {}}},
	}, s.handleInviteMember)

	huma.Register(s.api, huma.Operation{
		OperationID:   "revokeInvitation",
		Method:        http.MethodDelete,
		Path:          "/api/v1/household/invite/{invitationId}",
		Summary:       "Revoke invitation",
		Description:   "Deletes a pending invitation. Owners only.",
		Tags:          []string{"Household"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"household": {}}},
	}, s.handleRevokeInvitation)

	huma.Register(s.api, huma.Operation{
		OperationID: "joinHousehold",
		Method:      http.MethodPost,
		Path:        "/api/v1/household/join",
		Summary:     "Join household",
		Description: "Accepts an invitation and makes the caller a member",
		Tags:        []string{"Household"},
		Security:    []map[string][]string{{"household": {}}},
	}, s.handleJoinHousehold)

	huma.Register(s.api, huma.Operation{
		OperationID:   "removeMember",
		Method:        http.MethodDelete,
		Path:          "/api/v1/household/members/{memberId}",
		Summary:       "Remove member",
		Description:   "Removes a member. Owners only; owners cannot be removed.",
		Tags:          []string{"Household"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"household": {}}},
	}, s.handleRemoveMember)
}

// === DTOs ===

// HouseholdResponse contains household data in API responses.
type HouseholdResponse struct {
	ID        string    `json:"id" doc:"Household ID"`
	Name      string    `json:"name" doc:"Household name"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// MemberResponse contains member data in API responses.
type MemberResponse struct {
	ID          string    `json:"id" doc:"Member ID"`
	UserID      string    `json:"user_id" doc:"User ID from the auth provider"`
	Email       string    `json:"email,omitempty" doc:"Email address"`
	DisplayName string    `json:"display_name,omitempty" doc:"Display name"`
	Role        string    `json:"role" doc:"owner or member"`
	CreatedAt   time.Time `json:"created_at" doc:"Join time"`
}

// InvitationResponse contains a pending invitation. The token is only shown to owners.
type InvitationResponse struct {
	ID        string    `json:"id" doc:"Invitation ID"`
	Email     string    `json:"email" doc:"Invited address"`
	Token     string    `json:"token,omitempty" doc:"Token the invitee joins with"`
	InvitedBy string    `json:"invited_by" doc:"User ID of the inviter"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// HouseholdViewResponse is the household as seen by the caller.
type HouseholdViewResponse struct {
	Household       HouseholdResponse    `json:"household"`
	Members         []MemberResponse     `json:"members"`
	Invitations     []InvitationResponse `json:"invitations"`
	CurrentUserRole string               `json:"current_user_role" doc:"Caller's role"`
	CurrentUserID   string               `json:"current_user_id" doc:"Caller's user ID"`
	CurrentMemberID string               `json:"current_member_id" doc:"Caller's member ID"`
}

// GetHouseholdInput contains parameters for reading the household.
type GetHouseholdInput struct {
	UserID      string `header:"X-User-ID"`
	HouseholdID string `header:"X-Household-ID"`
}

// HouseholdViewOutput wraps the household view for Huma.
type HouseholdViewOutput struct {
	Body HouseholdViewResponse
}

// CreateHouseholdRequest is the request body for creating a household.
type CreateHouseholdRequest struct {
	Name        string `json:"name" minLength:"1" maxLength:"100" doc:"Household name"`
	Email       string `json:"email,omitempty" doc:"Owner's email address"`
	DisplayName string `json:"display_name,omitempty" maxLength:"100" doc:"Owner's display name"`
}

// CreateHouseholdInput wraps the create household request for Huma.
type CreateHouseholdInput struct {
	UserID string `header:"X-User-ID"`
	Body   CreateHouseholdRequest
}

// HouseholdOutput wraps the household response for Huma.
type HouseholdOutput struct {
	Body HouseholdResponse
}

// RenameHouseholdRequest is the request body for renaming a household.
type RenameHouseholdRequest struct {
	Name string `json:"name" maxLength:"100" doc:"New name"`
}

// RenameHouseholdInput wraps the rename request for Huma.
type RenameHouseholdInput struct {
	UserID      string `header:"X-User-ID"`
	HouseholdID string `header:"X-Household-ID"`
	Body        RenameHouseholdRequest
}

// InviteMemberRequest is the request body for inviting a member.
type InviteMemberRequest struct {
	Email string `json:"email" minLength:"3" maxLength:"254" doc:"Address to invite"`
}

// InviteMemberInput wraps the invite request for Huma.
type InviteMemberInput struct {
	UserID      string `header:"X-User-ID"`
	HouseholdID string `header:"X-Household-ID"`
	Body        InviteMemberRequest
}

// InvitationOutput wraps the invitation response for Huma.
type InvitationOutput struct {
	Body InvitationResponse
}

// RevokeInvitationInput identifies an invitation.
type RevokeInvitationInput struct {
	UserID       string `header:"X-User-ID"`
	HouseholdID  string `header:"X-Household-ID"`
	InvitationID string `path:"invitationId" doc:"Invitation ID"`
}

// JoinHouseholdRequest is the request body for accepting an invitation.
type JoinHouseholdRequest struct {
	Token       string `json:"token" minLength:"1" doc:"Invitation token"`
	DisplayName string `json:"display_name,omitempty" maxLength:"100" doc:"Display name"`
}

// JoinHouseholdInput wraps the join request for Huma.
type JoinHouseholdInput struct {
	UserID string `header:"X-User-ID"`
	Body   JoinHouseholdRequest
}

// MemberOutput wraps the member response for Huma.
type MemberOutput struct {
	Body MemberResponse
}

// RemoveMemberInput identifies a member.
type RemoveMemberInput struct {
	UserID      string `header:"X-User-ID"`
	HouseholdID string `header:"X-Household-ID"`
	MemberID    string `path:"memberId" doc:"Member ID"`
}

// === Handlers ===

func (s *Server) handleGetHousehold(ctx context.Context, input *GetHouseholdInput) (*HouseholdViewOutput, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	view, err := s.services.Household.Get(ctx, m)
	if err != nil {
		return nil, handlerError(err)
	}

	return &HouseholdViewOutput{Body: toHouseholdViewResponse(view, m.IsOwner())}, nil
}

func (s *Server) handleCreateHousehold(ctx context.Context, input *CreateHouseholdInput) (*HouseholdOutput, error) {
	userID, err := requireUser(input.UserID)
	if err != nil {
		return nil, err
	}

	h, err := s.services.Household.Create(ctx, userID, service.CreateHouseholdRequest{
		Name:        input.Body.Name,
		Email:       input.Body.Email,
		DisplayName: input.Body.DisplayName,
	})
	if err != nil {
		return nil, handlerError(err)
	}

	return &HouseholdOutput{Body: toHouseholdResponse(h)}, nil
}

func (s *Server) handleRenameHousehold(ctx context.Context, input *RenameHouseholdInput) (*HouseholdOutput, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	h, err := s.services.Household.Rename(ctx, m, input.Body.Name)
	if err != nil {
		return nil, handlerError(err)
	}

	return &HouseholdOutput{Body: toHouseholdResponse(h)}, nil
}

func (s *Server) handleInviteMember(ctx context.Context, input *InviteMemberInput) (*InvitationOutput, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	inv, err := s.services.Household.Invite(ctx, m, service.InviteRequest{Email: input.Body.Email})
	if err != nil {
		return nil, handlerError(err)
	}

	return &InvitationOutput{Body: toInvitationResponse(inv, true)}, nil
}

func (s *Server) handleRevokeInvitation(ctx context.Context, input *RevokeInvitationInput) (*struct{}, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Household.RevokeInvite(ctx, m, input.InvitationID); err != nil {
		return nil, handlerError(err)
	}
	return nil, nil
}

func (s *Server) handleJoinHousehold(ctx context.Context, input *JoinHouseholdInput) (*MemberOutput, error) {
	userID, err := requireUser(input.UserID)
	if err != nil {
		return nil, err
	}

	member, err := s.services.Household.Join(ctx, userID, service.JoinRequest{
		Token:       input.Body.Token,
		DisplayName: input.Body.DisplayName,
	})
	if err != nil {
		return nil, handlerError(err)
	}

	return &MemberOutput{Body: toMemberResponse(member)}, nil
}

func (s *Server) handleRemoveMember(ctx context.Context, input *RemoveMemberInput) (*struct{}, error) {
	m, err := s.requireMember(ctx, input.UserID, input.HouseholdID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Household.RemoveMember(ctx, m, input.MemberID); err != nil {
		return nil, handlerError(err)
	}
	return nil, nil
}

func toHouseholdResponse(h *domain.Household) HouseholdResponse {
	return HouseholdResponse{
		ID:        h.ID,
		Name:      h.Name,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}

func toMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		ID:          m.ID,
		UserID:      m.UserID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		Role:        string(m.Role),
		CreatedAt:   m.CreatedAt,
	}
}

func toInvitationResponse(inv *domain.Invitation, withToken bool) InvitationResponse {
	resp := InvitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		InvitedBy: inv.InvitedBy,
		CreatedAt: inv.CreatedAt,
	}
	if withToken {
		resp.Token = inv.Token
	}
	return resp
}

func toHouseholdViewResponse(v *service.HouseholdView, isOwner bool) HouseholdViewResponse {
	members := make([]MemberResponse, len(v.Members))
	for i, m := range v.Members {
		members[i] = toMemberResponse(m)
	}
	invitations := make([]InvitationResponse, len(v.Invitations))
	for i, inv := range v.Invitations {
		invitations[i] = toInvitationResponse(inv, isOwner)
	}

	return HouseholdViewResponse{
		Household:       toHouseholdResponse(v.Household),
		Members:         members,
		Invitations:     invitations,
		CurrentUserRole: string(v.CurrentUserRole),
		CurrentUserID:   v.CurrentUserID,
		CurrentMemberID: v.CurrentMemberID,
	}
}
