// Package store defines the persistence interface for the CouchQueue server.
package store

import (
	"context"

	"github.com/couchqueue/couchqueue-server/internal/domain"
)

// Store defines the interface for all persistence operations.
// Every household-scoped lookup misses with ErrNotFound when the row
// belongs to another household.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// Households
	CreateHousehold(ctx context.Context, h *domain.Household, owner *domain.Member) error
	GetHousehold(ctx context.Context, householdID string) (*domain.Household, error)
	RenameHousehold(ctx context.Context, householdID, name string) (*domain.Household, error)

	// Members
	GetMemberByUserID(ctx context.Context, userID string) (*domain.Member, error)
	GetMember(ctx context.Context, householdID, memberID string) (*domain.Member, error)
	ListMembers(ctx context.Context, householdID string) ([]*domain.Member, error)
	MemberEmailExists(ctx context.Context, householdID, email string) (bool, error)
	DeleteMember(ctx context.Context, householdID, memberID string) error

	// Invitations
	CreateInvitation(ctx context.Context, inv *domain.Invitation) error
	ListInvitations(ctx context.Context, householdID string) ([]*domain.Invitation, error)
	DeleteInvitation(ctx context.Context, householdID, invitationID string) error
	AcceptInvitation(ctx context.Context, token string, m *domain.Member) (*domain.Invitation, error)

	// Shows
	CreateShow(ctx context.Context, sh *domain.Show) error
	GetShow(ctx context.Context, householdID, showID string) (*domain.Show, error)
	ShowExistsByTMDBID(ctx context.Context, householdID string, tmdbID int64) (bool, error)
	ListShows(ctx context.Context, householdID string) ([]*domain.Show, error)
	UpdateShow(ctx context.Context, householdID, showID string, u domain.ShowUpdate) (*domain.Show, error)
	UpdateShowRatings(ctx context.Context, householdID, showID string, r domain.RatingsUpdate) error
	DeleteShow(ctx context.Context, householdID, showID string) error
	AddShowTags(ctx context.Context, showID string, tagIDs ...string) error
	RemoveShowTag(ctx context.Context, showID, tagID string) error

	// Tags
	CreateTag(ctx context.Context, t *domain.Tag) error
	GetTag(ctx context.Context, tagID string) (*domain.Tag, error)
	ListTags(ctx context.Context, householdID string) ([]*domain.Tag, error)
	FindTagsByName(ctx context.Context, householdID string, names []string) ([]*domain.Tag, error)
	UpdateTag(ctx context.Context, householdID, tagID string, u domain.TagUpdate) (*domain.Tag, error)
	DeleteTag(ctx context.Context, householdID, tagID string) error

	// Recommendations
	GetRecommendation(ctx context.Context, householdID string) (*domain.Recommendation, error)
	UpsertRecommendation(ctx context.Context, householdID string, field domain.RecommendationField, text string) error
}
