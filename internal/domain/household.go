package domain

import "time"

// Role is a member's role within a household.
type Role string

// Household roles.
const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// Household is the tenant that owns shows, custom tags and recommendations.
type Household struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member links a user to exactly one household.
type Member struct {
	ID          string    `json:"id"`
	HouseholdID string    `json:"household_id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsOwner reports whether the member owns the household.
func (m *Member) IsOwner() bool {
	return m.Role == RoleOwner
}

// Invitation is a pending (household, email) pair awaiting signup.
type Invitation struct {
	ID          string    `json:"id"`
	HouseholdID string    `json:"household_id"`
	Email       string    `json:"email"`
	Token       string    `json:"-"`
	InvitedBy   string    `json:"invited_by"`
	CreatedAt   time.Time `json:"created_at"`
}
