package api

import (
	"context"
	"strings"

	"github.com/couchqueue/couchqueue-server/internal/domain"
	domainerrors "github.com/couchqueue/couchqueue-server/internal/errors"
)

// requireUser returns the caller's user ID from the identity header.
func requireUser(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", handlerError(domainerrors.Unauthorized("Missing " + HeaderUserID + " header"))
	}
	return userID, nil
}

// requireMember resolves the caller's household membership.
// A user without a household gets 404. A household header that disagrees
// with the membership gets 401.
func (s *Server) requireMember(ctx context.Context, userID, householdID string) (*domain.Member, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}

	m, err := s.services.Household.Membership(ctx, userID)
	if err != nil {
		return nil, handlerError(err)
	}

	householdID = strings.TrimSpace(householdID)
	if householdID != "" && householdID != m.HouseholdID {
		s.logger.Warn("household header mismatch",
			"user_id", userID,
			"header_household_id", householdID,
			"household_id", m.HouseholdID,
		)
		return nil, handlerError(domainerrors.Unauthorized("Not a member of this household"))
	}

	return m, nil
}
