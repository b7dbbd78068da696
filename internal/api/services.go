package api

import (
	"github.com/couchqueue/couchqueue-server/internal/recommend"
	"github.com/couchqueue/couchqueue-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Recommend *recommend.Service
	Shows     *service.ShowService
	Tags      *service.TagService
	Household *service.HouseholdService
	Discover  *service.DiscoverService
}
