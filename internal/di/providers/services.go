package providers

import (
	"github.com/samber/do/v2"

	"github.com/couchqueue/couchqueue-server/internal/llm"
	"github.com/couchqueue/couchqueue-server/internal/logger"
	"github.com/couchqueue/couchqueue-server/internal/metadata/omdb"
	"github.com/couchqueue/couchqueue-server/internal/metadata/tmdb"
	"github.com/couchqueue/couchqueue-server/internal/recommend"
	"github.com/couchqueue/couchqueue-server/internal/service"
	"github.com/couchqueue/couchqueue-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideRecommendService provides the recommendation orchestrator.
func ProvideRecommendService(i do.Injector) (*recommend.Service, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	client := do.MustInvoke[*llm.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return recommend.NewService(storeHandle.Store, client, log.Logger), nil
}

// ProvideShowService provides the watchlist service.
func ProvideShowService(i do.Injector) (*service.ShowService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	catalog := do.MustInvoke[*tmdb.Client](i)
	ratings := do.MustInvoke[*omdb.Client](i)
	summaries := do.MustInvoke[*recommend.Service](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewShowService(storeHandle.Store, catalog, ratings, summaries, validator, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideHouseholdService provides the household and invitation service.
func ProvideHouseholdService(i do.Injector) (*service.HouseholdService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewHouseholdService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideDiscoverService provides catalog search and trending.
func ProvideDiscoverService(i do.Injector) (*service.DiscoverService, error) {
	catalog := do.MustInvoke[*tmdb.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDiscoverService(catalog, log.Logger), nil
}
