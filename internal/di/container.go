// Package di provides dependency injection configuration for the CouchQueue server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/couchqueue/couchqueue-server/internal/config"
	"github.com/couchqueue/couchqueue-server/internal/di/providers"
	"github.com/couchqueue/couchqueue-server/internal/llm"
	"github.com/couchqueue/couchqueue-server/internal/logger"
	"github.com/couchqueue/couchqueue-server/internal/metadata/omdb"
	"github.com/couchqueue/couchqueue-server/internal/metadata/tmdb"
	"github.com/couchqueue/couchqueue-server/internal/recommend"
	"github.com/couchqueue/couchqueue-server/internal/service"
	"github.com/couchqueue/couchqueue-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideCache)

	// Upstream clients
	do.Provide(injector, providers.ProvideTMDBClient)
	do.Provide(injector, providers.ProvideOMDbClient)
	do.Provide(injector, providers.ProvideLLMClient)

	// Business services
	do.Provide(injector, providers.ProvideRecommendService)
	do.Provide(injector, providers.ProvideShowService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideHouseholdService)
	do.Provide(injector, providers.ProvideDiscoverService)

	// Server
	do.Provide(injector, providers.ProvideRecommendLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.CacheHandle](injector)
	_ = do.MustInvoke[*tmdb.Client](injector)
	_ = do.MustInvoke[*omdb.Client](injector)
	_ = do.MustInvoke[*llm.Client](injector)

	// Business services
	_ = do.MustInvoke[*recommend.Service](injector)
	_ = do.MustInvoke[*service.ShowService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.HouseholdService](injector)
	_ = do.MustInvoke[*service.DiscoverService](injector)

	// Server
	_ = do.MustInvoke[*providers.RecommendLimiterHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
