package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/couchqueue/couchqueue-server/internal/api"
	"github.com/couchqueue/couchqueue-server/internal/config"
	"github.com/couchqueue/couchqueue-server/internal/logger"
	"github.com/couchqueue/couchqueue-server/internal/ratelimit"
	"github.com/couchqueue/couchqueue-server/internal/recommend"
	"github.com/couchqueue/couchqueue-server/internal/service"
)

// RecommendLimiterHandle wraps the per-household recommendation limiter.
type RecommendLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RecommendLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRecommendLimiter provides the per-household recommendation rate limiter.
func ProvideRecommendLimiter(_ do.Injector) (*RecommendLimiterHandle, error) {
	return &RecommendLimiterHandle{
		KeyedRateLimiter: ratelimit.PerMinute(api.RecommendationsPerMinute, api.RecommendationBurst),
	}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	limiterHandle := do.MustInvoke[*RecommendLimiterHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Recommend: do.MustInvoke[*recommend.Service](i),
		Shows:     do.MustInvoke[*service.ShowService](i),
		Tags:      do.MustInvoke[*service.TagService](i),
		Household: do.MustInvoke[*service.HouseholdService](i),
		Discover:  do.MustInvoke[*service.DiscoverService](i),
	}

	handler := api.NewServer(storeHandle.Store, cacheHandle.Cache, services, limiterHandle.KeyedRateLimiter, api.Options{
		CORSOrigins:       cfg.Server.CORSOrigins,
		RateLimitRequests: cfg.Server.RateLimitRequests,
		RateLimitWindow:   cfg.Server.RateLimitWindow,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
