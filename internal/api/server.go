// Package api provides the HTTP API server and handlers for the CouchQueue application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/couchqueue/couchqueue-server/internal/cache"
	"github.com/couchqueue/couchqueue-server/internal/http/response"
	"github.com/couchqueue/couchqueue-server/internal/metrics"
	"github.com/couchqueue/couchqueue-server/internal/ratelimit"
	"github.com/couchqueue/couchqueue-server/internal/store"
)

// Options tunes the HTTP middleware stack.
type Options struct {
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store      store.Store
	cache      *cache.Cache
	services   *Services
	recLimiter *ratelimit.KeyedRateLimiter
	router     *chi.Mux
	api        huma.API
	logger     *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// recLimiter gates recommendation generation per household and is owned by the caller.
func NewServer(
	st store.Store,
	c *cache.Cache,
	services *Services,
	recLimiter *ratelimit.KeyedRateLimiter,
	opts Options,
	logger *slog.Logger,
) *Server {
	router := chi.NewRouter()

	s := &Server{
		store:      st,
		cache:      c,
		services:   services,
		recLimiter: recLimiter,
		router:     router,
		logger:     logger,
	}

	s.setupMiddleware(opts)

	config := huma.DefaultConfig("CouchQueue API", "1.0.0")
	config.Info.Description = "Household movie and TV watchlist with AI recommendations"
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"household": {
			Type: "apiKey",
			In:   "header",
			Name: HeaderUserID,
		},
	}

	// Response bodies carry only their documented fields, no $schema link.
	config.CreateHooks = nil

	s.api = humachi.New(router, config)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(s.recoverer)

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", HeaderUserID, HeaderHouseholdID},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	requests := opts.RateLimitRequests
	if requests <= 0 {
		requests = DefaultRateLimitRequests
	}
	window := opts.RateLimitWindow
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	s.router.Use(httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RateLimited.WithLabelValues("ip").Inc()
			s.logger.Warn("Rate limit exceeded", "ip", r.RemoteAddr, "path", r.URL.Path)
			response.TooManyRequests(w, "Too many requests. Please try again later.", s.logger)
		}),
	))

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, s.logger)
	})
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", metrics.Handler())

	s.registerHealthRoutes()
	s.registerRecommendationRoutes()
	s.registerShowRoutes()
	s.registerTagRoutes()
	s.registerHouseholdRoutes()
	s.registerDiscoverRoutes()
}
