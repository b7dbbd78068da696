package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sourcegraph/conc/pool"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"

	probeTimeout = 2 * time.Second
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

// probe is one component check. A failing critical probe makes the server
// unhealthy, any other failure only degrades it.
type probe struct {
	name     string
	critical bool
	missing  bool
	check    func(context.Context) error
	failMsg  string
}

func (s *Server) probes() []probe {
	return []probe{
		{
			name:     "database",
			critical: true,
			missing:  s.store == nil,
			check:    func(ctx context.Context) error { return s.store.Ping(ctx) },
			failMsg:  "database ping failed",
		},
		{
			name:    "cache",
			missing: s.cache == nil,
			check:   func(ctx context.Context) error { return s.cache.Ping(ctx) },
			failMsg: "cache read failed",
		},
	}
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	probes := s.probes()

	var mu sync.Mutex
	components := make(map[string]ComponentHealth, len(probes))
	p := pool.New().WithMaxGoroutines(len(probes))
	for _, pr := range probes {
		p.Go(func() {
			h := s.runProbe(ctx, pr)
			mu.Lock()
			components[pr.name] = h
			mu.Unlock()
		})
	}
	p.Wait()

	overall := statusHealthy
	for _, pr := range probes {
		if components[pr.name].Status == statusHealthy {
			continue
		}
		if pr.critical && components[pr.name].Status == statusUnhealthy {
			overall = statusUnhealthy
			break
		}
		overall = statusDegraded
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

func (s *Server) runProbe(ctx context.Context, pr probe) ComponentHealth {
	if pr.missing {
		return ComponentHealth{Status: statusDegraded, Message: pr.name + " not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	err := pr.check(ctx)
	latency := time.Since(start).String()

	if err != nil {
		s.logger.Error("health check failed", "component", pr.name, "error", err)
		return ComponentHealth{Status: statusUnhealthy, Latency: latency, Message: pr.failMsg}
	}
	return ComponentHealth{Status: statusHealthy, Latency: latency}
}
