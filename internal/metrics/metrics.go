// Package metrics exposes Prometheus instrumentation for the API, the
// recommendation pipeline, and the upstream catalog, ratings, and LLM clients.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	// API
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "couchqueue_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "couchqueue_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "couchqueue_rate_limited_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"scope"}, // "ip", "recommendation"
	)

	// Recommendations
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "couchqueue_recommendations_total",
			Help: "Recommendation generations by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "couchqueue_recommendation_duration_seconds",
			Help:    "End-to-end recommendation generation time in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120, 300},
		},
		[]string{"mode"},
	)

	CleanupFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "couchqueue_recommendation_cleanup_fallbacks_total",
			Help: "Deep analyses stored raw because the cleanup pass failed",
		},
	)

	// Upstreams
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "couchqueue_upstream_requests_total",
			Help: "Calls to upstream services by outcome",
		},
		[]string{"service", "outcome"}, // service: "tmdb", "omdb", "llm"
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "couchqueue_upstream_request_duration_seconds",
			Help:    "Upstream call latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"service"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "couchqueue_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Cache
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "couchqueue_cache_lookups_total",
			Help: "Response cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAPIRequest records one API request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRecommendation records a recommendation run for mode ("quick" or "deep").
func RecordRecommendation(mode string, duration time.Duration, err error) {
	RecommendationDuration.WithLabelValues(mode).Observe(duration.Seconds())
	Recommendations.WithLabelValues(mode, outcome(err)).Inc()
}

// RecordUpstream records a call to an upstream service.
func RecordUpstream(service string, duration time.Duration, err error) {
	UpstreamDuration.WithLabelValues(service).Observe(duration.Seconds())
	UpstreamRequests.WithLabelValues(service, outcome(err)).Inc()
}

// RecordCacheLookup records a response cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CacheLookups.WithLabelValues("miss").Inc()
}

// SetCircuitBreakerState publishes a breaker state (0=closed, 1=half-open, 2=open).
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
