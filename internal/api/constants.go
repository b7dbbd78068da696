package api

import "time"

// Identity headers set by the upstream auth proxy.
const (
	HeaderUserID      = "X-User-ID"
	HeaderHouseholdID = "X-Household-ID"
)

// Recommendation throttling, per household.
const (
	RecommendationsPerMinute = 6
	RecommendationBurst      = 2
)

// Defaults for the per-IP limit on every API request.
const (
	DefaultRateLimitRequests = 120
	DefaultRateLimitWindow   = time.Minute
)
