package domain

import "time"

// RecommendationField names one of the two independently written texts of a
// household's recommendation record.
type RecommendationField string

// Recommendation fields.
const (
	FieldQuickPick    RecommendationField = "quick_pick"
	FieldDeepAnalysis RecommendationField = "deep_analysis"
)

// Valid reports whether f names a stored field.
func (f RecommendationField) Valid() bool {
	return f == FieldQuickPick || f == FieldDeepAnalysis
}

// Recommendation is the single latest recommendation record of a household.
type Recommendation struct {
	ID           string    `json:"id"`
	HouseholdID  string    `json:"household_id"`
	QuickPick    *string   `json:"quick_pick"`
	DeepAnalysis *string   `json:"deep_analysis"`
	UpdatedAt    time.Time `json:"updated_at"`
}
