package domain

import "math"

// BudgetRange is the expected total spend band for a destination.
type BudgetRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DestinationCandidate is one destination proposed by a provider.
// Ranking key: FamilyScore descending, ties broken by ascending Budget.Min.
type DestinationCandidate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	// FamilyScore rates family-friendliness on a 0–10 scale.
	FamilyScore float64     `json:"family_score"`
	Budget      BudgetRange `json:"budget"`
	// Tags are representative activity tags ("theme-parks", "beaches").
	Tags []string `json:"tags,omitempty"`
}

// ActivityCategory classifies an activity candidate.
type ActivityCategory string

const (
	CategoryAttraction    ActivityCategory = "attraction"
	CategoryRestaurant    ActivityCategory = "restaurant"
	CategoryActivity      ActivityCategory = "activity"
	CategoryEntertainment ActivityCategory = "entertainment"
)

// CostRange is the per-family cost band for an activity. Min ≤ Max.
type CostRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// AgeRange is the age applicability band for an activity, inclusive.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ActivityCandidate is one activity proposed for a destination. It is used
// by the planner (to build the activity list) and by the scheduler (to place
// activities into days).
type ActivityCandidate struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Category        ActivityCategory `json:"category"`
	DurationMinutes int              `json:"duration_minutes"` // always > 0
	Cost            CostRange        `json:"cost"`
	Ages            AgeRange         `json:"ages"`
	Location        string           `json:"location,omitempty"`
}

// BudgetBreakdown splits a nominal budget across spend categories.
// The four components need not sum to the nominal budget: the activities
// component is capped at the lower of the activity max-cost sum and 20% of
// the budget, and Total reports the true sum of the four parts.
type BudgetBreakdown struct {
	Accommodation  float64 `json:"accommodation"`
	Food           float64 `json:"food"`
	Transportation float64 `json:"transportation"`
	Activities     float64 `json:"activities"`
	Total          float64 `json:"total"`
}

// Recommendation is the planner's selection: the chosen destination and the
// first few activities in provider order (not re-ranked).
type Recommendation struct {
	Destination   DestinationCandidate `json:"destination"`
	TopActivities []ActivityCandidate  `json:"top_activities"`
}

// PlannerResult is the output of the destination/activity planning phase.
type PlannerResult struct {
	Destinations   []DestinationCandidate `json:"destinations"`
	Activities     []ActivityCandidate    `json:"activities"`
	Recommendation Recommendation         `json:"recommendation"`
	// Budget is nil when the trip context carries no budget.
	Budget *BudgetBreakdown `json:"budget,omitempty"`
}

// Round2 rounds a currency amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
