package domain

import "time"

// BreakType classifies a scheduled break within a day.
type BreakType string

const (
	BreakLunch  BreakType = "lunch"
	BreakDinner BreakType = "dinner"
	BreakRest   BreakType = "rest"
	BreakTravel BreakType = "travel"
)

// Break is a fixed block of non-activity time within a day.
type Break struct {
	Type  BreakType `json:"type"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ScheduledActivity is an activity placed into a day's timeline.
// TravelMinutes is the buffer inserted before this activity's start (zero
// for the first activity of the day).
type ScheduledActivity struct {
	Activity      ActivityCandidate `json:"activity"`
	Start         time.Time         `json:"start"`
	End           time.Time         `json:"end"`
	TravelMinutes int               `json:"travel_minutes"`
}

// Flexibility classifies how packed a day (or the whole trip) is.
type Flexibility string

const (
	FlexibilityHigh   Flexibility = "high"   // under 6 scheduled hours
	FlexibilityMedium Flexibility = "medium" // under 8 scheduled hours
	FlexibilityLow    Flexibility = "low"
)

// DaySchedule is one day of the itinerary. Day is 1-based and contiguous
// across the trip. Activities are ordered by non-decreasing start time and
// never overlap; travel buffers and breaks account for the gaps.
type DaySchedule struct {
	Day          int                 `json:"day"`
	Date         time.Time           `json:"date"`
	Activities   []ScheduledActivity `json:"activities"`
	Breaks       []Break             `json:"breaks"`
	TotalMinutes int                 `json:"total_minutes"`
	TotalCost    float64             `json:"total_cost"`
	Flexibility  Flexibility         `json:"flexibility"`
}

// ScheduleSummary aggregates the itinerary. Flexibility is the modal per-day
// value (ties resolved in high, medium, low order).
type ScheduleSummary struct {
	Days         int         `json:"days"`
	TotalMinutes int         `json:"total_minutes"`
	TotalCost    float64     `json:"total_cost"`
	Flexibility  Flexibility `json:"flexibility"`
}

// RouteOptimization carries simple travel statistics for the itinerary.
// RouteEfficiency is max(0, 100 − totalTravelMinutes/60): a unitless
// heuristic, not a distance-based metric.
type RouteOptimization struct {
	TotalTravelMinutes int     `json:"total_travel_minutes"`
	RouteEfficiency    float64 `json:"route_efficiency"`
	// BestDays are the day indexes with the most activities (up to two).
	BestDays []int `json:"best_days"`
	// RestDay is the day index with the fewest activities.
	RestDay int `json:"rest_day"`
}

// ScheduleResult is the output of the day scheduling phase.
type ScheduleResult struct {
	Days         []DaySchedule     `json:"days"`
	Summary      ScheduleSummary   `json:"summary"`
	Optimization RouteOptimization `json:"optimization"`
}
