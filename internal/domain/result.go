package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExportFormat identifies one export artifact layout.
type ExportFormat string

const (
	ExportJSON     ExportFormat = "json"
	ExportDocument ExportFormat = "document"
	ExportCalendar ExportFormat = "calendar"
)

// ExportArtifact is a self-describing export payload. The HTTP layer serves
// Payload verbatim with ContentType; the pipeline does no HTTP serialization.
type ExportArtifact struct {
	Format            ExportFormat `json:"format"`
	ContentType       string       `json:"content_type"`
	SuggestedFilename string       `json:"suggested_filename"`
	Payload           []byte       `json:"payload"`
}

// SocialLink is one templated share link for a social network.
type SocialLink struct {
	Network string `json:"network"`
	URL     string `json:"url"`
}

// Sharing describes how a plan can be shared. TripID is collision-resistant
// for the lifetime of one deployment (timestamp + owner + random suffix).
type Sharing struct {
	TripID string       `json:"trip_id"`
	URL    string       `json:"url"`
	Social []SocialLink `json:"social,omitempty"`
}

// Dashboard is a read-only display projection of the upstream phase results.
type Dashboard struct {
	Destination   string     `json:"destination"`
	Location      string     `json:"location,omitempty"`
	Dates         *DateRange `json:"dates,omitempty"`
	Days          int        `json:"days"`
	TotalCost     float64    `json:"total_cost"`
	Savings       float64    `json:"savings"`
	Currency      string     `json:"currency"`
	ActivityCount int        `json:"activity_count"`
	Highlights    []string   `json:"highlights,omitempty"`
}

// Presentation is the output of the presentation phase.
type Presentation struct {
	Dashboard Dashboard        `json:"dashboard"`
	Exports   []ExportArtifact `json:"exports"`
	Sharing   Sharing          `json:"sharing"`
}

// PlanStatus is the lifecycle state of a compiled plan.
type PlanStatus string

const (
	PlanPlanned   PlanStatus = "planned"
	PlanBooked    PlanStatus = "booked"
	PlanCompleted PlanStatus = "completed"
)

// TripSummary is the headline view of a compiled plan. All values are taken
// from the owning phases; the coordinator recomputes nothing.
type TripSummary struct {
	Destination  string     `json:"destination"`
	TotalCost    float64    `json:"total_cost"`
	Savings      float64    `json:"savings"`
	DurationDays int        `json:"duration_days"`
	Status       PlanStatus `json:"status"`
	// Confidence is a deterministic heuristic in [0,1].
	Confidence float64 `json:"confidence"`
}

// TripPlanningResult is the terminal aggregate of one successful pipeline
// run. It is created once, at the end of the run, and never mutated; treat
// it as a value object. ID and CreatedAt are assigned when the plan is
// persisted.
type TripPlanningResult struct {
	ID           uuid.UUID      `json:"id"`
	UserID       string         `json:"user_id"`
	Planner      PlannerResult  `json:"planner"`
	Booking      BookingResult  `json:"booking"`
	Schedule     ScheduleResult `json:"schedule"`
	Presentation Presentation   `json:"presentation"`
	Summary      TripSummary    `json:"summary"`
	CreatedAt    time.Time      `json:"created_at"`
}
