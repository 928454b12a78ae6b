// Package domain contains the core data types for the family trip planner.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (provider, pipeline, repo, service, handler).
package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FamilyProfile describes who is travelling. All fields are optional; the
// pipeline only reads them, it never requires them.
type FamilyProfile struct {
	Adults       int      `json:"adults"`
	Children     int      `json:"children"`
	ChildAges    []int    `json:"child_ages,omitempty"`
	Interests    []string `json:"interests,omitempty"`
	DietaryNeeds []string `json:"dietary_needs,omitempty"`
}

// DateRange is a half-structured travel window. End must not be before Start.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the trip length in whole days, rounding partial days up.
// A same-day range yields 0, which the scheduler rejects as too short.
func (r DateRange) Days() int {
	return int(math.Ceil(r.End.Sub(r.Start).Hours() / 24))
}

// TripContext is the immutable input to one pipeline run. It is constructed
// by the caller, owned by the pipeline Coordinator for the duration of the
// run, and passed read-only to each phase.
type TripContext struct {
	// UserID identifies the requesting user. Required.
	UserID string `json:"user_id"`

	// Family is the optional family profile.
	Family *FamilyProfile `json:"family,omitempty"`

	// Budget is the total trip budget in Currency. Optional; when set it
	// drives destination filtering and the budget breakdown.
	Budget *float64 `json:"budget,omitempty"`

	// Currency is the ISO code all amounts in this run are denominated in.
	// Defaults to "USD" when empty. No conversion happens inside a run.
	Currency string `json:"currency,omitempty"`

	// Dates is the optional travel window. The booking and scheduling
	// phases require it; the planner does not.
	Dates *DateRange `json:"dates,omitempty"`

	// DestinationHint is free text from the user ("somewhere warm",
	// "Orlando"). Providers may use it to bias their candidate lists.
	DestinationHint string `json:"destination_hint,omitempty"`
}

// Validate checks the fields every pipeline run requires up front.
// Phase-specific requirements (dates for booking, duration for scheduling)
// are checked by the phases themselves.
func (c TripContext) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidContext)
	}
	if c.Dates != nil && c.Dates.End.Before(c.Dates.Start) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidDuration)
	}
	return nil
}

// CurrencyOrDefault returns Currency, or "USD" when unset.
func (c TripContext) CurrencyOrDefault() string {
	if c.Currency == "" {
		return "USD"
	}
	return c.Currency
}
