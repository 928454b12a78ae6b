// Package provider defines the search interfaces the planning pipeline
// consumes and ships deterministic fixture implementations of them.
// The pipeline is agnostic to how candidates are produced: implementations
// may be live remote calls, cached responses, or the static fixtures here.
package provider

import (
	"context"

	"github.com/mhutchens/trip-planner/internal/domain"
)

// DestinationProvider searches destination candidates for a trip context.
type DestinationProvider interface {
	SearchDestinations(ctx context.Context, tc domain.TripContext) ([]domain.DestinationCandidate, error)
}

// ActivityProvider searches activity candidates for a chosen destination.
type ActivityProvider interface {
	SearchActivities(ctx context.Context, tc domain.TripContext, destination string) ([]domain.ActivityCandidate, error)
}

// FlightProvider searches flight candidates to a chosen destination.
type FlightProvider interface {
	SearchFlights(ctx context.Context, tc domain.TripContext, destination string) ([]domain.FlightOption, error)
}

// LodgingProvider searches lodging candidates at a chosen destination.
type LodgingProvider interface {
	SearchLodgings(ctx context.Context, tc domain.TripContext, destination string) ([]domain.LodgingOption, error)
}

// Set bundles one provider per search domain. The pipeline coordinator takes
// a Set so tests and main can wire fixtures or live providers interchangeably
// without global state.
type Set struct {
	Destinations DestinationProvider
	Activities   ActivityProvider
	Flights      FlightProvider
	Lodgings     LodgingProvider
}
