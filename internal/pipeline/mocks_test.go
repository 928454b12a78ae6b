package pipeline

import (
	"context"
	"time"

	"github.com/mhutchens/trip-planner/internal/domain"
	"github.com/mhutchens/trip-planner/internal/provider"
)

// Function-field mocks for the provider interfaces. Tests set only the
// functions they need; calling an unset function panics, which surfaces
// unexpected provider usage immediately.

type mockDestinationProvider struct {
	SearchDestinationsFunc func(ctx context.Context, tc domain.TripContext) ([]domain.DestinationCandidate, error)
}

var _ provider.DestinationProvider = (*mockDestinationProvider)(nil)

func (m *mockDestinationProvider) SearchDestinations(ctx context.Context, tc domain.TripContext) ([]domain.DestinationCandidate, error) {
	return m.SearchDestinationsFunc(ctx, tc)
}

type mockActivityProvider struct {
	SearchActivitiesFunc func(ctx context.Context, tc domain.TripContext, destination string) ([]domain.ActivityCandidate, error)
}

var _ provider.ActivityProvider = (*mockActivityProvider)(nil)

func (m *mockActivityProvider) SearchActivities(ctx context.Context, tc domain.TripContext, destination string) ([]domain.ActivityCandidate, error) {
	return m.SearchActivitiesFunc(ctx, tc, destination)
}

type mockFlightProvider struct {
	SearchFlightsFunc func(ctx context.Context, tc domain.TripContext, destination string) ([]domain.FlightOption, error)
}

var _ provider.FlightProvider = (*mockFlightProvider)(nil)

func (m *mockFlightProvider) SearchFlights(ctx context.Context, tc domain.TripContext, destination string) ([]domain.FlightOption, error) {
	return m.SearchFlightsFunc(ctx, tc, destination)
}

type mockLodgingProvider struct {
	SearchLodgingsFunc func(ctx context.Context, tc domain.TripContext, destination string) ([]domain.LodgingOption, error)
}

var _ provider.LodgingProvider = (*mockLodgingProvider)(nil)

func (m *mockLodgingProvider) SearchLodgings(ctx context.Context, tc domain.TripContext, destination string) ([]domain.LodgingOption, error) {
	return m.SearchLodgingsFunc(ctx, tc, destination)
}

// tripStart is the fixed departure date shared by the tests.
var tripStart = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

// testContext builds a valid trip context for the given budget and trip
// length. A zero budget leaves Budget nil; zero days leaves Dates nil.
func testContext(budget float64, days int) domain.TripContext {
	tc := domain.TripContext{UserID: "user-1"}
	if budget > 0 {
		tc.Budget = &budget
	}
	if days > 0 {
		tc.Dates = &domain.DateRange{Start: tripStart, End: tripStart.AddDate(0, 0, days)}
	}
	return tc
}

// staticDestinations returns a destination provider that always serves the
// given candidates.
func staticDestinations(candidates ...domain.DestinationCandidate) *mockDestinationProvider {
	return &mockDestinationProvider{
		SearchDestinationsFunc: func(context.Context, domain.TripContext) ([]domain.DestinationCandidate, error) {
			return candidates, nil
		},
	}
}

// staticActivities returns an activity provider that always serves the given
// candidates.
func staticActivities(candidates ...domain.ActivityCandidate) *mockActivityProvider {
	return &mockActivityProvider{
		SearchActivitiesFunc: func(context.Context, domain.TripContext, string) ([]domain.ActivityCandidate, error) {
			return candidates, nil
		},
	}
}

// staticFlights returns a flight provider that always serves the given options.
func staticFlights(options ...domain.FlightOption) *mockFlightProvider {
	return &mockFlightProvider{
		SearchFlightsFunc: func(context.Context, domain.TripContext, string) ([]domain.FlightOption, error) {
			return options, nil
		},
	}
}

// staticLodgings returns a lodging provider that always serves the given options.
func staticLodgings(options ...domain.LodgingOption) *mockLodgingProvider {
	return &mockLodgingProvider{
		SearchLodgingsFunc: func(context.Context, domain.TripContext, string) ([]domain.LodgingOption, error) {
			return options, nil
		},
	}
}

// activity builds a minimal activity candidate for scheduling tests.
func activity(name string, durationMinutes int, maxCost float64) domain.ActivityCandidate {
	return domain.ActivityCandidate{
		ID:              "act-" + name,
		Name:            name,
		Category:        domain.CategoryActivity,
		DurationMinutes: durationMinutes,
		Cost:            domain.CostRange{Min: 0, Max: maxCost},
		Ages:            domain.AgeRange{Min: 0, Max: 99},
	}
}
