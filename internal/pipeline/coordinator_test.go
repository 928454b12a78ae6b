package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhutchens/trip-planner/internal/domain"
	"github.com/mhutchens/trip-planner/internal/provider"
)

const testShareBase = "https://trips.example.com"

func orlandoContext() domain.TripContext {
	tc := testContext(5000, 7)
	tc.DestinationHint = "Orlando"
	return tc
}

func TestCoordinator_Run_Success(t *testing.T) {
	c := NewCoordinator(provider.FixtureSet(), testShareBase)

	got, err := c.Run(context.Background(), orlandoContext())

	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "Orlando", got.Summary.Destination)
	// Cheapest fixture combination: 2×212 flight + 7×99 lodging.
	assert.Equal(t, 1117.0, got.Summary.TotalCost)
	assert.Equal(t, 338.0, got.Summary.Savings)
	assert.Equal(t, 7, got.Summary.DurationDays)
	assert.Equal(t, domain.PlanPlanned, got.Summary.Status)
	assert.InDelta(t, 0.95, got.Summary.Confidence, 1e-9)

	require.NotNil(t, got.Booking.Best)
	assert.Len(t, got.Booking.Combinations, 9)
	assert.Len(t, got.Schedule.Days, 7)
	assert.Len(t, got.Presentation.Exports, 3)
	assert.NotEmpty(t, got.Presentation.Sharing.TripID)

	status := c.Status()
	assert.Equal(t, RunSucceeded, status.Run)
	assert.Equal(t, 100, status.Overall)
	for _, p := range status.Phases {
		assert.Equal(t, PhaseCompleted, p.State, p.Name)
	}
}

func TestCoordinator_Run_IsDeterministicExceptShareID(t *testing.T) {
	first, err := NewCoordinator(provider.FixtureSet(), testShareBase).
		Run(context.Background(), orlandoContext())
	require.NoError(t, err)
	second, err := NewCoordinator(provider.FixtureSet(), testShareBase).
		Run(context.Background(), orlandoContext())
	require.NoError(t, err)

	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Planner, second.Planner)
	assert.Equal(t, first.Booking, second.Booking)
	assert.Equal(t, first.Schedule, second.Schedule)
	// Only the share identifier may differ between identical runs.
	assert.NotEqual(t, first.Presentation.Sharing.TripID, second.Presentation.Sharing.TripID)
	assert.Equal(t, first.Presentation.Dashboard, second.Presentation.Dashboard)
}

func TestCoordinator_Run_InvalidContextFailsBeforeAnyPhase(t *testing.T) {
	c := NewCoordinator(provider.FixtureSet(), testShareBase)

	_, err := c.Run(context.Background(), domain.TripContext{UserID: ""})

	require.ErrorIs(t, err, domain.ErrInvalidContext)

	status := c.Status()
	assert.Equal(t, RunFailed, status.Run)
	assert.Equal(t, 0, status.Overall)
	for _, p := range status.Phases {
		assert.Equal(t, PhaseIdle, p.State, p.Name)
	}
}

func TestCoordinator_Run_InvertedDatesFailValidation(t *testing.T) {
	c := NewCoordinator(provider.FixtureSet(), testShareBase)
	tc := domain.TripContext{
		UserID: "user-1",
		Dates:  &domain.DateRange{Start: tripStart, End: tripStart.AddDate(0, 0, -1)},
	}

	_, err := c.Run(context.Background(), tc)

	require.ErrorIs(t, err, domain.ErrInvalidDuration)
}

func TestCoordinator_Run_FailsFastOnBookingError(t *testing.T) {
	boom := errors.New("gds unavailable")
	f := provider.NewFixture()
	set := provider.Set{
		Destinations: f,
		Activities:   f,
		Flights: &mockFlightProvider{
			SearchFlightsFunc: func(context.Context, domain.TripContext, string) ([]domain.FlightOption, error) {
				return nil, boom
			},
		},
		Lodgings: f,
	}
	c := NewCoordinator(set, testShareBase)

	_, err := c.Run(context.Background(), orlandoContext())

	require.Error(t, err)
	var phaseErr *Error
	require.ErrorAs(t, err, &phaseErr)
	assert.Equal(t, PhaseBooking, phaseErr.Phase)
	require.ErrorIs(t, err, domain.ErrProvider)

	status := c.Status()
	assert.Equal(t, RunFailed, status.Run)
	assert.Equal(t, 25, status.Overall)
	assert.Equal(t, PhaseCompleted, status.Phases[0].State)
	assert.Equal(t, PhaseFailed, status.Phases[1].State)
	assert.NotEmpty(t, status.Phases[1].Error)
	// Downstream phases never started.
	assert.Equal(t, PhaseIdle, status.Phases[2].State)
	assert.Equal(t, PhaseIdle, status.Phases[3].State)
}

func TestCoordinator_Run_EmptySearchFailsBookingPhase(t *testing.T) {
	f := provider.NewFixture()
	set := provider.Set{
		Destinations: f,
		Activities:   f,
		Flights:      staticFlights(),
		Lodgings:     f,
	}
	c := NewCoordinator(set, testShareBase)

	_, err := c.Run(context.Background(), orlandoContext())

	require.ErrorIs(t, err, domain.ErrEmptySearch)
	var phaseErr *Error
	require.ErrorAs(t, err, &phaseErr)
	assert.Equal(t, PhaseBooking, phaseErr.Phase)
}

func TestCoordinator_Status_ObservableMidRun(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	f := provider.NewFixture()
	set := provider.Set{
		Destinations: f,
		Activities:   f,
		Flights: &mockFlightProvider{
			SearchFlightsFunc: func(ctx context.Context, tc domain.TripContext, destination string) ([]domain.FlightOption, error) {
				close(started)
				<-release
				return f.SearchFlights(ctx, tc, destination)
			},
		},
		Lodgings: f,
	}
	c := NewCoordinator(set, testShareBase)

	done := make(chan error, 1)
	go func() {
		_, err := c.Run(context.Background(), orlandoContext())
		done <- err
	}()

	<-started
	status := c.Status()
	assert.Equal(t, RunInProgress, status.Run)
	assert.Equal(t, 25, status.Overall)
	assert.Equal(t, PhaseCompleted, status.Phases[0].State)
	assert.Equal(t, PhaseRunning, status.Phases[1].State)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 100, c.Status().Overall)
}

func TestCoordinator_Run_PhaseTimeout(t *testing.T) {
	f := provider.NewFixture()
	set := provider.Set{
		Destinations: f,
		Activities:   f,
		Flights: &mockFlightProvider{
			SearchFlightsFunc: func(ctx context.Context, tc domain.TripContext, destination string) ([]domain.FlightOption, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		},
		Lodgings: f,
	}
	c := NewCoordinator(set, testShareBase, WithPhaseTimeout(20*time.Millisecond))

	_, err := c.Run(context.Background(), orlandoContext())

	require.ErrorIs(t, err, domain.ErrTimeout)
	var phaseErr *Error
	require.ErrorAs(t, err, &phaseErr)
	assert.Equal(t, PhaseBooking, phaseErr.Phase)
	assert.Equal(t, RunFailed, c.Status().Run)
}

func TestCoordinator_Status_IdempotentAfterRun(t *testing.T) {
	c := NewCoordinator(provider.FixtureSet(), testShareBase)
	_, err := c.Run(context.Background(), orlandoContext())
	require.NoError(t, err)

	first := c.Status()
	second := c.Status()
	assert.Equal(t, first, second)
}
