// Package pipeline implements the multi-phase trip planning pipeline: a
// coordinator that runs four dependent phases (destination/activity
// planning, booking search, day scheduling, and presentation) against a
// shared trip context, tracks per-phase state, and compiles one aggregate
// result. Execution is strictly sequential in dependency order; the only
// internal concurrency is the booking phase's flight/lodging fan-out.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mhutchens/trip-planner/internal/domain"
	"github.com/mhutchens/trip-planner/internal/provider"
)

// Error tags a phase-local failure with the phase that produced it. The
// wrapped error carries one of the domain sentinel errors.
type Error struct {
	Phase string
	Err   error
}

func (e *Error) Error() string { return e.Phase + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithPhaseTimeout bounds every phase to d. On expiry the phase fails with
// domain.ErrTimeout and the usual fail-fast policy applies. Zero disables
// the bound.
func WithPhaseTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.phaseTimeout = d }
}

// Coordinator owns one pipeline run: the four phases, the status registry,
// and the final compilation. A Coordinator is single-use (construct one per
// run), but its Status method may be called at any time, concurrently with
// the run, and after it finishes.
type Coordinator struct {
	planner   *Planner
	booking   *BookingSearcher
	scheduler *DayScheduler
	presenter *Presenter

	status       *statusRegistry
	phaseTimeout time.Duration
}

// NewCoordinator wires the four phases from the provider set. shareBaseURL
// feeds the presentation phase's sharing links.
func NewCoordinator(providers provider.Set, shareBaseURL string, opts ...Option) *Coordinator {
	c := &Coordinator{
		planner:   NewPlanner(providers.Destinations, providers.Activities),
		booking:   NewBookingSearcher(providers.Flights, providers.Lodgings),
		scheduler: NewDayScheduler(),
		presenter: NewPresenter(shareBaseURL),
		status:    newStatusRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes the phases in fixed order, failing fast on the first phase
// error. Phases that never started remain idle. On success the compiled
// aggregate takes its headline numbers straight from the owning phases;
// nothing is recomputed here.
func (c *Coordinator) Run(ctx context.Context, tc domain.TripContext) (domain.TripPlanningResult, error) {
	if err := tc.Validate(); err != nil {
		// Rejected before any phase starts; every phase stays idle.
		c.status.setRun(RunFailed)
		return domain.TripPlanningResult{}, fmt.Errorf("pipeline.Coordinator.Run: %w", err)
	}
	c.status.setRun(RunInProgress)

	planned, err := runPhase(ctx, c, c.planner, func(ctx context.Context) (domain.PlannerResult, error) {
		return c.planner.Plan(ctx, tc)
	})
	if err != nil {
		return domain.TripPlanningResult{}, err
	}

	destination := planned.Recommendation.Destination

	booked, err := runPhase(ctx, c, c.booking, func(ctx context.Context) (domain.BookingResult, error) {
		return c.booking.Search(ctx, tc, destination.Name)
	})
	if err != nil {
		return domain.TripPlanningResult{}, err
	}

	scheduled, err := runPhase(ctx, c, c.scheduler, func(ctx context.Context) (domain.ScheduleResult, error) {
		return c.scheduler.Schedule(ctx, planned.Activities, tc)
	})
	if err != nil {
		return domain.TripPlanningResult{}, err
	}

	presentation, err := runPhase(ctx, c, c.presenter, func(ctx context.Context) (domain.Presentation, error) {
		return c.presenter.Prepare(ctx, tc, planned, booked, scheduled)
	})
	if err != nil {
		return domain.TripPlanningResult{}, err
	}

	c.status.setRun(RunSucceeded)
	return compile(tc, planned, booked, scheduled, presentation), nil
}

// Status returns a progress snapshot: completed phases over four plus the
// per-phase states. Safe to call concurrently with Run; it never blocks the
// run beyond a read lock.
func (c *Coordinator) Status() Progress {
	return c.status.snapshot()
}

// runPhase drives one phase from running to completed or failed, applying the
// optional phase deadline and the fail-fast policy. The returned error is an
// *Error tagged with the phase name.
func runPhase[T any](ctx context.Context, c *Coordinator, phase Phase, fn func(context.Context) (T, error)) (T, error) {
	name := phase.Name()
	c.status.setRunning(name)

	if c.phaseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.phaseTimeout)
		defer cancel()
	}

	out, err := fn(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", domain.ErrTimeout, err)
		}
		c.status.setFailed(name, err)
		c.status.setRun(RunFailed)
		var zero T
		return zero, &Error{Phase: name, Err: err}
	}

	c.status.setCompleted(name, out)
	return out, nil
}

// compile assembles the terminal aggregate. Total cost and savings come from
// the booking phase's best combination, the duration from the scheduler's
// day count, and the destination from the planner's choice.
func compile(tc domain.TripContext, planned domain.PlannerResult, booked domain.BookingResult, scheduled domain.ScheduleResult, presentation domain.Presentation) domain.TripPlanningResult {
	// Best is non-nil here: the booking phase fails on empty results.
	best := booked.Best

	return domain.TripPlanningResult{
		UserID:       tc.UserID,
		Planner:      planned,
		Booking:      booked,
		Schedule:     scheduled,
		Presentation: presentation,
		Summary: domain.TripSummary{
			Destination:  planned.Recommendation.Destination.Name,
			TotalCost:    best.TotalCost,
			Savings:      best.Savings,
			DurationDays: len(scheduled.Days),
			Status:       domain.PlanPlanned,
			Confidence:   confidence(planned, booked),
		},
	}
}

// confidence is a deterministic heuristic in [0,1]: more surviving
// destinations, more booking alternatives, a budget plan, and a fuller
// activity list all raise it. It is a display aid, not a probability.
func confidence(planned domain.PlannerResult, booked domain.BookingResult) float64 {
	score := 0.5
	if len(planned.Destinations) > 1 {
		score += 0.15
	}
	if len(booked.Alternatives) >= 3 {
		score += 0.15
	}
	if planned.Budget != nil {
		score += 0.1
	}
	if len(planned.Activities) >= topActivityCount {
		score += 0.05
	}
	if score > 0.95 {
		score = 0.95
	}
	return score
}
