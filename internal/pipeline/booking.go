package pipeline

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mhutchens/trip-planner/internal/domain"
	"github.com/mhutchens/trip-planner/internal/provider"
)

const (
	// roundTripLegs reflects the current domain assumption that the same
	// fare is paid outbound and inbound. Outbound/inbound legs should be
	// independently searchable eventually; until providers expose that,
	// the doubled one-way fare stands in for the round trip.
	roundTripLegs = 2

	// alternativeCount is how many runner-up combinations are surfaced
	// alongside the best one.
	alternativeCount = 3

	// bookingLeadDays sets the booking deadline relative to departure.
	bookingLeadDays = 14
)

// BookingSearcher is the booking search phase. It fetches flight and lodging
// candidates, forms the full cross-product of combinations, prices each, and
// ranks by total cost.
type BookingSearcher struct {
	flights  provider.FlightProvider
	lodgings provider.LodgingProvider
}

// NewBookingSearcher constructs the booking phase from its two providers.
func NewBookingSearcher(flights provider.FlightProvider, lodgings provider.LodgingProvider) *BookingSearcher {
	return &BookingSearcher{flights: flights, lodgings: lodgings}
}

// Name implements Phase.
func (b *BookingSearcher) Name() string { return PhaseBooking }

// Search executes the phase for the destination the planner chose.
// Zero flights or zero lodgings fails with domain.ErrEmptySearch rather than
// returning a result whose Best does not exist.
func (b *BookingSearcher) Search(ctx context.Context, tc domain.TripContext, destination string) (domain.BookingResult, error) {
	if destination == "" {
		return domain.BookingResult{}, fmt.Errorf("pipeline.BookingSearcher.Search: %w: destination is required", domain.ErrInvalidContext)
	}
	if tc.Dates == nil {
		return domain.BookingResult{}, fmt.Errorf("pipeline.BookingSearcher.Search: %w: date range is required", domain.ErrInvalidContext)
	}

	// The two lookups have no data dependency on each other, so they run
	// concurrently. Both must finish before combinations are formed; a
	// failure of either aborts the phase.
	var (
		flights  []domain.FlightOption
		lodgings []domain.LodgingOption
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		flights, err = b.flights.SearchFlights(gctx, tc, destination)
		if err != nil {
			return fmt.Errorf("flight search: %w: %w", domain.ErrProvider, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		lodgings, err = b.lodgings.SearchLodgings(gctx, tc, destination)
		if err != nil {
			return fmt.Errorf("lodging search: %w: %w", domain.ErrProvider, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.BookingResult{}, fmt.Errorf("pipeline.BookingSearcher.Search: %w", err)
	}

	if len(flights) == 0 {
		return domain.BookingResult{}, fmt.Errorf("pipeline.BookingSearcher.Search: %w: no flights to %s", domain.ErrEmptySearch, destination)
	}
	if len(lodgings) == 0 {
		return domain.BookingResult{}, fmt.Errorf("pipeline.BookingSearcher.Search: %w: no lodgings in %s", domain.ErrEmptySearch, destination)
	}

	bookBy := tc.Dates.Start.AddDate(0, 0, -bookingLeadDays)
	combos := make([]domain.BookingCombination, 0, len(flights)*len(lodgings))
	var sum float64
	for _, f := range flights {
		for _, l := range lodgings {
			total := roundTripLegs*f.Price + l.TotalPrice
			combos = append(combos, domain.BookingCombination{
				Flight:    f,
				Lodging:   l,
				TotalCost: total,
				BookBy:    bookBy,
			})
			sum += total
		}
	}

	// Savings measure each combination against the search-wide average,
	// going negative for above-average options.
	average := sum / float64(len(combos))
	for i := range combos {
		combos[i].Savings = domain.Round2(average - combos[i].TotalCost)
	}

	sort.SliceStable(combos, func(i, j int) bool {
		return combos[i].TotalCost < combos[j].TotalCost
	})

	best := combos[0]
	return domain.BookingResult{
		Combinations: combos,
		Best:         &best,
		Alternatives: combos[1:min(len(combos), 1+alternativeCount)],
		Prices: domain.PriceStats{
			Average: math.Round(average),
			Min:     combos[0].TotalCost,
			Max:     combos[len(combos)-1].TotalCost,
		},
	}, nil
}
