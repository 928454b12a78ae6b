package pipeline

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mhutchens/trip-planner/internal/domain"
	"github.com/mhutchens/trip-planner/internal/provider"
)

const (
	// budgetFilterFactor gives near-budget destinations a survival buffer:
	// a destination is dropped only when its minimum budget exceeds
	// 1.5× the trip budget.
	budgetFilterFactor = 1.5

	// Budget breakdown shares. The activities share is a cap, not a fixed
	// allocation; see breakdown.
	accommodationShare = 0.40
	foodShare          = 0.25
	transportShare     = 0.15
	activityShare      = 0.20

	// topActivityCount is how many activities the recommendation surfaces,
	// taken in provider order.
	topActivityCount = 5
)

// Planner is the destination/activity planning phase. Given a trip context
// it proposes ranked destinations, selects the top survivor of the budget
// filter, fetches activities for it, and derives a budget breakdown.
type Planner struct {
	destinations provider.DestinationProvider
	activities   provider.ActivityProvider
}

// NewPlanner constructs the planning phase from its two providers.
func NewPlanner(destinations provider.DestinationProvider, activities provider.ActivityProvider) *Planner {
	return &Planner{destinations: destinations, activities: activities}
}

// Name implements Phase.
func (p *Planner) Name() string { return PhasePlanner }

// Plan executes the phase. It fails with domain.ErrInvalidContext when the
// user id is missing and domain.ErrNoDestination when the budget filter
// leaves nothing to choose.
func (p *Planner) Plan(ctx context.Context, tc domain.TripContext) (domain.PlannerResult, error) {
	if strings.TrimSpace(tc.UserID) == "" {
		return domain.PlannerResult{}, fmt.Errorf("pipeline.Planner.Plan: %w: user id is required", domain.ErrInvalidContext)
	}

	candidates, err := p.destinations.SearchDestinations(ctx, tc)
	if err != nil {
		return domain.PlannerResult{}, fmt.Errorf("pipeline.Planner.Plan: destination search: %w: %w", domain.ErrProvider, err)
	}

	ranked := rankDestinations(candidates)
	if tc.Budget != nil {
		ranked = filterByBudget(ranked, *tc.Budget*budgetFilterFactor)
	}
	if len(ranked) == 0 {
		return domain.PlannerResult{}, fmt.Errorf("pipeline.Planner.Plan: %w", domain.ErrNoDestination)
	}
	top := ranked[0]

	activities, err := p.activities.SearchActivities(ctx, tc, top.Name)
	if err != nil {
		return domain.PlannerResult{}, fmt.Errorf("pipeline.Planner.Plan: activity search: %w: %w", domain.ErrProvider, err)
	}

	result := domain.PlannerResult{
		Destinations: ranked,
		Activities:   activities,
		Recommendation: domain.Recommendation{
			Destination:   top,
			TopActivities: firstN(activities, topActivityCount),
		},
	}
	if tc.Budget != nil {
		b := breakdown(*tc.Budget, activities)
		result.Budget = &b
	}
	return result, nil
}

// rankDestinations returns a sorted copy: family-friendliness score
// descending, ties broken by ascending minimum budget. The input slice is
// never reordered; providers may hand out shared data.
func rankDestinations(candidates []domain.DestinationCandidate) []domain.DestinationCandidate {
	ranked := make([]domain.DestinationCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].FamilyScore != ranked[j].FamilyScore {
			return ranked[i].FamilyScore > ranked[j].FamilyScore
		}
		return ranked[i].Budget.Min < ranked[j].Budget.Min
	})
	return ranked
}

// filterByBudget keeps destinations whose minimum budget fits within limit.
func filterByBudget(candidates []domain.DestinationCandidate, limit float64) []domain.DestinationCandidate {
	kept := candidates[:0:0]
	for _, d := range candidates {
		if d.Budget.Min <= limit {
			kept = append(kept, d)
		}
	}
	return kept
}

// breakdown splits the nominal budget 40/25/15 across accommodation, food,
// and transportation. The activities component is the lower of the activity
// max-cost sum and 20% of the budget; Total is the true sum of the four
// parts, which may undershoot the nominal budget when the cap binds.
func breakdown(budget float64, activities []domain.ActivityCandidate) domain.BudgetBreakdown {
	var activityMaxSum float64
	for _, a := range activities {
		activityMaxSum += a.Cost.Max
	}

	b := domain.BudgetBreakdown{
		Accommodation:  domain.Round2(budget * accommodationShare),
		Food:           domain.Round2(budget * foodShare),
		Transportation: domain.Round2(budget * transportShare),
		Activities:     domain.Round2(math.Min(activityMaxSum, budget*activityShare)),
	}
	b.Total = domain.Round2(b.Accommodation + b.Food + b.Transportation + b.Activities)
	return b
}

// firstN returns a copy of the first n elements (all of them when fewer).
func firstN(activities []domain.ActivityCandidate, n int) []domain.ActivityCandidate {
	if len(activities) < n {
		n = len(activities)
	}
	out := make([]domain.ActivityCandidate, n)
	copy(out, activities[:n])
	return out
}
