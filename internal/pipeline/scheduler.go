package pipeline

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mhutchens/trip-planner/internal/domain"
)

const (
	dayStartHour        = 9
	travelBufferMinutes = 30
	lunchStartHour      = 12
	lunchEndHour        = 13
	dinnerStartHour     = 18
	dinnerEndHour       = 19

	flexHighMaxMinutes   = 6 * 60
	flexMediumMaxMinutes = 8 * 60

	bestDayCount = 2
)

// DayScheduler is the day scheduling phase. Activities are distributed into
// equally sized chunks per day, preserving input order; there is no
// geographic or preference reordering. Within a day, activities are laid out
// from a fixed start time with a fixed travel buffer between them; the clock
// never starts an activity inside the lunch window.
type DayScheduler struct{}

// NewDayScheduler constructs the scheduling phase.
func NewDayScheduler() *DayScheduler {
	return &DayScheduler{}
}

// Name implements Phase.
func (s *DayScheduler) Name() string { return PhaseScheduler }

// Schedule executes the phase. The trip must span at least one full day.
func (s *DayScheduler) Schedule(ctx context.Context, activities []domain.ActivityCandidate, tc domain.TripContext) (domain.ScheduleResult, error) {
	if tc.Dates == nil {
		return domain.ScheduleResult{}, fmt.Errorf("pipeline.DayScheduler.Schedule: %w: date range is required", domain.ErrInvalidContext)
	}
	days := tc.Dates.Days()
	if days < 1 {
		return domain.ScheduleResult{}, fmt.Errorf("pipeline.DayScheduler.Schedule: %w: trip spans %d days", domain.ErrInvalidDuration, days)
	}
	// Scheduling is pure computation; honor cancellation once up front.
	if err := ctx.Err(); err != nil {
		return domain.ScheduleResult{}, err
	}

	perDay := 0
	if len(activities) > 0 {
		perDay = (len(activities) + days - 1) / days
	}

	schedules := make([]domain.DaySchedule, 0, days)
	for d := 0; d < days; d++ {
		var chunk []domain.ActivityCandidate
		if perDay > 0 {
			lo := d * perDay
			if lo < len(activities) {
				chunk = activities[lo:min(lo+perDay, len(activities))]
			}
		}
		date := tc.Dates.Start.AddDate(0, 0, d)
		schedules = append(schedules, layoutDay(d+1, date, chunk))
	}

	return domain.ScheduleResult{
		Days:         schedules,
		Summary:      summarize(schedules),
		Optimization: optimize(schedules),
	}, nil
}

// layoutDay places a day's activities sequentially from the fixed day start,
// inserting the travel buffer between activities and advancing the clock to
// the end of the lunch window whenever it lands inside it.
func layoutDay(day int, date time.Time, chunk []domain.ActivityCandidate) domain.DaySchedule {
	at := func(hour int) time.Time {
		return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location())
	}
	lunchStart, lunchEnd := at(lunchStartHour), at(lunchEndHour)

	clock := at(dayStartHour)
	var (
		placed       []domain.ScheduledActivity
		totalMinutes int
		totalCost    float64
	)
	for i, a := range chunk {
		travel := 0
		if i > 0 {
			travel = travelBufferMinutes
			clock = clock.Add(travelBufferMinutes * time.Minute)
		}
		// Never start an activity mid-lunch.
		if !clock.Before(lunchStart) && clock.Before(lunchEnd) {
			clock = lunchEnd
		}
		start := clock
		end := start.Add(time.Duration(a.DurationMinutes) * time.Minute)
		placed = append(placed, domain.ScheduledActivity{
			Activity:      a,
			Start:         start,
			End:           end,
			TravelMinutes: travel,
		})
		clock = end
		totalMinutes += a.DurationMinutes + travel
		// Budget planning uses the worst-case activity cost.
		totalCost += a.Cost.Max
	}

	// Lunch and dinner are always recorded, whether or not an activity
	// collides with either window.
	breaks := []domain.Break{
		{Type: domain.BreakLunch, Start: lunchStart, End: lunchEnd},
		{Type: domain.BreakDinner, Start: at(dinnerStartHour), End: at(dinnerEndHour)},
	}

	return domain.DaySchedule{
		Day:          day,
		Date:         date,
		Activities:   placed,
		Breaks:       breaks,
		TotalMinutes: totalMinutes,
		TotalCost:    totalCost,
		Flexibility:  classifyFlexibility(totalMinutes),
	}
}

func classifyFlexibility(scheduledMinutes int) domain.Flexibility {
	switch {
	case scheduledMinutes < flexHighMaxMinutes:
		return domain.FlexibilityHigh
	case scheduledMinutes < flexMediumMaxMinutes:
		return domain.FlexibilityMedium
	default:
		return domain.FlexibilityLow
	}
}

func summarize(days []domain.DaySchedule) domain.ScheduleSummary {
	summary := domain.ScheduleSummary{
		Days:        len(days),
		Flexibility: overallFlexibility(days),
	}
	for _, d := range days {
		summary.TotalMinutes += d.TotalMinutes
		summary.TotalCost += d.TotalCost
	}
	return summary
}

// overallFlexibility is the modal per-day value. Ties go to the value that
// comes first in the fixed high, medium, low enumeration order.
func overallFlexibility(days []domain.DaySchedule) domain.Flexibility {
	counts := make(map[domain.Flexibility]int, 3)
	for _, d := range days {
		counts[d.Flexibility]++
	}
	best := domain.FlexibilityHigh
	for _, f := range []domain.Flexibility{domain.FlexibilityMedium, domain.FlexibilityLow} {
		if counts[f] > counts[best] {
			best = f
		}
	}
	return best
}

// optimize derives the travel statistics and the best/rest day picks.
func optimize(days []domain.DaySchedule) domain.RouteOptimization {
	totalTravel := 0
	for _, d := range days {
		for _, a := range d.Activities {
			totalTravel += a.TravelMinutes
		}
	}

	// Day indexes ordered by activity count descending, day ascending.
	byCount := make([]int, len(days))
	for i := range days {
		byCount[i] = i
	}
	sort.SliceStable(byCount, func(i, j int) bool {
		ci, cj := len(days[byCount[i]].Activities), len(days[byCount[j]].Activities)
		if ci != cj {
			return ci > cj
		}
		return byCount[i] < byCount[j]
	})

	best := make([]int, 0, bestDayCount)
	for _, i := range byCount[:min(bestDayCount, len(byCount))] {
		best = append(best, days[i].Day)
	}
	// The rest day has the fewest activities; ties prefer the earliest day.
	rest := days[byCount[len(byCount)-1]].Day
	fewest := len(days[byCount[len(byCount)-1]].Activities)
	for _, i := range byCount {
		if len(days[i].Activities) == fewest {
			rest = days[i].Day
			break
		}
	}

	return domain.RouteOptimization{
		TotalTravelMinutes: totalTravel,
		RouteEfficiency:    math.Max(0, 100-float64(totalTravel)/60),
		BestDays:           best,
		RestDay:            rest,
	}
}
