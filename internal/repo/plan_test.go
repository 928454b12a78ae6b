package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhutchens/trip-planner/internal/domain"
	"github.com/mhutchens/trip-planner/internal/repo"
	"github.com/mhutchens/trip-planner/testutil"
)

// newTestRepo returns a PlanRepo bound to a transaction that is rolled back
// when the test finishes, so tests never see each other's rows.
func newTestRepo(t *testing.T) repo.PlanRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() {
		//nolint:errcheck // rollback after commit-less tests always succeeds
		tx.Rollback(context.Background())
	})

	return repo.NewPlanRepo(tx)
}

func samplePlan(userID string) domain.TripPlanningResult {
	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	return domain.TripPlanningResult{
		ID:     uuid.New(),
		UserID: userID,
		Planner: domain.PlannerResult{
			Recommendation: domain.Recommendation{
				Destination: domain.DestinationCandidate{ID: "dest-orlando", Name: "Orlando"},
			},
		},
		Schedule: domain.ScheduleResult{
			Days: []domain.DaySchedule{{Day: 1, Date: start}},
		},
		Summary: domain.TripSummary{
			Destination:  "Orlando",
			TotalCost:    1117,
			Savings:      338,
			DurationDays: 7,
			Status:       domain.PlanPlanned,
			Confidence:   0.95,
		},
	}
}

func TestPlanRepo_CreateAndGet(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	plan := samplePlan("user-1")

	created, err := r.Create(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := r.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, got.ID)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "Orlando", got.Summary.Destination)
	assert.Equal(t, 1117.0, got.Summary.TotalCost)
	assert.Equal(t, 0.95, got.Summary.Confidence)
	assert.Equal(t, "Orlando", got.Planner.Recommendation.Destination.Name)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestPlanRepo_GetByID_NotFound(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.GetByID(context.Background(), uuid.New())

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlanRepo_ListPaged(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := r.Create(ctx, samplePlan("user-list"))
		require.NoError(t, err)
	}

	plans, total, err := r.ListPaged(ctx, domain.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, plans, 2)

	rest, total, err := r.ListPaged(ctx, domain.PaginationParams{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rest, 1)
}

func TestPlanRepo_ListPaged_Empty(t *testing.T) {
	r := newTestRepo(t)

	plans, total, err := r.ListPaged(context.Background(), domain.PaginationParams{Page: 1, Limit: 20})

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, plans)
	assert.Empty(t, plans)
}

func TestPlanRepo_Delete(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	plan := samplePlan("user-del")

	_, err := r.Create(ctx, plan)
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, plan.ID))

	_, err = r.GetByID(ctx, plan.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlanRepo_Delete_NotFound(t *testing.T) {
	r := newTestRepo(t)

	err := r.Delete(context.Background(), uuid.New())

	require.ErrorIs(t, err, domain.ErrNotFound)
}
