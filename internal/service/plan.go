// Package service contains the business logic for the trip planner API.
// Services validate inputs, run the planning pipeline, and orchestrate repo
// calls. No SQL lives here: services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mhutchens/trip-planner/internal/domain"
	"github.com/mhutchens/trip-planner/internal/pipeline"
	"github.com/mhutchens/trip-planner/internal/provider"
	"github.com/mhutchens/trip-planner/internal/repo"
)

// PlanService runs planning pipelines and manages persisted plans. Each run
// gets its own single-use pipeline.Coordinator; the service keeps every
// coordinator registered under the run's ID so progress can be polled while
// the run is in flight and after it finishes.
type PlanService struct {
	providers    provider.Set
	plans        repo.PlanRepo
	shareBaseURL string
	phaseTimeout time.Duration

	mu   sync.RWMutex
	runs map[uuid.UUID]*pipeline.Coordinator
}

// NewPlanService constructs a PlanService. phaseTimeout bounds each pipeline
// phase; zero disables the bound.
func NewPlanService(providers provider.Set, plans repo.PlanRepo, shareBaseURL string, phaseTimeout time.Duration) *PlanService {
	return &PlanService{
		providers:    providers,
		plans:        plans,
		shareBaseURL: shareBaseURL,
		phaseTimeout: phaseTimeout,
		runs:         make(map[uuid.UUID]*pipeline.Coordinator),
	}
}

// Run executes one full planning pipeline for the given context and persists
// the compiled result under the run's ID. Pipeline errors are propagated
// unchanged (wrapped for context) and nothing is persisted on failure.
func (s *PlanService) Run(ctx context.Context, tc domain.TripContext) (domain.TripPlanningResult, error) {
	runID := uuid.New()
	coordinator := pipeline.NewCoordinator(s.providers, s.shareBaseURL,
		pipeline.WithPhaseTimeout(s.phaseTimeout))

	// Register before starting so status polls can observe the run in flight.
	s.mu.Lock()
	s.runs[runID] = coordinator
	s.mu.Unlock()

	result, err := coordinator.Run(ctx, tc)
	if err != nil {
		return domain.TripPlanningResult{}, fmt.Errorf("service.PlanService.Run: %w", err)
	}

	result.ID = runID
	stored, err := s.plans.Create(ctx, result)
	if err != nil {
		return domain.TripPlanningResult{}, fmt.Errorf("service.PlanService.Run: persist: %w", err)
	}
	return stored, nil
}

// RunStatus returns the progress snapshot for a run. Runs stay queryable for
// the lifetime of the service, matching the pipeline's progress-query
// contract. Returns domain.ErrNotFound for an unknown run ID.
func (s *PlanService) RunStatus(runID uuid.UUID) (pipeline.Progress, error) {
	s.mu.RLock()
	coordinator, ok := s.runs[runID]
	s.mu.RUnlock()
	if !ok {
		return pipeline.Progress{}, fmt.Errorf("service.PlanService.RunStatus: %w", domain.ErrNotFound)
	}
	return coordinator.Status(), nil
}

// GetByID returns a single persisted plan by ID.
func (s *PlanService) GetByID(ctx context.Context, id uuid.UUID) (domain.TripPlanningResult, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return domain.TripPlanningResult{}, fmt.Errorf("service.PlanService.GetByID: %w", err)
	}
	return plan, nil
}

// ListPaged returns one page of persisted plans plus the total count.
func (s *PlanService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.TripPlanningResult, int64, error) {
	plans, total, err := s.plans.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.PlanService.ListPaged: %w", err)
	}
	if plans == nil {
		plans = []domain.TripPlanningResult{}
	}
	return plans, total, nil
}

// Delete removes a persisted plan by ID.
func (s *PlanService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.plans.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.PlanService.Delete: %w", err)
	}
	return nil
}
