// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server; methods are split into domain-specific
// files (health.go, plan.go) but all share the same Server struct so they
// can access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mhutchens/trip-planner/internal/domain"
	"github.com/mhutchens/trip-planner/internal/pipeline"
)

// PlanServicer defines the business operations the plan handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the pipeline or the database.
type PlanServicer interface {
	Run(ctx context.Context, tc domain.TripContext) (domain.TripPlanningResult, error)
	RunStatus(id uuid.UUID) (pipeline.Progress, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.TripPlanningResult, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.TripPlanningResult, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	plans PlanServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(plans PlanServicer) *Server {
	return &Server{plans: plans}
}

// Routes registers every endpoint on the given router.
// Wire it in main.go after the shared middleware stack.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.getHealth)

	r.Post("/plans", s.createPlan)
	r.Get("/plans", s.listPlans)
	r.Get("/plans/{id}", s.getPlan)
	r.Delete("/plans/{id}", s.deletePlan)
	r.Get("/plans/{id}/export", s.exportPlan)

	r.Get("/runs/{id}", s.getRunStatus)
}
