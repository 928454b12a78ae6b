package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/mhutchens/trip-planner/internal/domain"
)

// CreatePlanRequest is the JSON body for POST /plans.
// Dates use the "2006-01-02" wire format; start and end must be supplied
// together or not at all.
type CreatePlanRequest struct {
	UserID          string              `json:"user_id"`
	Budget          *float64            `json:"budget,omitempty"`
	Currency        *string             `json:"currency,omitempty"`
	StartDate       *openapi_types.Date `json:"start_date,omitempty"`
	EndDate         *openapi_types.Date `json:"end_date,omitempty"`
	DestinationHint *string             `json:"destination_hint,omitempty"`
	Family          *FamilyRequest      `json:"family,omitempty"`
}

// FamilyRequest mirrors domain.FamilyProfile on the wire.
type FamilyRequest struct {
	Adults       int      `json:"adults"`
	Children     int      `json:"children"`
	ChildAges    []int    `json:"child_ages,omitempty"`
	Interests    []string `json:"interests,omitempty"`
	DietaryNeeds []string `json:"dietary_needs,omitempty"`
}

// ListPlansResponse is the JSON body for GET /plans.
type ListPlansResponse struct {
	Data       []domain.TripPlanningResult `json:"data"`
	Pagination Pagination                  `json:"pagination"`
}

// Pagination echoes the applied paging values plus the total row count.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// createPlan handles POST /plans: it builds a TripContext from the request,
// runs the full planning pipeline, and returns the persisted plan.
func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large",
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "invalid request body: "+err.Error())
		return
	}

	tc, err := requestToContext(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	plan, err := s.plans.Run(r.Context(), tc)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, plan)
}

// getPlan handles GET /plans/{id}.
func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	plan, err := s.plans.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "plan not found")
			return
		}
		writePipelineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// listPlans handles GET /plans.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))

	plans, total, err := s.plans.ListPaged(r.Context(), params)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ListPlansResponse{
		Data: plans,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// deletePlan handles DELETE /plans/{id}.
func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := s.plans.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "plan not found")
			return
		}
		writePipelineError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// exportPlan handles GET /plans/{id}/export?format=json|document|calendar.
// The artifact payload is served verbatim with its own content type; the
// pipeline already did the formatting.
func (s *Server) exportPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	format := domain.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = domain.ExportJSON
	}

	plan, err := s.plans.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "plan not found")
			return
		}
		writePipelineError(w, err)
		return
	}

	for _, artifact := range plan.Presentation.Exports {
		if artifact.Format == format {
			w.Header().Set("Content-Type", artifact.ContentType)
			w.Header().Set("Content-Disposition", `attachment; filename="`+artifact.SuggestedFilename+`"`)
			//nolint:errcheck
			w.Write(artifact.Payload)
			return
		}
	}
	writeError(w, http.StatusUnprocessableEntity, "validation_error",
		"unknown export format: "+string(format))
}

// getRunStatus handles GET /runs/{id}: the read-only progress snapshot for
// an in-flight or finished pipeline run.
func (s *Server) getRunStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	progress, err := s.plans.RunStatus(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "run not found")
			return
		}
		writePipelineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

// --- mapping helpers --------------------------------------------------------

// requestToContext converts a CreatePlanRequest into a domain.TripContext.
// Deeper validation (required user id, date ordering) belongs to the
// pipeline; this only rejects structurally broken input.
func requestToContext(req CreatePlanRequest) (domain.TripContext, error) {
	tc := domain.TripContext{
		UserID: req.UserID,
		Budget: req.Budget,
	}
	if req.Currency != nil {
		tc.Currency = *req.Currency
	}
	if req.DestinationHint != nil {
		tc.DestinationHint = *req.DestinationHint
	}

	if (req.StartDate == nil) != (req.EndDate == nil) {
		return domain.TripContext{}, errors.New("start_date and end_date must be supplied together")
	}
	if req.StartDate != nil {
		tc.Dates = &domain.DateRange{Start: req.StartDate.Time, End: req.EndDate.Time}
	}

	if req.Family != nil {
		tc.Family = &domain.FamilyProfile{
			Adults:       req.Family.Adults,
			Children:     req.Family.Children,
			ChildAges:    req.Family.ChildAges,
			Interests:    req.Family.Interests,
			DietaryNeeds: req.Family.DietaryNeeds,
		}
	}
	return tc, nil
}

// parseID extracts and parses the {id} path parameter, writing a 400 on
// malformed input.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid id: must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt returns the named query parameter as *int, or nil when absent or
// malformed; malformed paging input silently falls back to defaults.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}
