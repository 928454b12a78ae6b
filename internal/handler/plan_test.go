package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhutchens/trip-planner/internal/domain"
	"github.com/mhutchens/trip-planner/internal/handler"
	"github.com/mhutchens/trip-planner/internal/pipeline"
)

// mockPlanServicer implements handler.PlanServicer with overridable functions.
type mockPlanServicer struct {
	RunFunc       func(ctx context.Context, tc domain.TripContext) (domain.TripPlanningResult, error)
	RunStatusFunc func(id uuid.UUID) (pipeline.Progress, error)
	GetByIDFunc   func(ctx context.Context, id uuid.UUID) (domain.TripPlanningResult, error)
	ListPagedFunc func(ctx context.Context, p domain.PaginationParams) ([]domain.TripPlanningResult, int64, error)
	DeleteFunc    func(ctx context.Context, id uuid.UUID) error
}

var _ handler.PlanServicer = (*mockPlanServicer)(nil)

func (m *mockPlanServicer) Run(ctx context.Context, tc domain.TripContext) (domain.TripPlanningResult, error) {
	return m.RunFunc(ctx, tc)
}

func (m *mockPlanServicer) RunStatus(id uuid.UUID) (pipeline.Progress, error) {
	return m.RunStatusFunc(id)
}

func (m *mockPlanServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.TripPlanningResult, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockPlanServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.TripPlanningResult, int64, error) {
	return m.ListPagedFunc(ctx, p)
}

func (m *mockPlanServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

// newTestRouter wires the handlers onto a bare chi router, as main does.
func newTestRouter(svc handler.PlanServicer) http.Handler {
	r := chi.NewRouter()
	handler.NewServer(svc).Routes(r)
	return r
}

// do performs a request against the router and returns the recorder.
func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// errorCode decodes the standard error envelope and returns the code.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.Code
}

func samplePlan(id uuid.UUID) domain.TripPlanningResult {
	return domain.TripPlanningResult{
		ID:     id,
		UserID: "user-1",
		Presentation: domain.Presentation{
			Exports: []domain.ExportArtifact{
				{Format: domain.ExportJSON, ContentType: "application/json",
					SuggestedFilename: "trip.json", Payload: []byte(`{"trip_id":"t"}`)},
				{Format: domain.ExportDocument, ContentType: "text/markdown; charset=utf-8",
					SuggestedFilename: "trip.md", Payload: []byte("# Trip")},
				{Format: domain.ExportCalendar, ContentType: "text/calendar; charset=utf-8",
					SuggestedFilename: "trip.ics", Payload: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")},
			},
		},
		Summary: domain.TripSummary{Destination: "Orlando", Status: domain.PlanPlanned},
	}
}

func TestGetHealth(t *testing.T) {
	router := newTestRouter(&mockPlanServicer{})

	rec := do(t, router, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreatePlan_Success(t *testing.T) {
	id := uuid.New()
	var gotContext domain.TripContext
	router := newTestRouter(&mockPlanServicer{
		RunFunc: func(_ context.Context, tc domain.TripContext) (domain.TripPlanningResult, error) {
			gotContext = tc
			return samplePlan(id), nil
		},
	})

	body := `{
		"user_id": "user-1",
		"budget": 5000,
		"currency": "USD",
		"start_date": "2026-06-01",
		"end_date": "2026-06-08",
		"destination_hint": "Orlando",
		"family": {"adults": 2, "children": 2, "child_ages": [6, 9]}
	}`
	rec := do(t, router, http.MethodPost, "/plans", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	assert.Equal(t, "user-1", gotContext.UserID)
	require.NotNil(t, gotContext.Budget)
	assert.Equal(t, 5000.0, *gotContext.Budget)
	require.NotNil(t, gotContext.Dates)
	assert.Equal(t, 7, gotContext.Dates.Days())
	assert.Equal(t, "Orlando", gotContext.DestinationHint)
	require.NotNil(t, gotContext.Family)
	assert.Equal(t, []int{6, 9}, gotContext.Family.ChildAges)

	var plan domain.TripPlanningResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, id, plan.ID)
}

func TestCreatePlan_MalformedBody(t *testing.T) {
	router := newTestRouter(&mockPlanServicer{})

	rec := do(t, router, http.MethodPost, "/plans", `{"user_id": `)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}

func TestCreatePlan_DatesMustComeTogether(t *testing.T) {
	router := newTestRouter(&mockPlanServicer{})

	rec := do(t, router, http.MethodPost, "/plans", `{"user_id":"u","start_date":"2026-06-01"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}

func TestCreatePlan_PipelineErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid context", fmt.Errorf("run: %w: user id is required", domain.ErrInvalidContext),
			http.StatusUnprocessableEntity, "invalid_context"},
		{"invalid duration", fmt.Errorf("run: %w: trip spans 0 days", domain.ErrInvalidDuration),
			http.StatusUnprocessableEntity, "invalid_duration"},
		{"no destination", fmt.Errorf("run: %w", domain.ErrNoDestination),
			http.StatusUnprocessableEntity, "no_destination"},
		{"empty search", fmt.Errorf("run: %w: no flights", domain.ErrEmptySearch),
			http.StatusBadGateway, "empty_search_result"},
		{"timeout", fmt.Errorf("run: %w: deadline exceeded", domain.ErrTimeout),
			http.StatusBadGateway, "timeout"},
		{"provider failure", fmt.Errorf("run: %w: gds down", domain.ErrProvider),
			http.StatusBadGateway, "provider_failure"},
		{"unknown error", fmt.Errorf("run: something odd"),
			http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockPlanServicer{
				RunFunc: func(context.Context, domain.TripContext) (domain.TripPlanningResult, error) {
					return domain.TripPlanningResult{}, tt.err
				},
			})

			rec := do(t, router, http.MethodPost, "/plans", `{"user_id":"u"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, rec))
		})
	}
}

func TestGetPlan(t *testing.T) {
	id := uuid.New()
	router := newTestRouter(&mockPlanServicer{
		GetByIDFunc: func(_ context.Context, got uuid.UUID) (domain.TripPlanningResult, error) {
			assert.Equal(t, id, got)
			return samplePlan(id), nil
		},
	})

	rec := do(t, router, http.MethodGet, "/plans/"+id.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	var plan domain.TripPlanningResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, id, plan.ID)
}

func TestGetPlan_NotFound(t *testing.T) {
	router := newTestRouter(&mockPlanServicer{
		GetByIDFunc: func(context.Context, uuid.UUID) (domain.TripPlanningResult, error) {
			return domain.TripPlanningResult{}, domain.ErrNotFound
		},
	})

	rec := do(t, router, http.MethodGet, "/plans/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))
}

func TestGetPlan_MalformedID(t *testing.T) {
	router := newTestRouter(&mockPlanServicer{})

	rec := do(t, router, http.MethodGet, "/plans/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", errorCode(t, rec))
}

func TestListPlans(t *testing.T) {
	var gotParams domain.PaginationParams
	router := newTestRouter(&mockPlanServicer{
		ListPagedFunc: func(_ context.Context, p domain.PaginationParams) ([]domain.TripPlanningResult, int64, error) {
			gotParams = p
			return []domain.TripPlanningResult{samplePlan(uuid.New())}, 42, nil
		},
	})

	rec := do(t, router, http.MethodGet, "/plans?page=3&limit=10", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PaginationParams{Page: 3, Limit: 10}, gotParams)

	var resp handler.ListPlansResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 3, resp.Pagination.Page)
	assert.Equal(t, 10, resp.Pagination.Limit)
	assert.Equal(t, 42, resp.Pagination.Total)
}

func TestListPlans_DefaultsOnMalformedPaging(t *testing.T) {
	var gotParams domain.PaginationParams
	router := newTestRouter(&mockPlanServicer{
		ListPagedFunc: func(_ context.Context, p domain.PaginationParams) ([]domain.TripPlanningResult, int64, error) {
			gotParams = p
			return []domain.TripPlanningResult{}, 0, nil
		},
	})

	rec := do(t, router, http.MethodGet, "/plans?page=banana&limit=-5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PaginationParams{Page: 1, Limit: 20}, gotParams)
}

func TestDeletePlan(t *testing.T) {
	router := newTestRouter(&mockPlanServicer{
		DeleteFunc: func(context.Context, uuid.UUID) error { return nil },
	})

	rec := do(t, router, http.MethodDelete, "/plans/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeletePlan_NotFound(t *testing.T) {
	router := newTestRouter(&mockPlanServicer{
		DeleteFunc: func(context.Context, uuid.UUID) error { return domain.ErrNotFound },
	})

	rec := do(t, router, http.MethodDelete, "/plans/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportPlan(t *testing.T) {
	id := uuid.New()
	router := newTestRouter(&mockPlanServicer{
		GetByIDFunc: func(context.Context, uuid.UUID) (domain.TripPlanningResult, error) {
			return samplePlan(id), nil
		},
	})

	tests := []struct {
		format          string
		wantContentType string
		wantFilename    string
	}{
		{"json", "application/json", "trip.json"},
		{"document", "text/markdown; charset=utf-8", "trip.md"},
		{"calendar", "text/calendar; charset=utf-8", "trip.ics"},
		// The format defaults to json when omitted.
		{"", "application/json", "trip.json"},
	}
	for _, tt := range tests {
		name := tt.format
		if name == "" {
			name = "default"
		}
		t.Run(name, func(t *testing.T) {
			target := "/plans/" + id.String() + "/export"
			if tt.format != "" {
				target += "?format=" + tt.format
			}
			rec := do(t, router, http.MethodGet, target, "")

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantContentType, rec.Header().Get("Content-Type"))
			assert.True(t, strings.Contains(rec.Header().Get("Content-Disposition"), tt.wantFilename))
			assert.NotEmpty(t, rec.Body.Bytes())
		})
	}
}

func TestExportPlan_UnknownFormat(t *testing.T) {
	router := newTestRouter(&mockPlanServicer{
		GetByIDFunc: func(context.Context, uuid.UUID) (domain.TripPlanningResult, error) {
			return samplePlan(uuid.New()), nil
		},
	})

	rec := do(t, router, http.MethodGet, "/plans/"+uuid.NewString()+"/export?format=pdf", "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}

func TestGetRunStatus(t *testing.T) {
	id := uuid.New()
	router := newTestRouter(&mockPlanServicer{
		RunStatusFunc: func(got uuid.UUID) (pipeline.Progress, error) {
			assert.Equal(t, id, got)
			return pipeline.Progress{
				Run:     pipeline.RunInProgress,
				Overall: 25,
				Phases: []pipeline.PhaseStatus{
					{Name: pipeline.PhasePlanner, State: pipeline.PhaseCompleted, Percent: 100},
					{Name: pipeline.PhaseBooking, State: pipeline.PhaseRunning},
					{Name: pipeline.PhaseScheduler, State: pipeline.PhaseIdle},
					{Name: pipeline.PhasePresentation, State: pipeline.PhaseIdle},
				},
			}, nil
		},
	})

	rec := do(t, router, http.MethodGet, "/runs/"+id.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	var progress pipeline.Progress
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &progress))
	assert.Equal(t, pipeline.RunInProgress, progress.Run)
	assert.Equal(t, 25, progress.Overall)
	require.Len(t, progress.Phases, 4)
}

func TestGetRunStatus_NotFound(t *testing.T) {
	router := newTestRouter(&mockPlanServicer{
		RunStatusFunc: func(uuid.UUID) (pipeline.Progress, error) {
			return pipeline.Progress{}, domain.ErrNotFound
		},
	})

	rec := do(t, router, http.MethodGet, "/runs/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))
}
