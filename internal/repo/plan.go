// Package repo contains all database access logic for the trip planner API.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mhutchens/trip-planner/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PlanRepo defines the persistence operations for compiled trip plans.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
//
// Only terminal results are stored. Intermediate phase state never touches
// the database; a pipeline run is a single stateless execution.
type PlanRepo interface {
	// Create inserts a compiled plan and returns the persisted record with
	// created_at populated. The caller assigns the plan ID.
	Create(ctx context.Context, plan domain.TripPlanningResult) (domain.TripPlanningResult, error)

	// GetByID retrieves a plan by its UUID primary key.
	// Returns domain.ErrNotFound if no plan with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.TripPlanningResult, error)

	// ListPaged returns one page of plans ordered by created_at descending,
	// plus the total plan count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.TripPlanningResult, int64, error)

	// Delete removes a plan by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgPlanRepo is the Postgres implementation of PlanRepo. The headline
// summary values live in their own columns for cheap listing and indexing;
// the full result is stored as a JSONB payload.
type pgPlanRepo struct {
	db db
}

// NewPlanRepo constructs a PlanRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPlanRepo(db db) PlanRepo {
	return &pgPlanRepo{db: db}
}

// Create inserts a new plan row and returns the record with created_at set.
func (r *pgPlanRepo) Create(ctx context.Context, plan domain.TripPlanningResult) (domain.TripPlanningResult, error) {
	payload, err := json.Marshal(plan)
	if err != nil {
		return domain.TripPlanningResult{}, fmt.Errorf("repo.PlanRepo.Create: marshal: %w", err)
	}

	const q = `
		INSERT INTO trip_plans (id, user_id, destination, total_cost, savings, duration_days, status, confidence, result)
		VALUES (@id, @user_id, @destination, @total_cost, @savings, @duration_days, @status, @confidence, @result)
		RETURNING created_at`

	args := pgx.NamedArgs{
		"id":            plan.ID,
		"user_id":       plan.UserID,
		"destination":   plan.Summary.Destination,
		"total_cost":    plan.Summary.TotalCost,
		"savings":       plan.Summary.Savings,
		"duration_days": plan.Summary.DurationDays,
		"status":        plan.Summary.Status,
		"confidence":    plan.Summary.Confidence,
		"result":        payload,
	}

	var createdAt time.Time
	if err := r.db.QueryRow(ctx, q, args).Scan(&createdAt); err != nil {
		return domain.TripPlanningResult{}, fmt.Errorf("repo.PlanRepo.Create: %w", err)
	}
	plan.CreatedAt = createdAt
	return plan, nil
}

// GetByID retrieves a plan by primary key.
func (r *pgPlanRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TripPlanningResult, error) {
	const q = `
		SELECT id, result, created_at
		FROM trip_plans
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	plan, err := scanPlan(row)
	if err != nil {
		return domain.TripPlanningResult{}, fmt.Errorf("repo.PlanRepo.GetByID: %w", err)
	}
	return plan, nil
}

// ListPaged returns one page of plans, most recent first, plus the total count.
func (r *pgPlanRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.TripPlanningResult, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trip_plans`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.PlanRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT id, result, created_at
		FROM trip_plans
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PlanRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	plans := []domain.TripPlanningResult{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.PlanRepo.ListPaged: scan: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.PlanRepo.ListPaged: rows: %w", err)
	}

	return plans, total, nil
}

// Delete removes a plan by primary key.
func (r *pgPlanRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trip_plans WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.PlanRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PlanRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanPlan to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanPlan maps a database row into a domain.TripPlanningResult by
// unmarshalling the JSONB payload and overlaying the authoritative id and
// created_at columns.
func scanPlan(s scanner) (domain.TripPlanningResult, error) {
	var (
		id        pgtype.UUID
		payload   []byte
		createdAt time.Time
	)

	if err := s.Scan(&id, &payload, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripPlanningResult{}, domain.ErrNotFound
		}
		return domain.TripPlanningResult{}, err
	}

	var plan domain.TripPlanningResult
	if err := json.Unmarshal(payload, &plan); err != nil {
		return domain.TripPlanningResult{}, fmt.Errorf("unmarshal result: %w", err)
	}
	plan.ID = uuid.UUID(id.Bytes)
	plan.CreatedAt = createdAt

	return plan, nil
}
