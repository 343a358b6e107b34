package plan

import (
	"context"

	"github.com/google/uuid"
)

// RunFilter narrows List to one site, schedule or status. Nil fields
// match everything; Limit <= 0 falls back to the repository default.
type RunFilter struct {
	SiteID     *uuid.UUID
	ScheduleID *uuid.UUID
	Status     *string
	Limit      int
	Offset     int
}

type RunRepository interface {
	Create(ctx context.Context, run *MRPRun) error
	// MarkRunning transitions CREATED -> RUNNING and stamps StartedAt.
	MarkRunning(ctx context.Context, runID uuid.UUID) error
	// Complete transitions RUNNING -> COMPLETED and persists the run
	// results in the caller's transaction: one atomic write of the run
	// row, orders, pegging and exceptions.
	Complete(ctx context.Context, run *MRPRun, orders []PlannedOrder, pegging []Pegging, exceptions []Exception) error
	// Fail transitions a non-terminal run to FAILED, recording detail.
	// No partial planning output is written.
	Fail(ctx context.Context, runID uuid.UUID, detail string) error

	GetByID(ctx context.Context, runID uuid.UUID) (*MRPRun, error)
	GetByRunNumber(ctx context.Context, runNumber string) (*MRPRun, error)
	List(ctx context.Context, f RunFilter) ([]MRPRun, error)
	ListPegging(ctx context.Context, runID uuid.UUID) ([]Pegging, error)
	ListExceptions(ctx context.Context, runID uuid.UUID) ([]Exception, error)
}

type PlannedOrderRepository interface {
	GetByID(ctx context.Context, orderID uuid.UUID) (*PlannedOrder, error)
	// GetByIDForUpdate locks the order row for the caller's transaction.
	GetByIDForUpdate(ctx context.Context, orderID uuid.UUID) (*PlannedOrder, error)
	ListByRun(ctx context.Context, runID uuid.UUID) ([]PlannedOrder, error)
	// Transition moves an order from one status to another, guarded by
	// the current status, optionally recording a work order reference.
	Transition(ctx context.Context, orderID uuid.UUID, from, to string, workOrderRef *string) (*PlannedOrder, error)
}
