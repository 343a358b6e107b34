package plan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MRP run lifecycle. A run is CREATED when accepted, RUNNING while the
// engine executes, and ends in exactly one of COMPLETED or FAILED.
const (
	RunStatusCreated   = "CREATED"
	RunStatusRunning   = "RUNNING"
	RunStatusCompleted = "COMPLETED"
	RunStatusFailed    = "FAILED"
)

type MRPRun struct {
	ID                 uuid.UUID       `json:"id"`
	RunNumber          string          `json:"run_number"`
	SiteID             uuid.UUID       `json:"site_id"`
	ScheduleID         uuid.UUID       `json:"schedule_id"`
	Status             string          `json:"status"`
	RunDate            time.Time       `json:"run_date"`
	HorizonDays        int             `json:"horizon_days"`
	SafetyStockLevel   decimal.Decimal `json:"safety_stock_level"`
	PlannedOrdersCount int             `json:"planned_orders_count"`
	PeggingCount       int             `json:"pegging_count"`
	ExceptionsCount    int             `json:"exceptions_count"`
	ErrorDetail        *string         `json:"error_detail,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	StartedAt          *time.Time      `json:"started_at,omitempty"`
	CompletedAt        *time.Time      `json:"completed_at,omitempty"`
}

// Terminal reports whether the run has reached a final state.
func (r *MRPRun) Terminal() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}
