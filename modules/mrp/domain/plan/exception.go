package plan

import (
	"time"

	"github.com/google/uuid"
)

const (
	ExceptionLateOrder      = "LATE_ORDER"
	ExceptionOrphanedDemand = "ORPHANED_DEMAND"
	ExceptionDataIntegrity  = "DATA_INTEGRITY"
	ExceptionExcessOnHand   = "EXCESS_ON_HAND"
)

const (
	SeverityInfo    = "INFO"
	SeverityWarning = "WARNING"
)

// Exception is a non-fatal planning finding surfaced to the planner.
// Exceptions never stop a run; they are persisted with the results.
type Exception struct {
	ID            uuid.UUID  `json:"id"`
	MRPRunID      uuid.UUID  `json:"mrp_run_id"`
	PartID        *uuid.UUID `json:"part_id,omitempty"`
	ExceptionType string     `json:"exception_type"`
	Severity      string     `json:"severity"`
	Message       string     `json:"message"`
	CreatedAt     time.Time  `json:"created_at"`
}
