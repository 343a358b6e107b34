package plan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supply sources a demand can be pegged to.
const (
	SupplySourceOnHand       = "ON_HAND"
	SupplySourcePlannedOrder = "PLANNED_ORDER"
)

// Pegging links one gross requirement occurrence to the supply that
// covers it. DemandSourceID is the planned order whose explosion
// generated the demand; nil means the demand came straight from a
// schedule entry. SupplyOrderID is set when SupplySource is
// PLANNED_ORDER. The DemandQuantity rows for one occurrence always sum
// to that occurrence's gross requirement.
type Pegging struct {
	ID             uuid.UUID       `json:"id"`
	MRPRunID       uuid.UUID       `json:"mrp_run_id"`
	DemandPartID   uuid.UUID       `json:"demand_part_id"`
	DemandQuantity decimal.Decimal `json:"demand_quantity"`
	DemandDueDate  time.Time       `json:"demand_due_date"`
	DemandSourceID *uuid.UUID      `json:"demand_source_id,omitempty"`
	SupplySource   string          `json:"supply_source"`
	SupplyOrderID  *uuid.UUID      `json:"supply_order_id,omitempty"`
	Level          int             `json:"level"`
	CreatedAt      time.Time       `json:"created_at"`
}
