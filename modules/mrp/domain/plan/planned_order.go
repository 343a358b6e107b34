package plan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrderStatusPlanned       = "PLANNED"
	OrderStatusReleased      = "RELEASED"
	OrderStatusConvertedToWO = "CONVERTED_TO_WO"
	OrderStatusCancelled     = "CANCELLED"
)

// PlannedOrder is a supply recommendation produced by a run: order
// Quantity of PartID on OrderDate so it is available by DueDate.
// Orders are advisory until converted to a work order.
type PlannedOrder struct {
	ID            uuid.UUID       `json:"id"`
	MRPRunID      uuid.UUID       `json:"mrp_run_id"`
	PartID        uuid.UUID       `json:"part_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	OrderDate     time.Time       `json:"order_date"`
	DueDate       time.Time       `json:"due_date"`
	LotSizingRule string          `json:"lot_sizing_rule"`
	Status        string          `json:"status"`
	WorkOrderRef  *string         `json:"work_order_ref,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
