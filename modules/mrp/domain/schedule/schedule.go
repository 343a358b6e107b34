package schedule

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is one line of a production schedule: build PlannedQuantity of
// PartID, starting on PlannedStartDate. Entries are the top-level
// independent demand the MRP engine explodes.
type Entry struct {
	ID               uuid.UUID       `json:"id"`
	ScheduleID       uuid.UUID       `json:"schedule_id"`
	PartID           uuid.UUID       `json:"part_id"`
	PlannedQuantity  decimal.Decimal `json:"planned_quantity"`
	PlannedStartDate time.Time       `json:"planned_start_date"`
	PlannedEndDate   time.Time       `json:"planned_end_date"`
}
