package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Record is a current on-hand balance for a part at a site. The planner
// aggregates records per part; location granularity only matters to the
// warehouse side of the house.
type Record struct {
	ID       uuid.UUID       `json:"id"`
	SiteID   uuid.UUID       `json:"site_id"`
	PartID   uuid.UUID       `json:"part_id"`
	Location *string         `json:"location,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`
	IsActive bool            `json:"is_active"`
}

// AggregateOnHand sums active records into a per-part starting balance.
// Inactive records carry no available stock and are skipped.
func AggregateOnHand(records []Record) map[uuid.UUID]decimal.Decimal {
	onHand := make(map[uuid.UUID]decimal.Decimal, len(records))
	for _, r := range records {
		if !r.IsActive {
			continue
		}
		onHand[r.PartID] = onHand[r.PartID].Add(r.Quantity)
	}
	return onHand
}
