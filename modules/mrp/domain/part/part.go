package part

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lot sizing rules supported by the planning engine.
const (
	LotForLot     = "LOT_FOR_LOT"
	FixedMultiple = "FIXED_MULTIPLE"
)

const (
	ProductTypeManufactured = "MANUFACTURED"
	ProductTypePurchased    = "PURCHASED"
)

type Part struct {
	ID              uuid.UUID       `json:"id"`
	SiteID          uuid.UUID       `json:"site_id"`
	PartNumber      string          `json:"part_number"`
	Description     *string         `json:"description,omitempty"`
	ProductType     string          `json:"product_type"`
	LeadTimeDays    int             `json:"lead_time_days"`
	LotSizingRule   string          `json:"lot_sizing_rule"`
	LotSizeMin      decimal.Decimal `json:"lot_size_min"`
	LotSizeMultiple decimal.Decimal `json:"lot_size_multiple"`
	IsActive        bool            `json:"is_active"`
}
