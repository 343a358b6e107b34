package bom

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BOMItem is a single parent -> component edge of the bill of materials
// graph. QuantityPer is the component quantity consumed per unit of the
// parent; ScrapFactor is a fractional loss allowance (0.05 = 5%).
type BOMItem struct {
	ID              uuid.UUID       `json:"id"`
	ParentPartID    uuid.UUID       `json:"parent_part_id"`
	ComponentPartID uuid.UUID       `json:"component_part_id"`
	QuantityPer     decimal.Decimal `json:"quantity_per"`
	ScrapFactor     decimal.Decimal `json:"scrap_factor"`
	EffectiveDate   time.Time       `json:"effective_date"`
	ObsoleteDate    *time.Time      `json:"obsolete_date,omitempty"`
	IsActive        bool            `json:"is_active"`
}

// ActiveOn reports whether the edge participates in explosion on the
// given date: the item is flagged active, the effective date has been
// reached and the obsolete date (when set) has not.
func (b BOMItem) ActiveOn(date time.Time) bool {
	if !b.IsActive {
		return false
	}
	if b.EffectiveDate.After(date) {
		return false
	}
	if b.ObsoleteDate != nil && !b.ObsoleteDate.After(date) {
		return false
	}
	return true
}
