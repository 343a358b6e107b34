package planning

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/plan"
)

// AllocatePegging turns one netted group into pegging records. The
// group's coverage sources are consumed in draw order (on-hand, open
// supply oldest-first, then the net portion of the new order) and
// allocated back to member occurrences sequentially, so the records
// for every occurrence sum exactly to its gross quantity. The safety
// stock share of the coverage stays unpegged; it buffers the part, it
// does not serve a demand.
func AllocatePegging(result NetResult, runID uuid.UUID, newOrderID *uuid.UUID, createdAt time.Time) []plan.Pegging {
	sources := make([]SupplyDraw, 0, len(result.Draws)+1)
	sources = append(sources, result.Draws...)
	if newOrderID != nil && result.Net.Sign() > 0 {
		sources = append(sources, SupplyDraw{
			Source:   plan.SupplySourcePlannedOrder,
			OrderID:  newOrderID,
			Quantity: result.Net,
		})
	}

	var records []plan.Pegging
	si := 0
	srcLeft := decimal.Zero
	if len(sources) > 0 {
		srcLeft = sources[0].Quantity
	}
	for _, occ := range result.Occurrences {
		need := occ.Quantity
		for need.Sign() > 0 && si < len(sources) {
			if srcLeft.Sign() <= 0 {
				si++
				if si < len(sources) {
					srcLeft = sources[si].Quantity
				}
				continue
			}
			take := need
			if srcLeft.LessThan(take) {
				take = srcLeft
			}
			records = append(records, plan.Pegging{
				ID:             uuid.New(),
				MRPRunID:       runID,
				DemandPartID:   occ.PartID,
				DemandQuantity: take,
				DemandDueDate:  occ.DueDate,
				DemandSourceID: occ.DemandSourceID,
				SupplySource:   sources[si].Source,
				SupplyOrderID:  sources[si].OrderID,
				Level:          occ.Level,
				CreatedAt:      createdAt,
			})
			srcLeft = srcLeft.Sub(take)
			need = need.Sub(take)
		}
	}
	return records
}
