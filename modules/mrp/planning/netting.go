package planning

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/plan"
)

var oneHundred = decimal.NewFromInt(100)

// NetResult is the netting outcome of one consolidated requirement
// group: every same-level occurrence of a part sharing a due date,
// netted together against the supply ledger.
type NetResult struct {
	PartID      uuid.UUID
	Level       int
	DueDate     time.Time
	Gross       decimal.Decimal
	SafetyStock decimal.Decimal
	Net         decimal.Decimal
	Draws       []SupplyDraw
	Occurrences []GrossRequirement
}

// NetLevel nets one level's occurrences. Occurrences are consolidated
// by (part, due date) in first-appearance order, then each group draws
// on-hand first and open supply second:
//
//	safetyStock = gross * safetyStockLevel / 100
//	net         = max(0, gross + safetyStock - inventoryDraw - openSupplyDraw)
//
// The ledger is treated as a value: the caller's ledger is cloned and
// the consumed clone returned alongside the results.
func NetLevel(ledger *SupplyLedger, occurrences []GrossRequirement, safetyStockLevel decimal.Decimal) ([]NetResult, *SupplyLedger) {
	next := ledger.Clone()
	type groupKey struct {
		partID uuid.UUID
		due    time.Time
	}
	var order []groupKey
	groups := map[groupKey][]GrossRequirement{}
	for _, occ := range occurrences {
		k := groupKey{partID: occ.PartID, due: DateOnly(occ.DueDate)}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], occ)
	}

	results := make([]NetResult, 0, len(order))
	for _, k := range order {
		members := groups[k]
		gross := decimal.Zero
		for _, occ := range members {
			gross = gross.Add(occ.Quantity)
		}
		safety := gross.Mul(safetyStockLevel).Div(oneHundred)
		need := gross.Add(safety)

		var draws []SupplyDraw
		invDraw := next.DrawOnHand(k.partID, need)
		if invDraw.Sign() > 0 {
			draws = append(draws, SupplyDraw{Source: plan.SupplySourceOnHand, Quantity: invDraw})
			need = need.Sub(invDraw)
		}
		openDraws := next.DrawOpenSupply(k.partID, need)
		for _, d := range openDraws {
			need = need.Sub(d.Quantity)
		}
		draws = append(draws, openDraws...)

		net := need
		if net.Sign() < 0 {
			net = decimal.Zero
		}
		results = append(results, NetResult{
			PartID:      k.partID,
			Level:       members[0].Level,
			DueDate:     k.due,
			Gross:       gross,
			SafetyStock: safety,
			Net:         net,
			Draws:       draws,
			Occurrences: members,
		})
	}
	return results, next
}
