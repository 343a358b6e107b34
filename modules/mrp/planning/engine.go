package planning

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/plan"
)

// DefaultMaxDepth bounds BOM traversal when the caller does not supply
// a limit.
const DefaultMaxDepth = 25

// Params carries the run-scoped inputs of a planning computation.
type Params struct {
	RunID            uuid.UUID
	RunDate          time.Time
	SafetyStockLevel decimal.Decimal
	MaxDepth         int
	// Now stamps generated rows; zero means wall clock.
	Now time.Time
}

// Result is everything a completed run persists besides the run row
// itself. A failed run discards the whole value.
type Result struct {
	PlannedOrders []plan.PlannedOrder
	Pegging       []plan.Pegging
	Exceptions    []plan.Exception
}

// Run executes the full planning pipeline over a snapshot: for every
// schedule entry, compute longest-path levels (with cycle detection),
// then walk levels in ascending order netting consolidated
// requirements, sizing and offsetting orders, pegging coverage, and
// exploding each order into component demand for deeper levels. The
// supply ledger persists across entries so inventory is only consumed
// once per run. The only fatal outcomes are a BOM cycle and the depth
// breaker; every data problem becomes an exception on the result.
func Run(s *Snapshot, p Params) (*Result, error) {
	if p.MaxDepth <= 0 {
		p.MaxDepth = DefaultMaxDepth
	}
	if p.Now.IsZero() {
		p.Now = time.Now().UTC()
	}
	runDate := DateOnly(p.RunDate)

	res := &Result{}
	ledger := NewSupplyLedger(s.OnHand)
	totalGross := map[uuid.UUID]decimal.Decimal{}
	var grossSeen []uuid.UUID

	entries := make([]int, len(s.Entries))
	for i := range entries {
		entries[i] = i
	}
	sort.SliceStable(entries, func(a, b int) bool {
		ea, eb := s.Entries[entries[a]], s.Entries[entries[b]]
		if !ea.PlannedStartDate.Equal(eb.PlannedStartDate) {
			return ea.PlannedStartDate.Before(eb.PlannedStartDate)
		}
		return bytes.Compare(ea.ID[:], eb.ID[:]) < 0
	})

	for _, ei := range entries {
		entry := s.Entries[ei]
		if _, ok := s.Part(entry.PartID); !ok {
			res.Exceptions = append(res.Exceptions, NewOrphanedDemandException(p.RunID, entry.PartID, p.Now))
			continue
		}
		if entry.PlannedQuantity.Sign() < 0 {
			pid := entry.PartID
			issue := IntegrityIssue{
				PartID: &pid,
				Message: fmt.Sprintf("negative demand quantity %s for part %s; branch skipped",
					entry.PlannedQuantity, s.PartNumber(entry.PartID)),
			}
			res.Exceptions = append(res.Exceptions, NewDataIntegrityException(p.RunID, issue, p.Now))
			continue
		}
		if entry.PlannedQuantity.Sign() == 0 {
			continue
		}

		levels, err := ComputeLevels(s, entry.PartID, runDate, p.MaxDepth)
		if err != nil {
			return nil, err
		}

		pending := map[int][]GrossRequirement{}
		pending[0] = []GrossRequirement{{
			PartID:   entry.PartID,
			Level:    0,
			Quantity: entry.PlannedQuantity,
			DueDate:  DateOnly(entry.PlannedStartDate),
		}}
		maxLevel := 0

		for lvl := 0; lvl <= maxLevel; lvl++ {
			occs := pending[lvl]
			if len(occs) == 0 {
				continue
			}
			live := occs[:0:0]
			for _, occ := range occs {
				if _, ok := s.Part(occ.PartID); !ok {
					res.Exceptions = append(res.Exceptions, NewOrphanedDemandException(p.RunID, occ.PartID, p.Now))
					continue
				}
				if _, seen := totalGross[occ.PartID]; !seen {
					grossSeen = append(grossSeen, occ.PartID)
				}
				totalGross[occ.PartID] = totalGross[occ.PartID].Add(occ.Quantity)
				live = append(live, occ)
			}

			groups, nextLedger := NetLevel(ledger, live, p.SafetyStockLevel)
			ledger = nextLedger

			for _, group := range groups {
				groupPart, _ := s.Part(group.PartID)
				var orderID *uuid.UUID
				if group.Net.Sign() > 0 {
					orderQty := ApplyLotSizing(groupPart, group.Net)
					off := OffsetLeadTime(group.DueDate, groupPart.LeadTimeDays, runDate)
					ord := plan.PlannedOrder{
						ID:            uuid.New(),
						MRPRunID:      p.RunID,
						PartID:        group.PartID,
						Quantity:      orderQty,
						OrderDate:     off.OrderDate,
						DueDate:       off.DueDate,
						LotSizingRule: groupPart.LotSizingRule,
						Status:        plan.OrderStatusPlanned,
						CreatedAt:     p.Now,
						UpdatedAt:     p.Now,
					}
					res.PlannedOrders = append(res.PlannedOrders, ord)
					id := ord.ID
					orderID = &id

					if off.Clipped {
						res.Exceptions = append(res.Exceptions,
							NewLateOrderException(p.RunID, group.PartID, groupPart.PartNumber, off.DaysLate, off.DueDate, p.Now))
					}
					// Lot-size surplus stays available to later requirements.
					ledger.AddOpenSupply(group.PartID, ord.ID, orderQty.Sub(group.Net))

					reqs, issues := ExplodeOrder(s, group.PartID, ord.ID, orderQty, off.OrderDate, levels, runDate)
					for _, issue := range issues {
						res.Exceptions = append(res.Exceptions, NewDataIntegrityException(p.RunID, issue, p.Now))
					}
					for _, r := range reqs {
						pending[r.Level] = append(pending[r.Level], r)
						if r.Level > maxLevel {
							maxLevel = r.Level
						}
					}
				}
				res.Pegging = append(res.Pegging, AllocatePegging(group, p.RunID, orderID, p.Now)...)
			}
		}
	}

	res.Exceptions = append(res.Exceptions, DetectExcessOnHand(s, p.RunID, totalGross, grossSeen, p.Now)...)
	return res, nil
}
