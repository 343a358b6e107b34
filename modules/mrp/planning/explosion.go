package planning

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GrossRequirement is one demand occurrence queued for netting: the
// top-level schedule quantity, or a component demand generated by a
// parent planned order. DemandSourceID is the generating order; nil
// for top-level demand.
type GrossRequirement struct {
	PartID         uuid.UUID
	Level          int
	Quantity       decimal.Decimal
	DueDate        time.Time
	DemandSourceID *uuid.UUID
}

// IntegrityIssue is a non-fatal data problem found while generating
// demand. The engine records each one as a planning exception and
// skips the branch.
type IntegrityIssue struct {
	PartID  *uuid.UUID
	Message string
}

// ComputeLevels walks the active BOM subgraph under topPartID and
// returns, per reachable part, the length of the longest active path
// from the top (the part's low-level code within this explosion, top
// part = 0). The walk carries an explicit ancestor path per branch: a
// component matching any ancestor on its own path is a fatal
// CircularBOMReferenceError with the ordered cycle. A shared visited
// set is deliberately not used; a part reachable over several paths
// must keep the longest one. Paths longer than maxDepth fail with
// MaxDepthExceededError.
func ComputeLevels(s *Snapshot, topPartID uuid.UUID, date time.Time, maxDepth int) (map[uuid.UUID]int, error) {
	levels := map[uuid.UUID]int{}
	onPath := map[uuid.UUID]int{}
	path := []uuid.UUID{}

	var walk func(id uuid.UUID, depth int) error
	walk = func(id uuid.UUID, depth int) error {
		if pos, ok := onPath[id]; ok {
			cycle := append(append([]uuid.UUID{}, path[pos:]...), id)
			names := make([]string, len(cycle))
			for i, pid := range cycle {
				names[i] = s.PartNumber(pid)
			}
			return &CircularBOMReferenceError{Cycle: cycle, PartNumbers: names}
		}
		if depth > maxDepth {
			return &MaxDepthExceededError{PartID: id, PartNumber: s.PartNumber(id), MaxDepth: maxDepth}
		}
		if cur, seen := levels[id]; seen && cur >= depth {
			return nil
		}
		levels[id] = depth

		onPath[id] = len(path)
		path = append(path, id)
		for _, edge := range s.ActiveEdges(id, date) {
			if err := walk(edge.ComponentPartID, depth+1); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		delete(onPath, id)
		return nil
	}

	if err := walk(topPartID, 0); err != nil {
		return nil, err
	}
	return levels, nil
}

// ExplodeOrder generates component demand from a parent planned order:
// one occurrence per active edge, childGross = orderQuantity *
// quantityPer * (1 + scrapFactor), due on the order's start date.
// Edges with negative quantityPer, or whose computed demand turns out
// negative, are reported as integrity issues and skipped. Zero demand
// generates nothing.
func ExplodeOrder(s *Snapshot, parentID, orderID uuid.UUID, orderQuantity decimal.Decimal, orderDate time.Time, levels map[uuid.UUID]int, date time.Time) ([]GrossRequirement, []IntegrityIssue) {
	var (
		reqs   []GrossRequirement
		issues []IntegrityIssue
	)
	for _, edge := range s.ActiveEdges(parentID, date) {
		if edge.QuantityPer.Sign() < 0 {
			componentID := edge.ComponentPartID
			issues = append(issues, IntegrityIssue{
				PartID: &componentID,
				Message: fmt.Sprintf("negative quantity per %s on BOM edge %s -> %s; branch skipped",
					edge.QuantityPer, s.PartNumber(parentID), s.PartNumber(componentID)),
			})
			continue
		}
		childGross := orderQuantity.Mul(edge.QuantityPer).Mul(decimal.NewFromInt(1).Add(edge.ScrapFactor))
		if childGross.Sign() < 0 {
			componentID := edge.ComponentPartID
			issues = append(issues, IntegrityIssue{
				PartID: &componentID,
				Message: fmt.Sprintf("negative demand quantity %s for part %s; branch skipped",
					childGross, s.PartNumber(componentID)),
			})
			continue
		}
		if childGross.Sign() == 0 {
			continue
		}
		srcID := orderID
		reqs = append(reqs, GrossRequirement{
			PartID:         edge.ComponentPartID,
			Level:          levels[edge.ComponentPartID],
			Quantity:       childGross,
			DueDate:        orderDate,
			DemandSourceID: &srcID,
		})
	}
	return reqs, issues
}
