package planning

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/bom"
	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/part"
	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/schedule"
)

// Snapshot is the immutable point-in-time input of a planning run: the
// part master, the BOM edge list, aggregated on-hand quantities and the
// schedule entries in scope. The engine never touches storage; it works
// exclusively against a snapshot.
type Snapshot struct {
	Parts    []part.Part
	BOMItems []bom.BOMItem
	OnHand   map[uuid.UUID]decimal.Decimal
	Entries  []schedule.Entry

	partIndex  map[uuid.UUID]int
	childEdges map[uuid.UUID][]int
}

func NewSnapshot(parts []part.Part, items []bom.BOMItem, onHand map[uuid.UUID]decimal.Decimal, entries []schedule.Entry) *Snapshot {
	s := &Snapshot{
		Parts:      parts,
		BOMItems:   items,
		OnHand:     onHand,
		Entries:    entries,
		partIndex:  make(map[uuid.UUID]int, len(parts)),
		childEdges: make(map[uuid.UUID][]int, len(parts)),
	}
	if s.OnHand == nil {
		s.OnHand = map[uuid.UUID]decimal.Decimal{}
	}
	for i := range parts {
		s.partIndex[parts[i].ID] = i
	}
	for i := range items {
		s.childEdges[items[i].ParentPartID] = append(s.childEdges[items[i].ParentPartID], i)
	}
	return s
}

// Part resolves a part by ID. The second return is false when the part
// is missing from the master, which the engine reports as orphaned
// demand rather than failing the run.
func (s *Snapshot) Part(id uuid.UUID) (part.Part, bool) {
	i, ok := s.partIndex[id]
	if !ok {
		return part.Part{}, false
	}
	return s.Parts[i], true
}

// PartNumber returns the part number for an ID, falling back to the
// raw UUID for parts absent from the master. Used for messages only.
func (s *Snapshot) PartNumber(id uuid.UUID) string {
	if p, ok := s.Part(id); ok {
		return p.PartNumber
	}
	return id.String()
}

// ActiveEdges returns the BOM edges under parentID that are in effect
// on the given date, in stored order.
func (s *Snapshot) ActiveEdges(parentID uuid.UUID, date time.Time) []bom.BOMItem {
	idxs := s.childEdges[parentID]
	if len(idxs) == 0 {
		return nil
	}
	out := make([]bom.BOMItem, 0, len(idxs))
	for _, i := range idxs {
		if s.BOMItems[i].ActiveOn(date) {
			out = append(out, s.BOMItems[i])
		}
	}
	return out
}

// OnHandQuantity returns the aggregated starting balance for a part,
// zero when the part has no inventory records.
func (s *Snapshot) OnHandQuantity(partID uuid.UUID) decimal.Decimal {
	if q, ok := s.OnHand[partID]; ok {
		return q
	}
	return decimal.Zero
}
