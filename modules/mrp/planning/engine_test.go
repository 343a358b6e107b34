package planning

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/bom"
	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/part"
	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/plan"
	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/schedule"
)

func runParams() Params {
	return Params{
		RunID:   uuid.New(),
		RunDate: day("2025-05-01"),
		Now:     day("2025-05-01"),
	}
}

func peggedTotal(records []plan.Pegging, partID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if r.DemandPartID == partID {
			total = total.Add(r.DemandQuantity)
		}
	}
	return total
}

func ordersFor(orders []plan.PlannedOrder, partID uuid.UUID) []plan.PlannedOrder {
	var out []plan.PlannedOrder
	for _, o := range orders {
		if o.PartID == partID {
			out = append(out, o)
		}
	}
	return out
}

func TestRun_NetsDemandAgainstOnHand(t *testing.T) {
	p := lotForLotPart("GEAR-100", 5)
	s := NewSnapshot(
		[]part.Part{p},
		nil,
		map[uuid.UUID]decimal.Decimal{p.ID: d("50")},
		[]schedule.Entry{scheduleEntry(p, "100", "2025-05-20")},
	)

	res, err := Run(s, runParams())
	require.NoError(t, err)

	require.Len(t, res.PlannedOrders, 1)
	ord := res.PlannedOrders[0]
	require.True(t, d("50").Equal(ord.Quantity), "order covers demand net of stock")
	require.Equal(t, day("2025-05-15"), ord.OrderDate, "due date offset by the 5 day lead time")
	require.Equal(t, day("2025-05-20"), ord.DueDate)
	require.Equal(t, part.LotForLot, ord.LotSizingRule)
	require.Equal(t, plan.OrderStatusPlanned, ord.Status)

	require.Len(t, res.Pegging, 2)
	require.Equal(t, plan.SupplySourceOnHand, res.Pegging[0].SupplySource)
	require.True(t, d("50").Equal(res.Pegging[0].DemandQuantity))
	require.Equal(t, plan.SupplySourcePlannedOrder, res.Pegging[1].SupplySource)
	require.Equal(t, ord.ID, *res.Pegging[1].SupplyOrderID)
	require.True(t, d("100").Equal(peggedTotal(res.Pegging, p.ID)), "pegging conserves the gross")
	require.Empty(t, res.Exceptions)
}

func TestRun_ExplodesComponentDemandFromOrderQuantity(t *testing.T) {
	top := lotForLotPart("ASSY-1", 0)
	comp := lotForLotPart("COMP-1", 0)
	s := NewSnapshot(
		[]part.Part{top, comp},
		[]bom.BOMItem{activeEdge(top, comp, "5", "0")},
		nil,
		[]schedule.Entry{scheduleEntry(top, "50", "2025-05-10")},
	)

	res, err := Run(s, runParams())
	require.NoError(t, err)

	topOrders := ordersFor(res.PlannedOrders, top.ID)
	require.Len(t, topOrders, 1)
	require.True(t, d("50").Equal(topOrders[0].Quantity))

	compOrders := ordersFor(res.PlannedOrders, comp.ID)
	require.Len(t, compOrders, 1)
	require.True(t, d("250").Equal(compOrders[0].Quantity), "50 parents x 5 per")
	require.Equal(t, topOrders[0].OrderDate, compOrders[0].DueDate, "component due when the parent starts")

	// component demand points back at the generating order
	compPegs := []plan.Pegging{}
	for _, r := range res.Pegging {
		if r.DemandPartID == comp.ID {
			compPegs = append(compPegs, r)
		}
	}
	require.NotEmpty(t, compPegs)
	for _, r := range compPegs {
		require.NotNil(t, r.DemandSourceID)
		require.Equal(t, topOrders[0].ID, *r.DemandSourceID)
		require.Equal(t, 1, r.Level)
	}
}

func TestRun_CycleFailsTheRun(t *testing.T) {
	a := lotForLotPart("CYC-A", 0)
	b := lotForLotPart("CYC-B", 0)
	s := NewSnapshot(
		[]part.Part{a, b},
		[]bom.BOMItem{
			activeEdge(a, b, "1", "0"),
			activeEdge(b, a, "1", "0"),
		},
		nil,
		[]schedule.Entry{scheduleEntry(a, "10", "2025-05-10")},
	)

	res, err := Run(s, runParams())
	require.Nil(t, res)
	var cycleErr *CircularBOMReferenceError
	require.ErrorAs(t, err, &cycleErr)
	require.Equal(t, []string{"CYC-A", "CYC-B", "CYC-A"}, cycleErr.PartNumbers)
}

func TestRun_FixedMultipleLotSizing(t *testing.T) {
	p := fixedMultiplePart("CAST-7", 0, "10", "5")
	s := NewSnapshot(
		[]part.Part{p},
		nil,
		nil,
		[]schedule.Entry{scheduleEntry(p, "12", "2025-05-10")},
	)

	res, err := Run(s, runParams())
	require.NoError(t, err)
	require.Len(t, res.PlannedOrders, 1)
	require.True(t, d("15").Equal(res.PlannedOrders[0].Quantity), "12 rounds up to the next multiple of 5")
	require.Equal(t, part.FixedMultiple, res.PlannedOrders[0].LotSizingRule)
	// pegging still covers only the gross 12
	require.True(t, d("12").Equal(peggedTotal(res.Pegging, p.ID)))
}

func TestRun_LateOrderClippedAndFlagged(t *testing.T) {
	p := lotForLotPart("LONG-LEAD", 10)
	s := NewSnapshot(
		[]part.Part{p},
		nil,
		nil,
		[]schedule.Entry{scheduleEntry(p, "20", "2025-05-04")},
	)

	res, err := Run(s, runParams())
	require.NoError(t, err)
	require.Len(t, res.PlannedOrders, 1)
	require.Equal(t, day("2025-05-01"), res.PlannedOrders[0].OrderDate, "clipped to the run date")

	require.Len(t, res.Exceptions, 1)
	ex := res.Exceptions[0]
	require.Equal(t, plan.ExceptionLateOrder, ex.ExceptionType)
	require.Equal(t, plan.SeverityWarning, ex.Severity)
	require.Contains(t, ex.Message, "7 day(s) late")
	require.Equal(t, p.ID, *ex.PartID)
}

func TestRun_SafetyStockAddsBuffer(t *testing.T) {
	p := lotForLotPart("BUF-1", 0)
	s := NewSnapshot(
		[]part.Part{p},
		nil,
		nil,
		[]schedule.Entry{scheduleEntry(p, "200", "2025-05-10")},
	)
	params := runParams()
	params.SafetyStockLevel = d("10")

	res, err := Run(s, params)
	require.NoError(t, err)
	require.Len(t, res.PlannedOrders, 1)
	require.True(t, d("220").Equal(res.PlannedOrders[0].Quantity), "gross 200 + 10% safety")
	require.True(t, d("200").Equal(peggedTotal(res.Pegging, p.ID)), "buffer is not pegged to demand")
}

func TestRun_LedgerSpansScheduleEntries(t *testing.T) {
	p := lotForLotPart("SHARED-STOCK", 0)
	entry1 := scheduleEntry(p, "60", "2025-05-05")
	entry2 := scheduleEntry(p, "30", "2025-05-09")
	s := NewSnapshot(
		[]part.Part{p},
		nil,
		map[uuid.UUID]decimal.Decimal{p.ID: d("50")},
		[]schedule.Entry{entry2, entry1}, // out of order on purpose
	)

	res, err := Run(s, runParams())
	require.NoError(t, err)

	orders := ordersFor(res.PlannedOrders, p.ID)
	require.Len(t, orders, 2)
	// earlier entry drains the stock first
	require.True(t, d("10").Equal(orders[0].Quantity), "60 demand less 50 on hand")
	require.True(t, d("30").Equal(orders[1].Quantity), "stock already consumed")
	require.True(t, d("90").Equal(peggedTotal(res.Pegging, p.ID)))
}

func TestRun_LotSurplusFeedsLaterDemand(t *testing.T) {
	top := lotForLotPart("SURPLUS-TOP", 0)
	comp := fixedMultiplePart("SURPLUS-COMP", 0, "0", "100")
	entry1 := scheduleEntry(top, "1", "2025-05-05")
	entry2 := scheduleEntry(top, "1", "2025-05-09")
	s := NewSnapshot(
		[]part.Part{top, comp},
		[]bom.BOMItem{activeEdge(top, comp, "30", "0")},
		nil,
		[]schedule.Entry{entry1, entry2},
	)

	res, err := Run(s, runParams())
	require.NoError(t, err)

	compOrders := ordersFor(res.PlannedOrders, comp.ID)
	require.Len(t, compOrders, 1, "second demand nets against the first order's surplus")
	require.True(t, d("100").Equal(compOrders[0].Quantity))
	require.True(t, d("60").Equal(peggedTotal(res.Pegging, comp.ID)))
}

func TestRun_SharedComponentTakesDeepestLevel(t *testing.T) {
	top := lotForLotPart("DIA-TOP", 0)
	sub := lotForLotPart("DIA-SUB", 0)
	shared := lotForLotPart("DIA-SHARED", 0)
	s := NewSnapshot(
		[]part.Part{top, sub, shared},
		[]bom.BOMItem{
			activeEdge(top, shared, "1", "0"),
			activeEdge(top, sub, "1", "0"),
			activeEdge(sub, shared, "2", "0"),
		},
		nil,
		[]schedule.Entry{scheduleEntry(top, "10", "2025-05-10")},
	)

	res, err := Run(s, runParams())
	require.NoError(t, err)

	// both demand paths for the shared part consolidate at level 2 into one order
	sharedOrders := ordersFor(res.PlannedOrders, shared.ID)
	require.Len(t, sharedOrders, 1)
	require.True(t, d("30").Equal(sharedOrders[0].Quantity), "10 direct + 10*2 through the sub")
	for _, r := range res.Pegging {
		if r.DemandPartID == shared.ID {
			require.Equal(t, 2, r.Level)
		}
	}
	require.True(t, d("30").Equal(peggedTotal(res.Pegging, shared.ID)))
}

func TestRun_OrphanedDemandSkipsBranch(t *testing.T) {
	top := lotForLotPart("ORPH-TOP", 0)
	ghost := lotForLotPart("GHOST", 0)
	s := NewSnapshot(
		[]part.Part{top}, // ghost missing from the master
		[]bom.BOMItem{activeEdge(top, ghost, "2", "0")},
		nil,
		[]schedule.Entry{scheduleEntry(top, "5", "2025-05-10")},
	)

	res, err := Run(s, runParams())
	require.NoError(t, err)
	require.Len(t, res.PlannedOrders, 1, "only the top part is ordered")

	require.Len(t, res.Exceptions, 1)
	require.Equal(t, plan.ExceptionOrphanedDemand, res.Exceptions[0].ExceptionType)
	require.Equal(t, plan.SeverityWarning, res.Exceptions[0].Severity)
	require.Equal(t, ghost.ID, *res.Exceptions[0].PartID)
}

func TestRun_NegativeScheduleQuantityRecorded(t *testing.T) {
	p := lotForLotPart("NEG-DEMAND", 0)
	s := NewSnapshot(
		[]part.Part{p},
		nil,
		nil,
		[]schedule.Entry{scheduleEntry(p, "-10", "2025-05-10")},
	)

	res, err := Run(s, runParams())
	require.NoError(t, err)
	require.Empty(t, res.PlannedOrders)
	require.Len(t, res.Exceptions, 1)
	require.Equal(t, plan.ExceptionDataIntegrity, res.Exceptions[0].ExceptionType)
	require.Contains(t, res.Exceptions[0].Message, "negative demand quantity -10 for part NEG-DEMAND; branch skipped")
}

func TestRun_ZeroQuantityEntryProducesNothing(t *testing.T) {
	p := lotForLotPart("ZERO-QTY", 0)
	s := NewSnapshot(
		[]part.Part{p},
		nil,
		nil,
		[]schedule.Entry{scheduleEntry(p, "0", "2025-05-10")},
	)

	res, err := Run(s, runParams())
	require.NoError(t, err)
	require.Empty(t, res.PlannedOrders)
	require.Empty(t, res.Pegging)
	require.Empty(t, res.Exceptions)
}

func TestRun_EmptyScheduleCompletesEmpty(t *testing.T) {
	res, err := Run(NewSnapshot(nil, nil, nil, nil), runParams())
	require.NoError(t, err)
	require.Empty(t, res.PlannedOrders)
	require.Empty(t, res.Pegging)
	require.Empty(t, res.Exceptions)
}

func TestRun_ExcessOnHandAdvisory(t *testing.T) {
	p := lotForLotPart("HOARD-1", 0)
	s := NewSnapshot(
		[]part.Part{p},
		nil,
		map[uuid.UUID]decimal.Decimal{p.ID: d("500")},
		[]schedule.Entry{scheduleEntry(p, "100", "2025-05-10")},
	)

	res, err := Run(s, runParams())
	require.NoError(t, err)
	require.Empty(t, res.PlannedOrders, "demand fully covered")

	require.Len(t, res.Exceptions, 1)
	ex := res.Exceptions[0]
	require.Equal(t, plan.ExceptionExcessOnHand, ex.ExceptionType)
	require.Equal(t, plan.SeverityInfo, ex.Severity)
	require.Contains(t, ex.Message, "HOARD-1")
}

func TestRun_DeterministicAcrossInvocations(t *testing.T) {
	top := lotForLotPart("DET-TOP", 2)
	mid := fixedMultiplePart("DET-MID", 1, "10", "5")
	leaf := lotForLotPart("DET-LEAF", 3)
	s := NewSnapshot(
		[]part.Part{top, mid, leaf},
		[]bom.BOMItem{
			activeEdge(top, mid, "2", "0.1"),
			activeEdge(mid, leaf, "3", "0"),
		},
		map[uuid.UUID]decimal.Decimal{mid.ID: d("17")},
		[]schedule.Entry{scheduleEntry(top, "40", "2025-05-20")},
	)

	first, err := Run(s, runParams())
	require.NoError(t, err)
	second, err := Run(s, runParams())
	require.NoError(t, err)

	require.Len(t, second.PlannedOrders, len(first.PlannedOrders))
	for i := range first.PlannedOrders {
		a, b := first.PlannedOrders[i], second.PlannedOrders[i]
		require.Equal(t, a.PartID, b.PartID)
		require.True(t, a.Quantity.Equal(b.Quantity))
		require.Equal(t, a.OrderDate, b.OrderDate)
		require.Equal(t, a.DueDate, b.DueDate)
	}
	require.Len(t, second.Pegging, len(first.Pegging))
	require.Len(t, second.Exceptions, len(first.Exceptions))
}
