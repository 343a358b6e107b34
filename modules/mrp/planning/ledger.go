package planning

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/plan"
)

// SupplyDraw is one allocation taken from the ledger while netting a
// requirement group: either on-hand stock or the unconsumed remainder
// of a planned order created earlier in this run.
type SupplyDraw struct {
	Source   string // plan.SupplySourceOnHand or plan.SupplySourcePlannedOrder
	OrderID  *uuid.UUID
	Quantity decimal.Decimal
}

type openOrder struct {
	orderID   uuid.UUID
	remaining decimal.Decimal
}

// SupplyLedger tracks the supply still available to later requirements
// as netting walks down the BOM levels: on-hand balances net of prior
// draws, plus lot-size surplus from orders already created in the run.
// NetLevel treats ledgers functionally; it clones before mutating, so a
// ledger handed in stays valid for the caller.
type SupplyLedger struct {
	onHand     map[uuid.UUID]decimal.Decimal
	openSupply map[uuid.UUID][]openOrder
}

func NewSupplyLedger(onHand map[uuid.UUID]decimal.Decimal) *SupplyLedger {
	l := &SupplyLedger{
		onHand:     make(map[uuid.UUID]decimal.Decimal, len(onHand)),
		openSupply: map[uuid.UUID][]openOrder{},
	}
	for id, q := range onHand {
		l.onHand[id] = q
	}
	return l
}

func (l *SupplyLedger) Clone() *SupplyLedger {
	next := &SupplyLedger{
		onHand:     make(map[uuid.UUID]decimal.Decimal, len(l.onHand)),
		openSupply: make(map[uuid.UUID][]openOrder, len(l.openSupply)),
	}
	for id, q := range l.onHand {
		next.onHand[id] = q
	}
	for id, orders := range l.openSupply {
		cp := make([]openOrder, len(orders))
		copy(cp, orders)
		next.openSupply[id] = cp
	}
	return next
}

// OnHandRemaining returns the undrawn on-hand balance for a part. The
// balance can be negative when inventory records are negative; draws
// treat anything below zero as zero availability.
func (l *SupplyLedger) OnHandRemaining(partID uuid.UUID) decimal.Decimal {
	if q, ok := l.onHand[partID]; ok {
		return q
	}
	return decimal.Zero
}

// DrawOnHand consumes up to need from the part's on-hand balance and
// returns the quantity actually drawn.
func (l *SupplyLedger) DrawOnHand(partID uuid.UUID, need decimal.Decimal) decimal.Decimal {
	if need.Sign() <= 0 {
		return decimal.Zero
	}
	avail := l.OnHandRemaining(partID)
	if avail.Sign() <= 0 {
		return decimal.Zero
	}
	drawn := decimal.Min(avail, need)
	l.onHand[partID] = avail.Sub(drawn)
	return drawn
}

// DrawOpenSupply consumes up to need from the part's open planned-order
// supply, oldest order first, and returns one draw per order touched.
func (l *SupplyLedger) DrawOpenSupply(partID uuid.UUID, need decimal.Decimal) []SupplyDraw {
	if need.Sign() <= 0 {
		return nil
	}
	var draws []SupplyDraw
	orders := l.openSupply[partID]
	for i := range orders {
		if need.Sign() <= 0 {
			break
		}
		if orders[i].remaining.Sign() <= 0 {
			continue
		}
		drawn := decimal.Min(orders[i].remaining, need)
		orders[i].remaining = orders[i].remaining.Sub(drawn)
		need = need.Sub(drawn)
		id := orders[i].orderID
		draws = append(draws, SupplyDraw{Source: plan.SupplySourcePlannedOrder, OrderID: &id, Quantity: drawn})
	}
	l.openSupply[partID] = orders
	return draws
}

// AddOpenSupply records the unconsumed remainder of a freshly created
// planned order so later requirements for the same part can net
// against it before ordering again.
func (l *SupplyLedger) AddOpenSupply(partID, orderID uuid.UUID, quantity decimal.Decimal) {
	if quantity.Sign() <= 0 {
		return
	}
	l.openSupply[partID] = append(l.openSupply[partID], openOrder{orderID: orderID, remaining: quantity})
}
