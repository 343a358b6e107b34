package planning

import (
	"github.com/shopspring/decimal"

	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/part"
)

// ApplyLotSizing turns a net requirement into an order quantity under
// the part's lot sizing rule. LOT_FOR_LOT orders exactly the net.
// FIXED_MULTIPLE rounds the net up to the next lot multiple and then
// enforces the minimum lot size. The result never undercuts the net
// requirement. A missing or non-positive multiple degrades to
// lot-for-lot with the minimum still applied.
func ApplyLotSizing(p part.Part, net decimal.Decimal) decimal.Decimal {
	if net.Sign() <= 0 {
		return decimal.Zero
	}
	if p.LotSizingRule != part.FixedMultiple {
		return net
	}
	qty := net
	if p.LotSizeMultiple.Sign() > 0 {
		qty = net.Div(p.LotSizeMultiple).Ceil().Mul(p.LotSizeMultiple)
	}
	if p.LotSizeMin.Sign() > 0 && qty.LessThan(p.LotSizeMin) {
		qty = p.LotSizeMin
	}
	return qty
}
