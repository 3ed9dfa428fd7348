package product

import "github.com/shopspring/decimal"

// EffectivePrice is Net reduced by the discount percentage, or Net when no
// discount is set.
func EffectivePrice(p Price) decimal.Decimal {
	if !p.HasDiscount() {
		return p.Net
	}
	return p.Net.Sub(p.Net.Mul(*p.Discount).Div(hundred))
}

func LineSubtotal(p Price, qty int) decimal.Decimal {
	return EffectivePrice(p).Mul(decimal.NewFromInt(int64(qty)))
}

// LineProfit may be negative when the discount pushes the price under cost.
func LineProfit(p Price, qty int) decimal.Decimal {
	return EffectivePrice(p).Sub(p.Org).Mul(decimal.NewFromInt(int64(qty)))
}
