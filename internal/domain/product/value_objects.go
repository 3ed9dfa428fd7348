package product

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativePrice          = errors.New("price cannot be negative")
	ErrCostAboveNet           = errors.New("cost price cannot exceed net price")
	ErrInvalidDiscountPercent = errors.New("discount must be between 0 and 100")
)

var hundred = decimal.NewFromInt(100)

// Price holds the cost price (Org), the list price (Net) and an optional
// percentage discount applied to Net.
type Price struct {
	Org      decimal.Decimal
	Net      decimal.Decimal
	Discount *decimal.Decimal
}

func NewPrice(org, net decimal.Decimal, discount *decimal.Decimal) (Price, error) {
	if org.IsNegative() || net.IsNegative() {
		return Price{}, ErrNegativePrice
	}
	if org.GreaterThan(net) {
		return Price{}, ErrCostAboveNet
	}
	if discount != nil && (discount.IsNegative() || discount.GreaterThan(hundred)) {
		return Price{}, ErrInvalidDiscountPercent
	}
	return Price{Org: org, Net: net, Discount: discount}, nil
}

func (p Price) HasDiscount() bool {
	return p.Discount != nil && !p.Discount.IsZero()
}
