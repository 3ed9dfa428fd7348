package order

import (
	"github.com/shopspring/decimal"
)

// Cost is the price breakdown frozen into an order. The amount to pay is
// derived by Final and never stored.
type Cost struct {
	Total    decimal.Decimal
	Profit   decimal.Decimal
	Delivery decimal.Decimal
	Wallet   decimal.Decimal
	Coupon   decimal.Decimal
}

// Final is total + delivery - wallet - coupon.
func (c Cost) Final() decimal.Decimal {
	return c.Total.Add(c.Delivery).Sub(c.Wallet).Sub(c.Coupon)
}

// Spent is what the order adds to the customer's lifetime spend: goods after
// coupon and wallet, delivery excluded.
func (c Cost) Spent() decimal.Decimal {
	return c.Total.Sub(c.Coupon).Sub(c.Wallet)
}

type DeliveryEstimator struct {
	ratePerKm decimal.Decimal
}

func NewDeliveryEstimator(ratePerKm decimal.Decimal) *DeliveryEstimator {
	return &DeliveryEstimator{ratePerKm: ratePerKm}
}

// Fee is distance times the configured rate. Coupons never apply to it.
func (e *DeliveryEstimator) Fee(distanceKm decimal.Decimal) decimal.Decimal {
	if distanceKm.IsNegative() {
		return decimal.Zero
	}
	return distanceKm.Mul(e.ratePerKm).Round(2)
}

func (e *DeliveryEstimator) RatePerKm() decimal.Decimal {
	return e.ratePerKm
}

// WalletUsed is the part of the balance spent on this order: zero when the
// wallet is off, otherwise min(balance, total - coupon) and never negative.
func WalletUsed(useWallet bool, balance, total, coupon decimal.Decimal) decimal.Decimal {
	if !useWallet || !balance.IsPositive() {
		return decimal.Zero
	}
	payable := total.Sub(coupon)
	if !payable.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(balance, payable)
}
