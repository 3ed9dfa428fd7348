//go:build unit || e2e

package builder

import (
	"time"

	"shop-checkout/internal/domain/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderBuilder struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Items      []order.Item
	Cost       order.Cost
	CouponID   *uuid.UUID
	State      order.State
	DeliveryID *uuid.UUID
	CreatedAt  time.Time
}

func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Items: []order.Item{{
			ProductID: uuid.New(),
			Name:      "Test Product",
			Quantity:  3,
			UnitPrice: decimal.NewFromInt(100),
		}},
		Cost: order.Cost{
			Total:    decimal.NewFromInt(300),
			Profit:   decimal.NewFromInt(120),
			Delivery: decimal.NewFromInt(50),
			Wallet:   decimal.Zero,
			Coupon:   decimal.Zero,
		},
		State:     order.StatePending,
		CreatedAt: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (o *OrderBuilder) With(mutate func(*OrderBuilder)) *OrderBuilder {
	mutate(o)
	return o
}

func (o *OrderBuilder) BuildDomain() *order.Order {
	return order.Reconstruct(o.ID, o.UserID, o.Items, o.Cost, o.CouponID, o.State, o.DeliveryID, o.CreatedAt, o.CreatedAt)
}

// Fluent builder methods
func (o *OrderBuilder) OwnedBy(userID uuid.UUID) *OrderBuilder {
	o.UserID = userID
	return o
}

func (o *OrderBuilder) InState(s order.State) *OrderBuilder {
	o.State = s
	return o
}

func (o *OrderBuilder) AssignedTo(courierID uuid.UUID) *OrderBuilder {
	o.DeliveryID = &courierID
	return o
}
