package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNoItems      = errors.New("order must contain at least one item")
	ErrDraftAltered = errors.New("draft was altered by reconciliation")
)

type Item struct {
	ProductID uuid.UUID
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

type Order struct {
	id         uuid.UUID
	userID     uuid.UUID
	items      []Item
	cost       Cost
	couponID   *uuid.UUID
	state      State
	deliveryID *uuid.UUID
	createdAt  time.Time
	updatedAt  time.Time
}

// NewFromDraft snapshots an unaltered draft into a pending order.
func NewFromDraft(d *Draft, now time.Time) (*Order, error) {
	if d.Altered {
		return nil, ErrDraftAltered
	}
	if d.IsEmpty() {
		return nil, ErrNoItems
	}
	items := make([]Item, len(d.Lines))
	for i, l := range d.Lines {
		items[i] = Item{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
	}
	var couponID *uuid.UUID
	if d.CouponID != nil && d.CouponIssue == CouponIssueNone {
		id := *d.CouponID
		couponID = &id
	}
	return &Order{
		id:        uuid.New(),
		userID:    d.UserID,
		items:     items,
		cost:      d.Cost,
		couponID:  couponID,
		state:     StatePending,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func Reconstruct(
	id, userID uuid.UUID,
	items []Item,
	cost Cost,
	couponID *uuid.UUID,
	state State,
	deliveryID *uuid.UUID,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:         id,
		userID:     userID,
		items:      items,
		cost:       cost,
		couponID:   couponID,
		state:      state,
		deliveryID: deliveryID,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.userID == userID
}

func (o *Order) ID() uuid.UUID          { return o.id }
func (o *Order) UserID() uuid.UUID      { return o.userID }
func (o *Order) Items() []Item          { return append([]Item(nil), o.items...) }
func (o *Order) Cost() Cost             { return o.cost }
func (o *Order) CouponID() *uuid.UUID   { return o.couponID }
func (o *Order) State() State           { return o.state }
func (o *Order) DeliveryID() *uuid.UUID { return o.deliveryID }
func (o *Order) CreatedAt() time.Time   { return o.createdAt }
func (o *Order) UpdatedAt() time.Time   { return o.updatedAt }
