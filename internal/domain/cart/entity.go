package cart

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity      = errors.New("line quantity must be at least 1")
	ErrDuplicateLine        = errors.New("product appears twice in cart")
	ErrCouponAlreadyApplied = errors.New("coupon already applied")
)

type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// Cart belongs to exactly one user. Lines keep insertion order and each
// product appears at most once.
type Cart struct {
	lines     []Line
	couponID  *uuid.UUID
	useWallet bool
}

func New(lines []Line, couponID *uuid.UUID, useWallet bool) (*Cart, error) {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		if _, dup := seen[l.ProductID]; dup {
			return nil, ErrDuplicateLine
		}
		seen[l.ProductID] = struct{}{}
	}
	return &Cart{
		lines:     append([]Line(nil), lines...),
		couponID:  couponID,
		useWallet: useWallet,
	}, nil
}

func Empty() *Cart {
	return &Cart{}
}

// AddProduct increments an existing line or appends a new one with quantity 1.
func (c *Cart) AddProduct(productID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{ProductID: productID, Quantity: 1})
}

func (c *Cart) AttachCoupon(couponID uuid.UUID) error {
	if c.couponID != nil {
		return ErrCouponAlreadyApplied
	}
	c.couponID = &couponID
	return nil
}

func (c *Cart) DetachCoupon() {
	c.couponID = nil
}

func (c *Cart) SetUseWallet(use bool) {
	c.useWallet = use
}

func (c *Cart) Clear() {
	c.lines = nil
	c.couponID = nil
	c.useWallet = false
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(c.lines))
	for i, l := range c.lines {
		ids[i] = l.ProductID
	}
	return ids
}

func (c *Cart) Lines() []Line        { return append([]Line(nil), c.lines...) }
func (c *Cart) CouponID() *uuid.UUID { return c.couponID }
func (c *Cart) UseWallet() bool      { return c.useWallet }
