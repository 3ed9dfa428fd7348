package coupon

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Reason string

const (
	ReasonInactive     Reason = "inactive"
	ReasonExpired      Reason = "expired"
	ReasonLimitReached Reason = "limit_reached"
)

// RejectedError reports why an existing coupon cannot be used right now.
type RejectedError struct {
	Reason Reason
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("coupon rejected: %s", e.Reason)
}

var (
	ErrCouponInactive     = &RejectedError{Reason: ReasonInactive}
	ErrCouponExpired      = &RejectedError{Reason: ReasonExpired}
	ErrCouponLimitReached = &RejectedError{Reason: ReasonLimitReached}
)

type Coupon struct {
	id       uuid.UUID
	code     Code
	value    Percent
	limit    *int
	used     int
	expire   *time.Time
	isActive bool
}

// NewCoupon creates an unused coupon. A nil limit means unlimited use and a
// nil expire means the coupon never expires.
func NewCoupon(code string, value decimal.Decimal, limit *int, expire *time.Time, isActive bool) (*Coupon, error) {
	couponCode, err := NewCouponCode(code)
	if err != nil {
		return nil, err
	}
	percent, err := NewPercent(value)
	if err != nil {
		return nil, err
	}
	if limit != nil && *limit < 0 {
		return nil, ErrInvalidLimit
	}
	return &Coupon{
		id:       uuid.New(),
		code:     couponCode,
		value:    percent,
		limit:    limit,
		expire:   expire,
		isActive: isActive,
	}, nil
}

func Reconstruct(id uuid.UUID, code string, value decimal.Decimal, limit *int, used int, expire *time.Time, isActive bool) *Coupon {
	return &Coupon{
		id:       id,
		code:     Code(code),
		value:    Percent{value: value},
		limit:    limit,
		used:     used,
		expire:   expire,
		isActive: isActive,
	}
}

// CheckEligibility runs the checks in a fixed order: active, not expired,
// usage below limit.
func (c *Coupon) CheckEligibility(now time.Time) error {
	if !c.isActive {
		return ErrCouponInactive
	}
	if c.expire != nil && !now.Before(*c.expire) {
		return ErrCouponExpired
	}
	if c.limit != nil && c.used >= *c.limit {
		return ErrCouponLimitReached
	}
	return nil
}

// Redeem consumes one use. Storage-backed redemption must be done with a
// conditional update; this method keeps the in-memory entity consistent.
func (c *Coupon) Redeem(now time.Time) error {
	if err := c.CheckEligibility(now); err != nil {
		return err
	}
	c.used++
	return nil
}

func (c *Coupon) DiscountFor(total decimal.Decimal) decimal.Decimal {
	return c.value.Of(total)
}

// Update replaces the mutable settings. Usage stays as is, so a new limit
// cannot drop below it.
func (c *Coupon) Update(value decimal.Decimal, limit *int, expire *time.Time, isActive bool) error {
	percent, err := NewPercent(value)
	if err != nil {
		return err
	}
	if limit != nil && (*limit < 0 || *limit < c.used) {
		return ErrInvalidLimit
	}
	c.value = percent
	c.limit = limit
	c.expire = expire
	c.isActive = isActive
	return nil
}

func (c *Coupon) ID() uuid.UUID          { return c.id }
func (c *Coupon) Code() Code             { return c.code }
func (c *Coupon) Value() decimal.Decimal { return c.value.Decimal() }
func (c *Coupon) Limit() *int            { return c.limit }
func (c *Coupon) Used() int              { return c.used }
func (c *Coupon) Expire() *time.Time     { return c.expire }
func (c *Coupon) IsActive() bool         { return c.isActive }
