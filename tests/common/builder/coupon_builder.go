//go:build unit || e2e

package builder

import (
	"time"

	"shop-checkout/internal/domain/coupon"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CouponBuilder struct {
	ID       uuid.UUID
	Code     string
	Value    decimal.Decimal
	Limit    *int
	Used     int
	Expire   *time.Time
	IsActive bool
}

func NewCouponBuilder() *CouponBuilder {
	return &CouponBuilder{
		ID:       uuid.New(),
		Code:     "SAVE10",
		Value:    decimal.NewFromInt(10),
		IsActive: true,
	}
}

func (c *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(c)
	return c
}

// BuildDomain goes through validation and starts with zero usage.
func (c *CouponBuilder) BuildDomain() (*coupon.Coupon, error) {
	return coupon.NewCoupon(c.Code, c.Value, c.Limit, c.Expire, c.IsActive)
}

// BuildStored keeps the builder ID and usage count.
func (c *CouponBuilder) BuildStored() *coupon.Coupon {
	return coupon.Reconstruct(c.ID, c.Code, c.Value, c.Limit, c.Used, c.Expire, c.IsActive)
}

// Fluent builder methods
func (c *CouponBuilder) WithCode(code string) *CouponBuilder {
	c.Code = code
	return c
}

func (c *CouponBuilder) WithValue(percent string) *CouponBuilder {
	c.Value = decimal.RequireFromString(percent)
	return c
}

func (c *CouponBuilder) WithLimit(limit, used int) *CouponBuilder {
	c.Limit = &limit
	c.Used = used
	return c
}

func (c *CouponBuilder) ExpiringAt(t time.Time) *CouponBuilder {
	c.Expire = &t
	return c
}

func (c *CouponBuilder) AsInactive() *CouponBuilder {
	c.IsActive = false
	return c
}
