package order

import (
	"shop-checkout/internal/domain/cart"

	"github.com/google/uuid"
)

// CouponIssue explains why an attached coupon contributed no discount.
type CouponIssue string

const (
	CouponIssueNone         CouponIssue = ""
	CouponIssueNotFound     CouponIssue = "not_found"
	CouponIssueInactive     CouponIssue = "inactive"
	CouponIssueExpired      CouponIssue = "expired"
	CouponIssueLimitReached CouponIssue = "limit_reached"
)

// Draft is a fully priced order that has not been persisted.
type Draft struct {
	UserID      uuid.UUID
	Lines       []cart.PricedLine
	Adjustments []cart.Adjustment
	Altered     bool
	CouponID    *uuid.UUID
	CouponIssue CouponIssue
	Cost        Cost
}

func (d *Draft) IsEmpty() bool {
	return len(d.Lines) == 0
}
