package commands

import (
	"errors"

	"shop-checkout/internal/domain/coupon"
	"shop-checkout/internal/domain/order"
	"shop-checkout/internal/infra"
	"shop-checkout/internal/pkg/errs"
)

// errStockConflict marks a stock decrement that found less stock than the
// reconciliation under lock promised.
var errStockConflict = errs.New("stock changed during checkout")

// DriftError is returned when reconciliation changed the cart. Draft holds the
// corrected result so the client can confirm it.
type DriftError struct {
	Draft *order.Draft
}

func (e *DriftError) Error() string {
	return errs.ErrCartDrift.Error()
}

func (e *DriftError) Is(target error) bool {
	return target == errs.ErrCartDrift
}

// markRepoErr maps a repository error to the usecase taxonomy.
func markRepoErr(err error, notFound error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, notFound)
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}

func markCouponRejection(err error) error {
	var rejected *coupon.RejectedError
	if errors.As(err, &rejected) {
		return errs.Mark(err, errs.ErrCouponRejected)
	}
	return errs.Mark(err, errs.ErrDomainValidation)
}

func markLifecycleErr(err error) error {
	switch {
	case errors.Is(err, order.ErrTransitionForbidden),
		errors.Is(err, order.ErrNotAssignee),
		errors.Is(err, order.ErrNotCourier):
		return errs.Mark(err, errs.ErrForbidden)
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrInvalidState):
		return errs.Mark(err, errs.ErrInvalidTransition)
	default:
		return errs.Mark(err, errs.ErrDomainValidation)
	}
}

func couponIssueOf(err error) order.CouponIssue {
	var rejected *coupon.RejectedError
	if !errors.As(err, &rejected) {
		return order.CouponIssueNone
	}
	switch rejected.Reason {
	case coupon.ReasonInactive:
		return order.CouponIssueInactive
	case coupon.ReasonExpired:
		return order.CouponIssueExpired
	default:
		return order.CouponIssueLimitReached
	}
}

func rejectionOf(issue order.CouponIssue) error {
	switch issue {
	case order.CouponIssueInactive:
		return coupon.ErrCouponInactive
	case order.CouponIssueExpired:
		return coupon.ErrCouponExpired
	default:
		return coupon.ErrCouponLimitReached
	}
}
