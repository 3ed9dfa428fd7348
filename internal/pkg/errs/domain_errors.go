package errs

import "errors"

// Sentinel errors shared by the usecase layer and mapped to HTTP statuses by handlers.
var (
	// Not found
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrOrderNotFound   = errors.New("order not found")

	// Preconditions
	ErrEmptyCart            = errors.New("cart is empty")
	ErrCouponAlreadyApplied = errors.New("coupon already applied")
	ErrProductOutOfStock    = errors.New("product out of stock")
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrCouponCodeTaken      = errors.New("coupon code already exists")

	// Coupon rejected by eligibility checks
	ErrCouponRejected = errors.New("coupon rejected")

	// Cart no longer matches live product data
	ErrCartDrift = errors.New("cart drift detected")

	// Role or ownership violations
	ErrForbidden = errors.New("forbidden")

	// Idempotency errors
	ErrIdempotencyInProgress  = errors.New("idempotency in progress")
	ErrIdempotencyCheckFailed = errors.New("idempotency check failed")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
