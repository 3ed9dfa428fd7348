package api

import (
	"log/slog"
	"net/http"

	"shop-checkout/internal/domain/coupon"
	resdto "shop-checkout/internal/handler/dto/response"
	"shop-checkout/internal/handler/httperr"
	"shop-checkout/internal/pkg/errs"
	"shop-checkout/internal/usecase/commands"
	"shop-checkout/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

var errUnauthenticated = errs.New("authenticated user missing from context")

type errorMapping struct {
	target  error
	status  int
	message string
}

// Order matters: the first match wins.
var errorMappings = []errorMapping{
	{errs.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{errs.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{errs.ErrCouponNotFound, http.StatusNotFound, "Coupon not found"},
	{errs.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
	{errs.ErrForbidden, http.StatusForbidden, "Insufficient permissions"},
	{errs.ErrEmptyCart, http.StatusBadRequest, "Cart is empty"},
	{errs.ErrCouponAlreadyApplied, http.StatusBadRequest, "Coupon already applied"},
	{errs.ErrProductOutOfStock, http.StatusBadRequest, "Product is out of stock"},
	{errs.ErrInvalidTransition, http.StatusBadRequest, "Invalid order status transition"},
	{errs.ErrCouponCodeTaken, http.StatusBadRequest, "Coupon code already exists"},
	{errs.ErrCouponRejected, http.StatusBadRequest, "Coupon cannot be used"},
	{errs.ErrDomainValidation, http.StatusBadRequest, "Invalid request"},
	{queries.ErrInvalidQuery, http.StatusBadRequest, "Invalid query"},
	{errs.ErrIdempotencyInProgress, http.StatusTooManyRequests, "Order request is currently being processed"},
}

// respondError maps a usecase error to its HTTP status. Drift is the only 409
// and carries the corrected draft.
func respondError(c *gin.Context, err error) {
	var drift *commands.DriftError
	if errs.As(err, &drift) {
		httperr.AbortWithError(c, http.StatusConflict, err, "Cart has changed", resdto.FromDraft(drift.Draft))
		return
	}

	for _, m := range errorMappings {
		if !errs.Is(err, m.target) {
			continue
		}
		var detail any
		var rejected *coupon.RejectedError
		if m.target == errs.ErrCouponRejected && errs.As(err, &rejected) {
			detail = gin.H{"reason": rejected.Reason}
		}
		httperr.AbortWithError(c, m.status, err, m.message, detail)
		return
	}

	slog.Error("unhandled usecase error", "path", c.FullPath(), "error", err.Error())
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}
