package request

import (
	"strings"

	"github.com/google/uuid"
)

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
}

type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required,max=20"`
}

// GetCode normalizes the code the way coupons are stored.
func (r ApplyCouponRequest) GetCode() string {
	return strings.ToUpper(strings.TrimSpace(r.Code))
}

type SetWalletRequest struct {
	Wallet *bool `json:"wallet" binding:"required"`
}
