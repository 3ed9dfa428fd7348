package response

import (
	"shop-checkout/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartLineResponse struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	InStock   int             `json:"inStock"`
}

type CartResponse struct {
	Lines      []CartLineResponse `json:"lines"`
	CouponID   *uuid.UUID         `json:"couponId,omitempty"`
	CouponCode *string            `json:"couponCode,omitempty"`
	UseWallet  bool               `json:"wallet"`
}

func FromCartView(v *queries.CartView) *CartResponse {
	lines := make([]CartLineResponse, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = CartLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			InStock:   l.InStock,
		}
	}
	return &CartResponse{
		Lines:      lines,
		CouponID:   v.CouponID,
		CouponCode: v.CouponCode,
		UseWallet:  v.UseWallet,
	}
}
