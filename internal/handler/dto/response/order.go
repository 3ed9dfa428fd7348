package response

import (
	"time"

	"shop-checkout/internal/domain/order"
	"shop-checkout/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DraftLineResponse struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type AdjustmentResponse struct {
	ProductID uuid.UUID `json:"productId"`
	Kind      string    `json:"kind"`
	Requested int       `json:"requested"`
	Granted   int       `json:"granted"`
}

// DraftResponse is returned by the checkout preview and as the detail of a
// 409 when the cart drifted.
type DraftResponse struct {
	Lines       []DraftLineResponse  `json:"lines"`
	Adjustments []AdjustmentResponse `json:"adjustments"`
	Altered     bool                 `json:"altered"`
	CouponID    *uuid.UUID           `json:"couponId,omitempty"`
	CouponIssue string               `json:"couponIssue,omitempty"`
	Total       decimal.Decimal      `json:"total"`
	Delivery    decimal.Decimal      `json:"delivery"`
	Wallet      decimal.Decimal      `json:"wallet"`
	Coupon      decimal.Decimal      `json:"coupon"`
	FinalCost   decimal.Decimal      `json:"finalCost"`
}

func FromDraft(d *order.Draft) *DraftResponse {
	lines := make([]DraftLineResponse, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = DraftLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		}
	}
	adjustments := make([]AdjustmentResponse, len(d.Adjustments))
	for i, a := range d.Adjustments {
		adjustments[i] = AdjustmentResponse{
			ProductID: a.ProductID,
			Kind:      string(a.Kind),
			Requested: a.Requested,
			Granted:   a.Granted,
		}
	}
	return &DraftResponse{
		Lines:       lines,
		Adjustments: adjustments,
		Altered:     d.Altered,
		CouponID:    d.CouponID,
		CouponIssue: string(d.CouponIssue),
		Total:       d.Cost.Total,
		Delivery:    d.Cost.Delivery,
		Wallet:      d.Cost.Wallet,
		Coupon:      d.Cost.Coupon,
		FinalCost:   d.Cost.Final(),
	}
}

type OrderItemResponse struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type OrderResponse struct {
	ID         uuid.UUID           `json:"id"`
	UserID     uuid.UUID           `json:"userId"`
	Items      []OrderItemResponse `json:"items"`
	Total      decimal.Decimal     `json:"total"`
	Profit     decimal.Decimal     `json:"profit"`
	Delivery   decimal.Decimal     `json:"delivery"`
	Wallet     decimal.Decimal     `json:"wallet"`
	Coupon     decimal.Decimal     `json:"coupon"`
	FinalCost  decimal.Decimal     `json:"finalCost"`
	CouponID   *uuid.UUID          `json:"couponId,omitempty"`
	State      string              `json:"state"`
	DeliveryID *uuid.UUID          `json:"deliveryId,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

func FromOrderView(v *queries.OrderView) *OrderResponse {
	items := make([]OrderItemResponse, len(v.Items))
	for i, it := range v.Items {
		items[i] = OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}
	return &OrderResponse{
		ID:         v.ID,
		UserID:     v.UserID,
		Items:      items,
		Total:      v.Total,
		Profit:     v.Profit,
		Delivery:   v.Delivery,
		Wallet:     v.Wallet,
		Coupon:     v.Coupon,
		FinalCost:  v.FinalCost,
		CouponID:   v.CouponID,
		State:      v.State,
		DeliveryID: v.DeliveryID,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}

func FromOrder(o *order.Order) *OrderResponse {
	return FromOrderView(queries.NewOrderView(o))
}

type OrderListResponse struct {
	Orders   []*OrderResponse `json:"orders"`
	NextPage *int             `json:"nextPage,omitempty"`
}

func FromOrderPage(p *queries.OrderPage) *OrderListResponse {
	orders := make([]*OrderResponse, len(p.Orders))
	for i, v := range p.Orders {
		orders[i] = FromOrderView(v)
	}
	return &OrderListResponse{Orders: orders, NextPage: p.NextPage}
}
