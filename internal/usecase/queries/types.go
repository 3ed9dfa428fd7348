package queries

import (
	"time"

	"shop-checkout/internal/domain/cart"
	"shop-checkout/internal/domain/coupon"
	"shop-checkout/internal/domain/order"
	"shop-checkout/internal/domain/product"
	"shop-checkout/internal/domain/user"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemView represents one snapshotted order line
type OrderItemView struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderView represents read-optimized order data
type OrderView struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Items      []OrderItemView `json:"items"`
	Total      decimal.Decimal `json:"total"`
	Profit     decimal.Decimal `json:"profit"`
	Delivery   decimal.Decimal `json:"delivery"`
	Wallet     decimal.Decimal `json:"wallet"`
	Coupon     decimal.Decimal `json:"coupon"`
	FinalCost  decimal.Decimal `json:"final_cost"`
	CouponID   *uuid.UUID      `json:"coupon_id,omitempty"`
	State      string          `json:"state"`
	DeliveryID *uuid.UUID      `json:"delivery_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type OrderPage struct {
	Orders   []*OrderView `json:"orders"`
	NextPage *int         `json:"next_page,omitempty"`
}

// CartLineView represents a cart line joined with live product data
type CartLineView struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	InStock   int             `json:"in_stock"`
}

type CartView struct {
	Lines      []CartLineView `json:"lines"`
	CouponID   *uuid.UUID     `json:"coupon_id,omitempty"`
	CouponCode *string        `json:"coupon_code,omitempty"`
	UseWallet  bool           `json:"use_wallet"`
}

// CouponView represents read-optimized coupon data
type CouponView struct {
	ID       uuid.UUID       `json:"id"`
	Code     string          `json:"code"`
	Value    decimal.Decimal `json:"value"`
	Limit    *int            `json:"limit,omitempty"`
	Used     int             `json:"used"`
	Expire   *time.Time      `json:"expire,omitempty"`
	IsActive bool            `json:"is_active"`
}

// NewOrderView flattens an order aggregate. Storage drivers that keep
// aggregates in memory use it to serve the read side.
func NewOrderView(o *order.Order) *OrderView {
	items := make([]OrderItemView, 0, len(o.Items()))
	for _, it := range o.Items() {
		items = append(items, OrderItemView{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	cost := o.Cost()
	return &OrderView{
		ID:         o.ID(),
		UserID:     o.UserID(),
		Items:      items,
		Total:      cost.Total,
		Profit:     cost.Profit,
		Delivery:   cost.Delivery,
		Wallet:     cost.Wallet,
		Coupon:     cost.Coupon,
		FinalCost:  cost.Final(),
		CouponID:   o.CouponID(),
		State:      o.State().String(),
		DeliveryID: o.DeliveryID(),
		CreatedAt:  o.CreatedAt(),
		UpdatedAt:  o.UpdatedAt(),
	}
}

func newCouponView(c *coupon.Coupon) *CouponView {
	return &CouponView{
		ID:       c.ID(),
		Code:     c.Code().String(),
		Value:    c.Value(),
		Limit:    c.Limit(),
		Used:     c.Used(),
		Expire:   c.Expire(),
		IsActive: c.IsActive(),
	}
}

func emptyCartView(c *cart.Cart) *CartView {
	return &CartView{
		Lines:     []CartLineView{},
		CouponID:  c.CouponID(),
		UseWallet: c.UseWallet(),
	}
}

// ProductView represents a catalogue entry with its live price
type ProductView struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Price          decimal.Decimal  `json:"price"`
	NetPrice       decimal.Decimal  `json:"net_price"`
	Discount       *decimal.Decimal `json:"discount,omitempty"`
	InStock        int              `json:"in_stock"`
	OrdersReceived int              `json:"orders_received"`
}

// UserView represents the caller's own account
type UserView struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Role       string          `json:"role"`
	Wallet     decimal.Decimal `json:"wallet"`
	DistanceKm decimal.Decimal `json:"distance_km"`
	Orders     int             `json:"orders"`
	Spent      decimal.Decimal `json:"spent"`
}

func newProductView(p *product.Product) *ProductView {
	price := p.Price()
	return &ProductView{
		ID:             p.ID(),
		Name:           p.Name(),
		Price:          p.EffectivePrice(),
		NetPrice:       price.Net,
		Discount:       price.Discount,
		InStock:        p.Amount(),
		OrdersReceived: p.Orders(),
	}
}

func newUserView(u *user.User) *UserView {
	return &UserView{
		ID:         u.ID(),
		Name:       u.Name().String(),
		Role:       string(u.Role()),
		Wallet:     u.Wallet(),
		DistanceKm: u.Location().DistanceKm,
		Orders:     u.Orders(),
		Spent:      u.Spent(),
	}
}
