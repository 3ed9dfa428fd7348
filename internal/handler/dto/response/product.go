package response

import (
	"shop-checkout/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

type ProductResponse struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Price          decimal.Decimal  `json:"price"`
	NetPrice       decimal.Decimal  `json:"netPrice"`
	Discount       *decimal.Decimal `json:"discount,omitempty"`
	InStock        int              `json:"inStock"`
	OrdersReceived int              `json:"ordersReceived"`
}

func FromProductView(v *queries.ProductView) (*ProductResponse, error) {
	var res ProductResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}

func FromProductViews(views []*queries.ProductView) ([]*ProductResponse, error) {
	res := make([]*ProductResponse, 0, len(views))
	for _, v := range views {
		r, err := FromProductView(v)
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, nil
}
