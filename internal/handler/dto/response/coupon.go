package response

import (
	"time"

	"shop-checkout/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

type CouponResponse struct {
	ID       uuid.UUID       `json:"id"`
	Code     string          `json:"code"`
	Value    decimal.Decimal `json:"value"`
	Limit    *int            `json:"limit,omitempty"`
	Used     int             `json:"used"`
	Expire   *time.Time      `json:"expire,omitempty"`
	IsActive bool            `json:"isActive"`
}

func FromCouponView(v *queries.CouponView) (*CouponResponse, error) {
	var res CouponResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}

func FromCouponViews(views []*queries.CouponView) ([]*CouponResponse, error) {
	res := make([]*CouponResponse, 0, len(views))
	for _, v := range views {
		r, err := FromCouponView(v)
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, nil
}
