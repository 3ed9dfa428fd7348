package request

import (
	"strings"
	"time"

	"shop-checkout/internal/pkg/ptr"
	"shop-checkout/internal/usecase/commands"

	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

type CreateCouponRequest struct {
	Code     string           `json:"code" binding:"required,max=20"`
	Value    *decimal.Decimal `json:"value" binding:"required"`
	Limit    *int             `json:"limit" binding:"omitempty,min=0"`
	Expire   *time.Time       `json:"expire"`
	IsActive *bool            `json:"isActive"`
}

// ToInput defaults isActive to true.
func (r CreateCouponRequest) ToInput() commands.CreateCouponInput {
	isActive := r.IsActive
	if isActive == nil {
		isActive = ptr.Of(true)
	}
	return commands.CreateCouponInput{
		Code:     strings.ToUpper(strings.TrimSpace(r.Code)),
		Value:    ptr.Deref(r.Value),
		Limit:    r.Limit,
		Expire:   r.Expire,
		IsActive: *isActive,
	}
}

type UpdateCouponRequest struct {
	Value       *decimal.Decimal `json:"value"`
	Limit       *int             `json:"limit" binding:"omitempty,min=0"`
	ClearLimit  bool             `json:"clearLimit"`
	Expire      *time.Time       `json:"expire"`
	ClearExpire bool             `json:"clearExpire"`
	IsActive    *bool            `json:"isActive"`
}

func (r UpdateCouponRequest) ToInput() (commands.UpdateCouponInput, error) {
	var input commands.UpdateCouponInput
	if err := copier.Copy(&input, &r); err != nil {
		return commands.UpdateCouponInput{}, err
	}
	return input, nil
}
