package response

import (
	"shop-checkout/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UserResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Role       string          `json:"role"`
	Wallet     decimal.Decimal `json:"wallet"`
	DistanceKm decimal.Decimal `json:"distanceKm"`
	Orders     int             `json:"orders"`
	Spent      decimal.Decimal `json:"spent"`
}

func FromUserView(v *queries.UserView) *UserResponse {
	return &UserResponse{
		ID:         v.ID,
		Name:       v.Name,
		Role:       v.Role,
		Wallet:     v.Wallet,
		DistanceKm: v.DistanceKm,
		Orders:     v.Orders,
		Spent:      v.Spent,
	}
}
