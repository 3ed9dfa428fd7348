//go:build unit || e2e

package builder

import (
	"shop-checkout/internal/domain/cart"
	"shop-checkout/internal/domain/user"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UserBuilder struct {
	ID         uuid.UUID
	Name       string
	Role       string
	Wallet     decimal.Decimal
	DistanceKm decimal.Decimal
	Orders     int
	Spent      decimal.Decimal
	Lines      []cart.Line
	CouponID   *uuid.UUID
	UseWallet  bool
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		ID:         uuid.New(),
		Name:       "Test Customer",
		Role:       "user",
		Wallet:     decimal.Zero,
		DistanceKm: decimal.NewFromInt(10),
		Spent:      decimal.Zero,
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

// BuildDomain validates through the constructor, so cart fields are ignored.
func (u *UserBuilder) BuildDomain() (*user.User, error) {
	location, err := user.NewLocation(u.DistanceKm)
	if err != nil {
		return nil, err
	}
	return user.NewUser(u.Name, u.Role, u.Wallet, location)
}

// BuildStored rebuilds a persisted user with its cart, keeping the builder ID.
func (u *UserBuilder) BuildStored() (*user.User, error) {
	role, err := user.NewRole(u.Role)
	if err != nil {
		return nil, err
	}
	location, err := user.NewLocation(u.DistanceKm)
	if err != nil {
		return nil, err
	}
	c, err := cart.New(u.Lines, u.CouponID, u.UseWallet)
	if err != nil {
		return nil, err
	}
	return user.Reconstruct(u.ID, u.Name, role, u.Wallet, location, u.Orders, u.Spent, c), nil
}

// Fluent builder methods
func (u *UserBuilder) WithID(id uuid.UUID) *UserBuilder {
	u.ID = id
	return u
}

func (u *UserBuilder) WithName(name string) *UserBuilder {
	u.Name = name
	return u
}

func (u *UserBuilder) WithRole(role string) *UserBuilder {
	u.Role = role
	return u
}

func (u *UserBuilder) WithWallet(wallet string) *UserBuilder {
	u.Wallet = decimal.RequireFromString(wallet)
	return u
}

func (u *UserBuilder) WithDistance(km string) *UserBuilder {
	u.DistanceKm = decimal.RequireFromString(km)
	return u
}

func (u *UserBuilder) WithLine(productID uuid.UUID, qty int) *UserBuilder {
	u.Lines = append(u.Lines, cart.Line{ProductID: productID, Quantity: qty})
	return u
}

func (u *UserBuilder) WithCoupon(couponID uuid.UUID) *UserBuilder {
	u.CouponID = &couponID
	return u
}

func (u *UserBuilder) UsingWallet() *UserBuilder {
	u.UseWallet = true
	return u
}
