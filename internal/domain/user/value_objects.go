package user

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidRole        = errors.New("invalid role")
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrNegativeWallet     = errors.New("wallet balance cannot be negative")
	ErrNegativeDistance   = errors.New("delivery distance cannot be negative")
	ErrInsufficientWallet = errors.New("wallet balance is insufficient")
)

type Name string

func NewName(s string) (Name, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyName
	}
	return Name(s), nil
}

func (n Name) String() string {
	return string(n)
}

// Location carries the precomputed road distance from the store in km.
type Location struct {
	DistanceKm decimal.Decimal
}

func NewLocation(distanceKm decimal.Decimal) (Location, error) {
	if distanceKm.IsNegative() {
		return Location{}, ErrNegativeDistance
	}
	return Location{DistanceKm: distanceKm}, nil
}
