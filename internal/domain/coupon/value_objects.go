package coupon

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCouponCode      = errors.New("invalid coupon code format")
	ErrInvalidDiscountPercent = errors.New("percentage discount must be between 0 and 100")
	ErrInvalidLimit           = errors.New("usage limit must be non-negative and not below current usage")
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

var hundred = decimal.NewFromInt(100)

type Code string

func NewCouponCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

// Percent is a discount percentage within [0,100].
type Percent struct {
	value decimal.Decimal
}

func NewPercent(v decimal.Decimal) (Percent, error) {
	if v.IsNegative() || v.GreaterThan(hundred) {
		return Percent{}, ErrInvalidDiscountPercent
	}
	return Percent{value: v}, nil
}

func (p Percent) Decimal() decimal.Decimal {
	return p.value
}

// Of returns the discount on amount rounded half away from zero to 2 places.
func (p Percent) Of(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.value).Div(hundred).Round(2)
}
