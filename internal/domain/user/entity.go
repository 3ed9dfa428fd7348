package user

import (
	"shop-checkout/internal/domain/cart"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	id       uuid.UUID
	name     Name
	role     Role
	wallet   decimal.Decimal
	location Location
	orders   int
	spent    decimal.Decimal
	cart     *cart.Cart
}

func NewUser(name string, role string, wallet decimal.Decimal, location Location) (*User, error) {
	n, err := NewName(name)
	if err != nil {
		return nil, err
	}
	r, err := NewRole(role)
	if err != nil {
		return nil, err
	}
	if wallet.IsNegative() {
		return nil, ErrNegativeWallet
	}
	return &User{
		id:       uuid.New(),
		name:     n,
		role:     r,
		wallet:   wallet,
		location: location,
		spent:    decimal.Zero,
		cart:     cart.Empty(),
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	name string,
	role Role,
	wallet decimal.Decimal,
	location Location,
	orders int,
	spent decimal.Decimal,
	c *cart.Cart,
) *User {
	if c == nil {
		c = cart.Empty()
	}
	return &User{
		id:       id,
		name:     Name(name),
		role:     role,
		wallet:   wallet,
		location: location,
		orders:   orders,
		spent:    spent,
		cart:     c,
	}
}

// CompleteCheckout applies the user-side effects of a committed order:
// wallet debit, counters, and an emptied cart.
func (u *User) CompleteCheckout(walletUsed, spent decimal.Decimal) error {
	if walletUsed.IsNegative() || walletUsed.GreaterThan(u.wallet) {
		return ErrInsufficientWallet
	}
	u.wallet = u.wallet.Sub(walletUsed)
	u.orders++
	u.spent = u.spent.Add(spent)
	u.cart.Clear()
	return nil
}

func (u *User) ID() uuid.UUID           { return u.id }
func (u *User) Name() Name              { return u.name }
func (u *User) Role() Role              { return u.role }
func (u *User) Wallet() decimal.Decimal { return u.wallet }
func (u *User) Location() Location      { return u.location }
func (u *User) Orders() int             { return u.orders }
func (u *User) Spent() decimal.Decimal  { return u.spent }
func (u *User) Cart() *cart.Cart        { return u.cart }
