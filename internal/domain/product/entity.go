package product

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName     = errors.New("product name cannot be empty")
	ErrNegativeStock = errors.New("stock cannot be negative")
)

type Product struct {
	id     uuid.UUID
	name   string
	price  Price
	amount int
	orders int
}

func NewProduct(id uuid.UUID, name string, price Price, amount int) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if amount < 0 {
		return nil, ErrNegativeStock
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Product{
		id:     id,
		name:   name,
		price:  price,
		amount: amount,
	}, nil
}

// Reconstruct rebuilds a product from storage without re-validating.
func Reconstruct(id uuid.UUID, name string, price Price, amount, orders int) *Product {
	return &Product{
		id:     id,
		name:   name,
		price:  price,
		amount: amount,
		orders: orders,
	}
}

func (p *Product) InStock() bool {
	return p.amount > 0
}

func (p *Product) EffectivePrice() decimal.Decimal {
	return EffectivePrice(p.price)
}

func (p *Product) ID() uuid.UUID { return p.id }
func (p *Product) Name() string  { return p.name }
func (p *Product) Price() Price  { return p.price }
func (p *Product) Amount() int   { return p.amount }
func (p *Product) Orders() int   { return p.orders }
