//go:build unit || e2e

package builder

import (
	"shop-checkout/internal/domain/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductBuilder struct {
	ID       uuid.UUID
	Name     string
	Org      decimal.Decimal
	Net      decimal.Decimal
	Discount *decimal.Decimal
	Amount   int
}

func NewProductBuilder() *ProductBuilder {
	return &ProductBuilder{
		ID:     uuid.New(),
		Name:   "Test Product",
		Org:    decimal.NewFromInt(60),
		Net:    decimal.NewFromInt(100),
		Amount: 5,
	}
}

func (p *ProductBuilder) With(mutate func(*ProductBuilder)) *ProductBuilder {
	mutate(p)
	return p
}

func (p *ProductBuilder) BuildPrice() (product.Price, error) {
	return product.NewPrice(p.Org, p.Net, p.Discount)
}

func (p *ProductBuilder) BuildDomain() (*product.Product, error) {
	price, err := p.BuildPrice()
	if err != nil {
		return nil, err
	}
	return product.NewProduct(p.ID, p.Name, price, p.Amount)
}

// Fluent builder methods
func (p *ProductBuilder) WithName(name string) *ProductBuilder {
	p.Name = name
	return p
}

func (p *ProductBuilder) WithPrices(org, net string) *ProductBuilder {
	p.Org = decimal.RequireFromString(org)
	p.Net = decimal.RequireFromString(net)
	return p
}

func (p *ProductBuilder) WithDiscount(percent string) *ProductBuilder {
	d := decimal.RequireFromString(percent)
	p.Discount = &d
	return p
}

func (p *ProductBuilder) WithStock(amount int) *ProductBuilder {
	p.Amount = amount
	return p
}
