package cart

import (
	"context"

	"shop-checkout/internal/domain/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductLookup returns (nil, nil) when the product no longer exists.
type ProductLookup interface {
	ProductByID(ctx context.Context, id uuid.UUID) (*product.Product, error)
}

type LookupFunc func(ctx context.Context, id uuid.UUID) (*product.Product, error)

func (f LookupFunc) ProductByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return f(ctx, id)
}

type AdjustmentKind string

const (
	AdjustmentRemoved AdjustmentKind = "removed"
	AdjustmentClamped AdjustmentKind = "clamped"
)

// Adjustment records one line the reconciler had to change.
type Adjustment struct {
	ProductID uuid.UUID
	Kind      AdjustmentKind
	Requested int
	Granted   int
}

// PricedLine is a surviving line priced at the product's current effective price.
type PricedLine struct {
	ProductID uuid.UUID
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	Profit    decimal.Decimal
}

type Reconciliation struct {
	Altered     bool
	Lines       []PricedLine
	Adjustments []Adjustment
	Total       decimal.Decimal
	Profit      decimal.Decimal
}

// CartLines returns the surviving lines in cart form.
func (r Reconciliation) CartLines() []Line {
	out := make([]Line, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = Line{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return out
}

// Reconcile checks every line against live product data. Missing or sold out
// products are dropped, quantities above stock are clamped, and totals are
// accumulated over what survives. The result only depends on the lines and
// the lookup, so a dry run and a commit reading the same state agree.
func Reconcile(ctx context.Context, lines []Line, lookup ProductLookup) (Reconciliation, error) {
	rec := Reconciliation{
		Lines:  make([]PricedLine, 0, len(lines)),
		Total:  decimal.Zero,
		Profit: decimal.Zero,
	}

	for _, line := range lines {
		p, err := lookup.ProductByID(ctx, line.ProductID)
		if err != nil {
			return Reconciliation{}, err
		}

		if p == nil || !p.InStock() {
			rec.Altered = true
			rec.Adjustments = append(rec.Adjustments, Adjustment{
				ProductID: line.ProductID,
				Kind:      AdjustmentRemoved,
				Requested: line.Quantity,
			})
			continue
		}

		qty := line.Quantity
		if p.Amount() < qty {
			qty = p.Amount()
			rec.Altered = true
			rec.Adjustments = append(rec.Adjustments, Adjustment{
				ProductID: line.ProductID,
				Kind:      AdjustmentClamped,
				Requested: line.Quantity,
				Granted:   qty,
			})
		}

		priced := PricedLine{
			ProductID: p.ID(),
			Name:      p.Name(),
			Quantity:  qty,
			UnitPrice: p.EffectivePrice(),
			Subtotal:  product.LineSubtotal(p.Price(), qty),
			Profit:    product.LineProfit(p.Price(), qty),
		}
		rec.Lines = append(rec.Lines, priced)
		rec.Total = rec.Total.Add(priced.Subtotal)
		rec.Profit = rec.Profit.Add(priced.Profit)
	}

	return rec, nil
}
