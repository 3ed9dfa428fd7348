package queries

import (
	"context"

	"shop-checkout/internal/infra"
	"shop-checkout/internal/pkg/errs"
	"shop-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=cart.go -destination=../../../tests/mock/queries/cart_mock.go -package=queriesmock

type CartQueries interface {
	// Get returns the stored cart joined with live product data. Lines whose
	// product no longer exists are listed with zero stock.
	Get(ctx context.Context, userID uuid.UUID) (*CartView, error)
}

type cartQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewCartQueries(uow shared.UnitOfWork) CartQueries {
	return &cartQueriesImpl{uow: uow}
}

func (q *cartQueriesImpl) Get(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	var view *CartView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		u, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrUserNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		c := u.Cart()
		view = emptyCartView(c)
		for _, line := range c.Lines() {
			lv := CartLineView{ProductID: line.ProductID, Quantity: line.Quantity}
			p, err := tx.Products().FindByID(ctx, line.ProductID)
			switch {
			case infra.IsKind(err, infra.KindNotFound):
			case err != nil:
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			default:
				lv.Name = p.Name()
				lv.UnitPrice = p.EffectivePrice()
				lv.InStock = p.Amount()
			}
			view.Lines = append(view.Lines, lv)
		}

		if id := c.CouponID(); id != nil {
			cp, err := tx.Coupons().FindByID(ctx, *id)
			switch {
			case infra.IsKind(err, infra.KindNotFound):
			case err != nil:
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			default:
				code := cp.Code().String()
				view.CouponCode = &code
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
