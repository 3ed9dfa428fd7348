package queries

import (
	"context"

	"shop-checkout/internal/infra"
	"shop-checkout/internal/pkg/errs"
	"shop-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=product.go -destination=../../../tests/mock/queries/product_mock.go -package=queriesmock

// ProductQueries is the read-only catalogue clients browse to fill a cart.
type ProductQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ProductView, error)
	List(ctx context.Context) ([]*ProductView, error)
}

type productQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewProductQueries(uow shared.UnitOfWork) ProductQueries {
	return &productQueriesImpl{uow: uow}
}

func (q *productQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	p, err := q.uow.Direct().Products().FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrProductNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return newProductView(p), nil
}

func (q *productQueriesImpl) List(ctx context.Context) ([]*ProductView, error) {
	rows, err := q.uow.Direct().Products().List(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	views := make([]*ProductView, len(rows))
	for i, p := range rows {
		views[i] = newProductView(p)
	}
	return views, nil
}
