package queries

import (
	"context"

	"shop-checkout/internal/infra"
	"shop-checkout/internal/pkg/errs"
	"shop-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=coupon.go -destination=../../../tests/mock/queries/coupon_mock.go -package=queriesmock

type CouponQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*CouponView, error)
	List(ctx context.Context) ([]*CouponView, error)
}

type couponQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewCouponQueries(uow shared.UnitOfWork) CouponQueries {
	return &couponQueriesImpl{uow: uow}
}

func (q *couponQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*CouponView, error) {
	c, err := q.uow.Direct().Coupons().FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrCouponNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return newCouponView(c), nil
}

func (q *couponQueriesImpl) List(ctx context.Context) ([]*CouponView, error) {
	rows, err := q.uow.Direct().Coupons().List(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	views := make([]*CouponView, len(rows))
	for i, c := range rows {
		views[i] = newCouponView(c)
	}
	return views, nil
}
