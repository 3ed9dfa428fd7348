package commands

import (
	"context"
	"errors"
	"time"

	"shop-checkout/internal/domain/coupon"
	"shop-checkout/internal/infra"
	"shop-checkout/internal/pkg/errs"
	"shop-checkout/internal/pkg/patch"
	"shop-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=coupon.go -destination=../../../tests/mock/commands/coupon_mock.go -package=commandsmock

type CreateCouponInput struct {
	Code     string
	Value    decimal.Decimal
	Limit    *int
	Expire   *time.Time
	IsActive bool
}

// UpdateCouponInput is a partial update. Clear flags reset the nullable fields.
type UpdateCouponInput struct {
	Value       *decimal.Decimal
	Limit       *int
	ClearLimit  bool
	Expire      *time.Time
	ClearExpire bool
	IsActive    *bool
}

type CouponCommands interface {
	Create(ctx context.Context, input CreateCouponInput) (*coupon.Coupon, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCouponInput) (*coupon.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type couponUseCaseImpl struct {
	uow shared.UnitOfWork
}

func NewCouponCommands(uow shared.UnitOfWork) CouponCommands {
	return &couponUseCaseImpl{uow: uow}
}

func (uc *couponUseCaseImpl) Create(ctx context.Context, input CreateCouponInput) (*coupon.Coupon, error) {
	c, err := coupon.NewCoupon(input.Code, input.Value, input.Limit, input.Expire, input.IsActive)
	if err != nil {
		return nil, markCouponValidation(err)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Coupons().Create(ctx, c); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, errs.ErrCouponCodeTaken)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *couponUseCaseImpl) Update(ctx context.Context, id uuid.UUID, input UpdateCouponInput) (*coupon.Coupon, error) {
	var updated *coupon.Coupon
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, err := tx.Coupons().FindByID(ctx, id)
		if err != nil {
			return markRepoErr(err, errs.ErrCouponNotFound)
		}

		err = c.Update(
			patch.Coalesce(input.Value, c.Value()),
			patch.Optional(input.Limit, input.ClearLimit, c.Limit()),
			patch.Optional(input.Expire, input.ClearExpire, c.Expire()),
			patch.Coalesce(input.IsActive, c.IsActive()),
		)
		if err != nil {
			return markCouponValidation(err)
		}

		if err := tx.Coupons().Update(ctx, c); err != nil {
			return markRepoErr(err, errs.ErrCouponNotFound)
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the coupon. Carts that still reference it report the coupon
// as missing at checkout.
func (uc *couponUseCaseImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Coupons().Delete(ctx, id); err != nil {
			return markRepoErr(err, errs.ErrCouponNotFound)
		}
		return nil
	})
}

func markCouponValidation(err error) error {
	switch {
	case errors.Is(err, coupon.ErrInvalidCouponCode),
		errors.Is(err, coupon.ErrInvalidDiscountPercent),
		errors.Is(err, coupon.ErrInvalidLimit):
		return errs.Mark(err, errs.ErrDomainValidation)
	default:
		return err
	}
}
