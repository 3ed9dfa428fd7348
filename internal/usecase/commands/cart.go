package commands

import (
	"context"
	"errors"

	"shop-checkout/internal/domain/cart"
	"shop-checkout/internal/domain/coupon"
	"shop-checkout/internal/pkg/clock"
	"shop-checkout/internal/pkg/errs"
	"shop-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=cart.go -destination=../../../tests/mock/commands/cart_mock.go -package=commandsmock

type CartCommands interface {
	AddProduct(ctx context.Context, userID, productID uuid.UUID) (*cart.Cart, error)
	RemoveProduct(ctx context.Context, userID, productID uuid.UUID) (*cart.Cart, error)
	// ApplyCoupon validates the coupon and attaches it. Usage is consumed at
	// checkout, not here.
	ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*cart.Cart, error)
	RemoveCoupon(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	SetUseWallet(ctx context.Context, userID uuid.UUID, use bool) (*cart.Cart, error)
	// AcceptAdjustments stores the reconciled lines so a drifted cart can be
	// checked out as shown in the last draft.
	AcceptAdjustments(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
}

type cartUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewCartCommands(uow shared.UnitOfWork, clock clock.Clock) CartCommands {
	return &cartUseCaseImpl{uow: uow, clock: clock}
}

func (uc *cartUseCaseImpl) AddProduct(ctx context.Context, userID, productID uuid.UUID) (*cart.Cart, error) {
	return uc.mutate(ctx, userID, func(ctx context.Context, tx shared.Tx, c *cart.Cart) error {
		p, err := tx.Products().FindByID(ctx, productID)
		if err != nil {
			return markRepoErr(err, errs.ErrProductNotFound)
		}
		if !p.InStock() {
			return errs.ErrProductOutOfStock
		}
		c.AddProduct(productID)
		return nil
	})
}

func (uc *cartUseCaseImpl) RemoveProduct(ctx context.Context, userID, productID uuid.UUID) (*cart.Cart, error) {
	return uc.mutate(ctx, userID, func(_ context.Context, _ shared.Tx, c *cart.Cart) error {
		kept := make([]cart.Line, 0, len(c.Lines()))
		for _, l := range c.Lines() {
			if l.ProductID != productID {
				kept = append(kept, l)
			}
		}
		if len(kept) == len(c.Lines()) {
			return errs.ErrProductNotFound
		}
		return replaceLines(c, kept)
	})
}

func (uc *cartUseCaseImpl) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*cart.Cart, error) {
	return uc.mutate(ctx, userID, func(ctx context.Context, tx shared.Tx, c *cart.Cart) error {
		if c.CouponID() != nil {
			return errs.ErrCouponAlreadyApplied
		}
		couponCode, err := coupon.NewCouponCode(code)
		if err != nil {
			// malformed codes cannot exist in storage
			return errs.Mark(err, errs.ErrCouponNotFound)
		}
		cp, err := tx.Coupons().FindByCode(ctx, couponCode)
		if err != nil {
			return markRepoErr(err, errs.ErrCouponNotFound)
		}
		if err := cp.CheckEligibility(uc.clock.Now()); err != nil {
			return markCouponRejection(err)
		}
		if err := c.AttachCoupon(cp.ID()); err != nil {
			return errs.Mark(err, errs.ErrCouponAlreadyApplied)
		}
		return nil
	})
}

func (uc *cartUseCaseImpl) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return uc.mutate(ctx, userID, func(_ context.Context, _ shared.Tx, c *cart.Cart) error {
		c.DetachCoupon()
		return nil
	})
}

func (uc *cartUseCaseImpl) SetUseWallet(ctx context.Context, userID uuid.UUID, use bool) (*cart.Cart, error) {
	return uc.mutate(ctx, userID, func(_ context.Context, _ shared.Tx, c *cart.Cart) error {
		c.SetUseWallet(use)
		return nil
	})
}

func (uc *cartUseCaseImpl) AcceptAdjustments(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return uc.mutate(ctx, userID, func(ctx context.Context, tx shared.Tx, c *cart.Cart) error {
		rec, err := cart.Reconcile(ctx, c.Lines(), productLookup(tx.Products()))
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !rec.Altered {
			return nil
		}
		return replaceLines(c, rec.CartLines())
	})
}

// mutate loads the cart under the user row lock, applies fn and stores the result.
func (uc *cartUseCaseImpl) mutate(
	ctx context.Context,
	userID uuid.UUID,
	fn func(ctx context.Context, tx shared.Tx, c *cart.Cart) error,
) (*cart.Cart, error) {
	var result *cart.Cart
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		u, err := tx.Users().FindByIDForUpdate(ctx, userID)
		if err != nil {
			return markRepoErr(err, errs.ErrUserNotFound)
		}
		c := u.Cart()
		if err := fn(ctx, tx, c); err != nil {
			return err
		}
		if err := tx.Users().SaveCart(ctx, userID, c); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func replaceLines(c *cart.Cart, lines []cart.Line) error {
	next, err := cart.New(lines, c.CouponID(), c.UseWallet())
	if err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) || errors.Is(err, cart.ErrDuplicateLine) {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		return err
	}
	*c = *next
	return nil
}
