package commands

import (
	"context"
	"log/slog"

	"shop-checkout/internal/domain/cart"
	"shop-checkout/internal/domain/order"
	"shop-checkout/internal/domain/product"
	"shop-checkout/internal/domain/user"
	"shop-checkout/internal/infra"
	"shop-checkout/internal/pkg/clock"
	"shop-checkout/internal/pkg/errs"
	"shop-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=checkout.go -destination=../../../tests/mock/commands/checkout_mock.go -package=commandsmock

type CreateOrderResult struct {
	Order      *order.Order
	IsReplayed bool
}

type CheckoutCommands interface {
	// CheckOrder prices the cart without side effects. An altered cart yields
	// a *DriftError carrying the corrected draft.
	CheckOrder(ctx context.Context, userID uuid.UUID) (*order.Draft, error)
	// CreateOrder re-validates the cart under lock and commits every effect of
	// the order atomically. A non-empty idempotencyKey replays earlier results.
	CreateOrder(ctx context.Context, userID uuid.UUID, idempotencyKey string) (*CreateOrderResult, error)
}

type checkoutUseCaseImpl struct {
	uow      shared.UnitOfWork
	idem     shared.IdempotencyStore
	delivery *order.DeliveryEstimator
	clock    clock.Clock
}

func NewCheckoutCommands(
	uow shared.UnitOfWork,
	idem shared.IdempotencyStore,
	delivery *order.DeliveryEstimator,
	clock clock.Clock,
) CheckoutCommands {
	return &checkoutUseCaseImpl{
		uow:      uow,
		idem:     idem,
		delivery: delivery,
		clock:    clock,
	}
}

func (uc *checkoutUseCaseImpl) CheckOrder(ctx context.Context, userID uuid.UUID) (*order.Draft, error) {
	var draft *order.Draft
	err := uc.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		u, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return markRepoErr(err, errs.ErrUserNotFound)
		}
		if u.Cart().IsEmpty() {
			return errs.ErrEmptyCart
		}
		draft, err = uc.price(ctx, tx, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	if draft.Altered {
		return nil, &DriftError{Draft: draft}
	}
	return draft, nil
}

func (uc *checkoutUseCaseImpl) CreateOrder(ctx context.Context, userID uuid.UUID, idempotencyKey string) (*CreateOrderResult, error) {
	if idempotencyKey == "" {
		created, err := uc.commit(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &CreateOrderResult{Order: created}, nil
	}

	scope := userID.String()
	replayed, err := uc.replay(ctx, scope, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return &CreateOrderResult{Order: replayed, IsReplayed: true}, nil
	}

	locked, err := uc.idem.TryLock(ctx, scope, idempotencyKey)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if !locked {
		return nil, errs.ErrIdempotencyInProgress
	}

	created, err := uc.commit(ctx, userID)
	if err != nil {
		// Release the key so the client can retry after fixing the cart
		if unlockErr := uc.idem.Unlock(ctx, scope, idempotencyKey); unlockErr != nil {
			slog.Warn("failed to release idempotency key", "user_id", scope, "error", unlockErr.Error())
		}
		return nil, err
	}

	if err := uc.idem.Remember(ctx, scope, idempotencyKey, created.ID().String()); err != nil {
		slog.Warn("failed to remember idempotency result", "user_id", scope, "order_id", created.ID(), "error", err.Error())
	}
	return &CreateOrderResult{Order: created}, nil
}

func (uc *checkoutUseCaseImpl) replay(ctx context.Context, scope, key string) (*order.Order, error) {
	value, ok, err := uc.idem.Recall(ctx, scope, key)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if !ok {
		return nil, nil
	}
	orderID, err := uuid.Parse(value)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	o, err := uc.uow.Direct().Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, markRepoErr(err, errs.ErrOrderNotFound)
	}
	return o, nil
}

// commit runs the whole checkout in one transaction. The user row lock
// serializes commits per user and the product locks pin stock until the
// decrement, so the reconciliation seen here is authoritative.
func (uc *checkoutUseCaseImpl) commit(ctx context.Context, userID uuid.UUID) (*order.Order, error) {
	var created *order.Order
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()

		u, err := tx.Users().FindByIDForUpdate(ctx, userID)
		if err != nil {
			return markRepoErr(err, errs.ErrUserNotFound)
		}
		c := u.Cart()
		if c.IsEmpty() {
			return errs.ErrEmptyCart
		}
		if err := tx.Products().LockByIDs(ctx, c.ProductIDs()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		draft, err := uc.price(ctx, tx, u)
		if err != nil {
			return err
		}
		if draft.Altered {
			return &DriftError{Draft: draft}
		}

		if err := uc.redeemCoupon(ctx, tx, draft); err != nil {
			return err
		}

		o, err := order.NewFromDraft(draft, now)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		for _, item := range o.Items() {
			if err := tx.Products().DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if infra.IsKind(err, infra.KindConflict) {
					return errs.Mark(err, errStockConflict)
				}
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}
		if err := tx.Orders().Create(ctx, o); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Users().ApplyCheckout(ctx, u.ID(), draft.Cost.Wallet, draft.Cost.Spent()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := enqueueOrderEvent(ctx, tx, TopicOrderCreated, o, now); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		created = o
		return nil
	})
	if errs.Is(err, errStockConflict) {
		return nil, uc.stockDrift(ctx, userID, err)
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

// stockDrift reprices the cart after a stock decrement lost to another writer
// and reports the fresh draft as drift. A reprice that sees no change means
// storage disagrees with itself.
func (uc *checkoutUseCaseImpl) stockDrift(ctx context.Context, userID uuid.UUID, cause error) error {
	_, err := uc.CheckOrder(ctx, userID)
	var drift *DriftError
	if errs.As(err, &drift) {
		return drift
	}
	if err != nil {
		return err
	}
	slog.Error("stock conflict without drift", "user_id", userID, "error", cause.Error())
	return errs.Mark(cause, errs.ErrDatabaseOperationFailed)
}

// price reconciles the cart and fills in coupon, wallet and delivery. The
// coupon is only peeked here; redemption happens in commit.
func (uc *checkoutUseCaseImpl) price(ctx context.Context, tx shared.Tx, u *user.User) (*order.Draft, error) {
	c := u.Cart()
	rec, err := cart.Reconcile(ctx, c.Lines(), productLookup(tx.Products()))
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	draft := &order.Draft{
		UserID:      u.ID(),
		Lines:       rec.Lines,
		Adjustments: rec.Adjustments,
		Altered:     rec.Altered,
		CouponID:    c.CouponID(),
	}

	discount := decimal.Zero
	if id := c.CouponID(); id != nil {
		cp, err := tx.Coupons().FindByID(ctx, *id)
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			draft.CouponIssue = order.CouponIssueNotFound
		case err != nil:
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		default:
			if rejectErr := cp.CheckEligibility(uc.clock.Now()); rejectErr != nil {
				draft.CouponIssue = couponIssueOf(rejectErr)
			} else {
				discount = cp.DiscountFor(rec.Total)
			}
		}
	}

	draft.Cost = order.Cost{
		Total:    rec.Total,
		Profit:   rec.Profit,
		Delivery: uc.delivery.Fee(u.Location().DistanceKm),
		Wallet:   order.WalletUsed(c.UseWallet(), u.Wallet(), rec.Total, discount),
		Coupon:   discount,
	}
	return draft, nil
}

func (uc *checkoutUseCaseImpl) redeemCoupon(ctx context.Context, tx shared.Tx, draft *order.Draft) error {
	if draft.CouponID == nil {
		return nil
	}
	switch draft.CouponIssue {
	case order.CouponIssueNone:
	case order.CouponIssueNotFound:
		return errs.ErrCouponNotFound
	default:
		return errs.Mark(rejectionOf(draft.CouponIssue), errs.ErrCouponRejected)
	}

	now := uc.clock.Now()
	ok, err := tx.Coupons().TryRedeem(ctx, *draft.CouponID, now)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if ok {
		return nil
	}

	// Another checkout consumed the last use after the peek
	cp, err := tx.Coupons().FindByID(ctx, *draft.CouponID)
	if err != nil {
		return markRepoErr(err, errs.ErrCouponNotFound)
	}
	if rejectErr := cp.CheckEligibility(now); rejectErr != nil {
		return markCouponRejection(rejectErr)
	}
	return markCouponRejection(errs.Wrap(rejectionOf(order.CouponIssueLimitReached), "coupon redemption lost the race"))
}

func productLookup(repo shared.ProductRepository) cart.ProductLookup {
	return cart.LookupFunc(func(ctx context.Context, id uuid.UUID) (*product.Product, error) {
		p, err := repo.FindByID(ctx, id)
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return p, err
	})
}
