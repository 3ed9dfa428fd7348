package commands

import (
	"context"

	"shop-checkout/internal/domain/order"
	"shop-checkout/internal/pkg/clock"
	"shop-checkout/internal/pkg/errs"
	"shop-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=order_status.go -destination=../../../tests/mock/commands/order_status_mock.go -package=commandsmock

var errEmptyStatusUpdate = errs.New("status or delivery must be provided")

// StatusUpdate carries the optional parts of an order status change. When both
// are set the courier is assigned before the state moves.
type StatusUpdate struct {
	Status     *order.State
	DeliveryID *uuid.UUID
}

type OrderLifecycleCommands interface {
	UpdateStatus(ctx context.Context, orderID uuid.UUID, actor order.Actor, update StatusUpdate) (*order.Order, error)
}

type orderLifecycleUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewOrderLifecycleCommands(uow shared.UnitOfWork, clock clock.Clock) OrderLifecycleCommands {
	return &orderLifecycleUseCaseImpl{uow: uow, clock: clock}
}

func (uc *orderLifecycleUseCaseImpl) UpdateStatus(
	ctx context.Context,
	orderID uuid.UUID,
	actor order.Actor,
	update StatusUpdate,
) (*order.Order, error) {
	if update.Status == nil && update.DeliveryID == nil {
		return nil, errs.Mark(errEmptyStatusUpdate, errs.ErrDomainValidation)
	}

	var updated *order.Order
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()

		o, err := tx.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return markRepoErr(err, errs.ErrOrderNotFound)
		}

		if update.DeliveryID != nil {
			if !actor.Role.IsStaff() {
				return errs.Mark(order.ErrTransitionForbidden, errs.ErrForbidden)
			}
			courier, err := tx.Users().FindByID(ctx, *update.DeliveryID)
			if err != nil {
				return markRepoErr(err, errs.ErrUserNotFound)
			}
			if err := o.AssignDelivery(actor, courier.ID(), courier.Role(), now); err != nil {
				return markLifecycleErr(err)
			}
		}

		if update.Status != nil {
			if err := o.Transition(actor, *update.Status, now); err != nil {
				return markLifecycleErr(err)
			}
		}

		if err := tx.Orders().UpdateStatus(ctx, o); err != nil {
			return markRepoErr(err, errs.ErrOrderNotFound)
		}
		if err := enqueueOrderEvent(ctx, tx, TopicOrderStatusChanged, o, now); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
