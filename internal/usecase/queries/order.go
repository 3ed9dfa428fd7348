package queries

import (
	"context"
	"time"

	"shop-checkout/internal/domain/order"
	"shop-checkout/internal/domain/user"
	"shop-checkout/internal/infra"
	"shop-checkout/internal/pkg/errs"
	"shop-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=order.go -destination=../../../tests/mock/queries/order_mock.go -package=queriesmock

// ListOrdersParams is the typed form of the order search query string.
type ListOrdersParams struct {
	UserID     *uuid.UUID
	DeliveryID *uuid.UUID
	States     []string
	TimeMin    *time.Time
	TimeMax    *time.Time
	SortBy     string
	Page       int
}

type OrderReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	List(ctx context.Context, filter shared.OrderFilter) ([]*OrderView, error)
}

type OrderQueries interface {
	GetByID(ctx context.Context, actor order.Actor, id uuid.UUID) (*OrderView, error)
	List(ctx context.Context, actor order.Actor, params ListOrdersParams) (*OrderPage, error)
}

type orderQueriesImpl struct {
	store OrderReadStore
}

func NewOrderQueries(store OrderReadStore) OrderQueries {
	return &orderQueriesImpl{store: store}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, actor order.Actor, id uuid.UUID) (*OrderView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrOrderNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if actor.Role == user.RoleUser && view.UserID != actor.ID {
		return nil, errs.ErrForbidden
	}
	return view, nil
}

func (q *orderQueriesImpl) List(ctx context.Context, actor order.Actor, params ListOrdersParams) (*OrderPage, error) {
	filter, err := buildOrderFilter(actor, params)
	if err != nil {
		return nil, err
	}

	rows, err := q.store.List(ctx, filter)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	next := nextPage(params.Page, len(rows))
	if next != nil {
		rows = rows[:shared.OrderPageSize]
	}
	return &OrderPage{Orders: rows, NextPage: next}, nil
}

func buildOrderFilter(actor order.Actor, params ListOrdersParams) (shared.OrderFilter, error) {
	offset, limit, err := pageWindow(params.Page)
	if err != nil {
		return shared.OrderFilter{}, err
	}
	sorts, err := ParseSort(params.SortBy)
	if err != nil {
		return shared.OrderFilter{}, err
	}
	states := make([]order.State, 0, len(params.States))
	for _, s := range params.States {
		st, err := order.ParseState(s)
		if err != nil {
			return shared.OrderFilter{}, errs.Mark(err, ErrInvalidQuery)
		}
		states = append(states, st)
	}
	if params.TimeMin != nil && params.TimeMax != nil && params.TimeMax.Before(*params.TimeMin) {
		return shared.OrderFilter{}, errs.Mark(errs.New("timeMax is before timeMin"), ErrInvalidQuery)
	}

	filter := shared.OrderFilter{
		UserID:     params.UserID,
		DeliveryID: params.DeliveryID,
		States:     states,
		TimeMin:    params.TimeMin,
		TimeMax:    params.TimeMax,
		Sort:       sorts,
		Offset:     offset,
		Limit:      limit,
	}
	// Customers only ever see their own orders, whatever they ask for
	if actor.Role == user.RoleUser {
		id := actor.ID
		filter.UserID = &id
	}
	return filter, nil
}
