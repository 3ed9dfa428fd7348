package memstore

import (
	"context"
	"slices"
	"strings"

	"shop-checkout/internal/infra"
	"shop-checkout/internal/usecase/queries"
	"shop-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

// OrderReadStore serves the order read side from the same tables.
type OrderReadStore struct {
	store *Store
}

func NewOrderReadStore(store *Store) *OrderReadStore {
	return &OrderReadStore{store: store}
}

func (s *OrderReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.OrderView, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	row, ok := s.store.data.orders[id]
	if !ok {
		return nil, infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return queries.NewOrderView(row.entity()), nil
}

func (s *OrderReadStore) List(_ context.Context, filter shared.OrderFilter) ([]*queries.OrderView, error) {
	s.store.mu.Lock()
	rows := make([]orderRow, 0, len(s.store.data.orders))
	for _, row := range s.store.data.orders {
		if matchesFilter(row, filter) {
			rows = append(rows, row)
		}
	}
	s.store.mu.Unlock()

	sorts := filter.Sort
	if len(sorts) == 0 {
		sorts = []shared.OrderSort{{Field: shared.SortByTimestamp, Desc: true}}
	}
	slices.SortFunc(rows, func(a, b orderRow) int {
		for _, srt := range sorts {
			c := compareBy(srt.Field, a, b)
			if srt.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})

	if filter.Offset >= len(rows) {
		return []*queries.OrderView{}, nil
	}
	rows = rows[filter.Offset:]
	if filter.Limit > 0 && len(rows) > filter.Limit {
		rows = rows[:filter.Limit]
	}

	views := make([]*queries.OrderView, len(rows))
	for i, row := range rows {
		views[i] = queries.NewOrderView(row.entity())
	}
	return views, nil
}

func matchesFilter(row orderRow, f shared.OrderFilter) bool {
	if f.UserID != nil && row.UserID != *f.UserID {
		return false
	}
	if f.DeliveryID != nil && (row.DeliveryID == nil || *row.DeliveryID != *f.DeliveryID) {
		return false
	}
	if len(f.States) > 0 && !slices.Contains(f.States, row.State) {
		return false
	}
	if f.TimeMin != nil && row.CreatedAt.Before(*f.TimeMin) {
		return false
	}
	if f.TimeMax != nil && row.CreatedAt.After(*f.TimeMax) {
		return false
	}
	return true
}

func compareBy(field shared.OrderSortField, a, b orderRow) int {
	switch field {
	case shared.SortByState:
		return strings.Compare(a.State.String(), b.State.String())
	case shared.SortByTotal:
		return a.Cost.Final().Cmp(b.Cost.Final())
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
