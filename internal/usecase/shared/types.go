package shared

import (
	"time"

	"shop-checkout/internal/domain/order"

	"github.com/google/uuid"
)

const OrderPageSize = 10

type OrderSortField string

const (
	SortByTimestamp OrderSortField = "timestamp"
	SortByState     OrderSortField = "state"
	SortByTotal     OrderSortField = "total"
)

func (f OrderSortField) IsValid() bool {
	switch f {
	case SortByTimestamp, SortByState, SortByTotal:
		return true
	default:
		return false
	}
}

type OrderSort struct {
	Field OrderSortField
	Desc  bool
}

// OrderFilter is a typed order search. Read stores return at most Limit rows
// starting at Offset.
type OrderFilter struct {
	UserID     *uuid.UUID
	DeliveryID *uuid.UUID
	States     []order.State
	TimeMin    *time.Time
	TimeMax    *time.Time
	Sort       []OrderSort
	Offset     int
	Limit      int
}

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int
}
