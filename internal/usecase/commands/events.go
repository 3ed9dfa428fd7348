package commands

import (
	"context"
	"encoding/json"
	"time"

	"shop-checkout/internal/domain/order"
	"shop-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	notificationKindEvent   = "event"
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status_changed"
)

type orderEvent struct {
	Type       string     `json:"type"`
	OrderID    uuid.UUID  `json:"order_id"`
	UserID     uuid.UUID  `json:"user_id"`
	State      string     `json:"state"`
	DeliveryID *uuid.UUID `json:"delivery_id,omitempty"`
	FinalCost  string     `json:"final_cost"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// enqueueOrderEvent writes to the outbox inside the caller's transaction.
func enqueueOrderEvent(ctx context.Context, tx shared.Tx, topic string, o *order.Order, now time.Time) error {
	payload, err := json.Marshal(orderEvent{
		Type:       topic,
		OrderID:    o.ID(),
		UserID:     o.UserID(),
		State:      o.State().String(),
		DeliveryID: o.DeliveryID(),
		FinalCost:  o.Cost().Final().StringFixed(2),
		OccurredAt: now,
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, notificationKindEvent, topic, payload, now)
}
