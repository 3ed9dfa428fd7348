package request

import (
	"errors"
	"strings"
	"time"

	"shop-checkout/internal/domain/order"
	"shop-checkout/internal/usecase/commands"
	"shop-checkout/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrInvalidUserFilter     = errors.New("user must be a valid UUID")
	ErrInvalidDeliveryFilter = errors.New("delivery must be a valid UUID")
	ErrInvalidTimeFilter     = errors.New("timeMin and timeMax must be RFC3339 timestamps")
)

type UpdateOrderStatusRequest struct {
	Status   *string    `json:"status" binding:"omitempty,oneof=pending accepted rejected delivered"`
	Delivery *uuid.UUID `json:"delivery"`
}

func (r UpdateOrderStatusRequest) ToCommand() (commands.StatusUpdate, error) {
	update := commands.StatusUpdate{DeliveryID: r.Delivery}
	if r.Status != nil {
		st, err := order.ParseState(*r.Status)
		if err != nil {
			return commands.StatusUpdate{}, err
		}
		update.Status = &st
	}
	return update, nil
}

// ListOrdersQuery is bound from the query string. Status may be repeated or
// comma separated.
type ListOrdersQuery struct {
	User     string   `form:"user"`
	Delivery string   `form:"delivery"`
	Status   []string `form:"status"`
	TimeMin  string   `form:"timeMin"`
	TimeMax  string   `form:"timeMax"`
	SortBy   string   `form:"sortBy"`
	Page     int      `form:"page" binding:"min=0"`
}

func (q ListOrdersQuery) ToParams() (queries.ListOrdersParams, error) {
	params := queries.ListOrdersParams{
		SortBy: q.SortBy,
		Page:   q.Page,
	}

	var err error
	if params.UserID, err = parseOptionalUUID(q.User); err != nil {
		return queries.ListOrdersParams{}, ErrInvalidUserFilter
	}
	if params.DeliveryID, err = parseOptionalUUID(q.Delivery); err != nil {
		return queries.ListOrdersParams{}, ErrInvalidDeliveryFilter
	}
	if params.TimeMin, err = parseOptionalTime(q.TimeMin); err != nil {
		return queries.ListOrdersParams{}, ErrInvalidTimeFilter
	}
	if params.TimeMax, err = parseOptionalTime(q.TimeMax); err != nil {
		return queries.ListOrdersParams{}, ErrInvalidTimeFilter
	}

	for _, raw := range q.Status {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				params.States = append(params.States, strings.ToLower(s))
			}
		}
	}
	return params, nil
}

func parseOptionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
