package order

import (
	"errors"
	"time"

	"shop-checkout/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition   = errors.New("order state cannot move to the requested state")
	ErrTransitionForbidden = errors.New("role is not allowed to perform this transition")
	ErrNotAssignee         = errors.New("order is assigned to another courier")
	ErrNotCourier          = errors.New("assignee must have the delivery role")
)

type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

type edge struct {
	from State
	to   State
}

// Edges of the state machine regardless of who asks.
var stateMachine = map[edge]struct{}{
	{StatePending, StateAccepted}:   {},
	{StatePending, StateRejected}:   {},
	{StateAccepted, StateDelivered}: {},
	{StateAccepted, StateRejected}:  {},
}

// Per-role subset of the state machine.
var roleTransitions = map[user.Role]map[edge]struct{}{
	user.RoleDelivery: {
		{StatePending, StateAccepted}:   {},
		{StatePending, StateRejected}:   {},
		{StateAccepted, StateDelivered}: {},
	},
	user.RoleManager: stateMachine,
	user.RoleAdmin:   stateMachine,
}

// CanTransition reports whether role may move an order from one state to another.
func CanTransition(role user.Role, from, to State) bool {
	_, ok := roleTransitions[role][edge{from, to}]
	return ok
}

// Transition moves the order to the requested state on behalf of actor.
// A courier accepting an order becomes its delivery assignee, and only the
// assignee may mark it delivered.
func (o *Order) Transition(actor Actor, to State, now time.Time) error {
	if !to.IsValid() {
		return ErrInvalidState
	}
	allowed, known := roleTransitions[actor.Role]
	if !known || len(allowed) == 0 {
		return ErrTransitionForbidden
	}
	e := edge{o.state, to}
	if _, ok := stateMachine[e]; !ok {
		return ErrInvalidTransition
	}
	if _, ok := allowed[e]; !ok {
		return ErrTransitionForbidden
	}

	if actor.Role.IsCourier() {
		assignedToOther := o.deliveryID != nil && *o.deliveryID != actor.ID
		switch to {
		case StateAccepted:
			if assignedToOther {
				return ErrNotAssignee
			}
			id := actor.ID
			o.deliveryID = &id
		case StateDelivered:
			if o.deliveryID == nil || assignedToOther {
				return ErrNotAssignee
			}
		}
	}

	o.state = to
	o.updatedAt = now
	return nil
}

// AssignDelivery lets staff hand a non-terminal order to a courier.
func (o *Order) AssignDelivery(actor Actor, courierID uuid.UUID, courierRole user.Role, now time.Time) error {
	if !actor.Role.IsStaff() {
		return ErrTransitionForbidden
	}
	if o.state.IsTerminal() {
		return ErrInvalidTransition
	}
	if !courierRole.IsCourier() {
		return ErrNotCourier
	}
	id := courierID
	o.deliveryID = &id
	o.updatedAt = now
	return nil
}
