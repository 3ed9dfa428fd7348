package order

import "errors"

var ErrInvalidState = errors.New("invalid order state")

type State string

const (
	StatePending   State = "pending"
	StateAccepted  State = "accepted"
	StateRejected  State = "rejected"
	StateDelivered State = "delivered"
)

func (s State) String() string {
	return string(s)
}

func (s State) IsValid() bool {
	switch s {
	case StatePending, StateAccepted, StateRejected, StateDelivered:
		return true
	default:
		return false
	}
}

func (s State) IsTerminal() bool {
	return s == StateRejected || s == StateDelivered
}

func ParseState(s string) (State, error) {
	st := State(s)
	if !st.IsValid() {
		return "", ErrInvalidState
	}
	return st, nil
}
