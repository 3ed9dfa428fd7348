//go:build unit

package order_test

import (
	"testing"
	"time"

	"shop-checkout/internal/domain/order"
	"shop-checkout/internal/domain/user"
	"shop-checkout/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStates = []order.State{order.StatePending, order.StateAccepted, order.StateRejected, order.StateDelivered}

func TestCanTransition(t *testing.T) {
	allowed := map[user.Role][][2]order.State{
		user.RoleUser: nil,
		user.RoleDelivery: {
			{order.StatePending, order.StateAccepted},
			{order.StatePending, order.StateRejected},
			{order.StateAccepted, order.StateDelivered},
		},
		user.RoleManager: {
			{order.StatePending, order.StateAccepted},
			{order.StatePending, order.StateRejected},
			{order.StateAccepted, order.StateDelivered},
			{order.StateAccepted, order.StateRejected},
		},
		user.RoleAdmin: {
			{order.StatePending, order.StateAccepted},
			{order.StatePending, order.StateRejected},
			{order.StateAccepted, order.StateDelivered},
			{order.StateAccepted, order.StateRejected},
		},
	}

	for role, edges := range allowed {
		for _, from := range allStates {
			for _, to := range allStates {
				want := false
				for _, e := range edges {
					if e[0] == from && e[1] == to {
						want = true
					}
				}
				t.Run(role.String()+": "+from.String()+"→"+to.String(), func(t *testing.T) {
					assert.Equal(t, want, order.CanTransition(role, from, to))
				})
			}
		}
	}
}

func TestOrder_Transition(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	courier := order.Actor{ID: uuid.New(), Role: user.RoleDelivery}
	manager := order.Actor{ID: uuid.New(), Role: user.RoleManager}

	t.Run("配達員の受諾で担当者になる", func(t *testing.T) {
		o := builder.NewOrderBuilder().BuildDomain()

		require.NoError(t, o.Transition(courier, order.StateAccepted, now))

		assert.Equal(t, order.StateAccepted, o.State())
		require.NotNil(t, o.DeliveryID())
		assert.Equal(t, courier.ID, *o.DeliveryID())
		assert.Equal(t, now, o.UpdatedAt())
	})

	t.Run("担当者は配達完了にできる", func(t *testing.T) {
		o := builder.NewOrderBuilder().InState(order.StateAccepted).AssignedTo(courier.ID).BuildDomain()
		require.NoError(t, o.Transition(courier, order.StateDelivered, now))
		assert.Equal(t, order.StateDelivered, o.State())
	})

	t.Run("他の配達員の注文は操作できない", func(t *testing.T) {
		o := builder.NewOrderBuilder().InState(order.StateAccepted).AssignedTo(uuid.New()).BuildDomain()
		err := o.Transition(courier, order.StateDelivered, now)
		require.ErrorIs(t, err, order.ErrNotAssignee)
		assert.Equal(t, order.StateAccepted, o.State())
	})

	t.Run("他の配達員に割り当て済みの注文は受諾できない", func(t *testing.T) {
		o := builder.NewOrderBuilder().AssignedTo(uuid.New()).BuildDomain()
		err := o.Transition(courier, order.StateAccepted, now)
		require.ErrorIs(t, err, order.ErrNotAssignee)
	})

	t.Run("担当者なしの配達完了はNG", func(t *testing.T) {
		o := builder.NewOrderBuilder().InState(order.StateAccepted).BuildDomain()
		err := o.Transition(courier, order.StateDelivered, now)
		require.ErrorIs(t, err, order.ErrNotAssignee)
	})

	t.Run("配達員は受諾済みを拒否できない", func(t *testing.T) {
		o := builder.NewOrderBuilder().InState(order.StateAccepted).AssignedTo(courier.ID).BuildDomain()
		err := o.Transition(courier, order.StateRejected, now)
		require.ErrorIs(t, err, order.ErrTransitionForbidden)
	})

	t.Run("顧客は状態を変更できない", func(t *testing.T) {
		o := builder.NewOrderBuilder().BuildDomain()
		err := o.Transition(order.Actor{ID: o.UserID(), Role: user.RoleUser}, order.StateRejected, now)
		require.ErrorIs(t, err, order.ErrTransitionForbidden)
	})

	t.Run("終端状態からは遷移できない", func(t *testing.T) {
		for _, terminal := range []order.State{order.StateRejected, order.StateDelivered} {
			o := builder.NewOrderBuilder().InState(terminal).BuildDomain()
			err := o.Transition(manager, order.StateAccepted, now)
			require.ErrorIs(t, err, order.ErrInvalidTransition)
			assert.Equal(t, terminal, o.State())
		}
	})

	t.Run("同じ状態への遷移はNG", func(t *testing.T) {
		o := builder.NewOrderBuilder().BuildDomain()
		err := o.Transition(manager, order.StatePending, now)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("未知の状態はNG", func(t *testing.T) {
		o := builder.NewOrderBuilder().BuildDomain()
		err := o.Transition(manager, order.State("shipped"), now)
		require.ErrorIs(t, err, order.ErrInvalidState)
	})

	t.Run("管理者の受諾では担当者は変わらない", func(t *testing.T) {
		o := builder.NewOrderBuilder().BuildDomain()
		require.NoError(t, o.Transition(manager, order.StateAccepted, now))
		assert.Nil(t, o.DeliveryID())
	})
}

func TestOrder_AssignDelivery(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	admin := order.Actor{ID: uuid.New(), Role: user.RoleAdmin}
	courierID := uuid.New()

	t.Run("スタッフは配達員を割り当てられる", func(t *testing.T) {
		o := builder.NewOrderBuilder().BuildDomain()
		require.NoError(t, o.AssignDelivery(admin, courierID, user.RoleDelivery, now))
		require.NotNil(t, o.DeliveryID())
		assert.Equal(t, courierID, *o.DeliveryID())
	})

	t.Run("配達員ロール以外には割り当てられない", func(t *testing.T) {
		o := builder.NewOrderBuilder().BuildDomain()
		err := o.AssignDelivery(admin, courierID, user.RoleManager, now)
		require.ErrorIs(t, err, order.ErrNotCourier)
	})

	t.Run("スタッフ以外は割り当てできない", func(t *testing.T) {
		o := builder.NewOrderBuilder().BuildDomain()
		err := o.AssignDelivery(order.Actor{ID: courierID, Role: user.RoleDelivery}, courierID, user.RoleDelivery, now)
		require.ErrorIs(t, err, order.ErrTransitionForbidden)
	})

	t.Run("終端状態の注文には割り当てできない", func(t *testing.T) {
		o := builder.NewOrderBuilder().InState(order.StateDelivered).BuildDomain()
		err := o.AssignDelivery(admin, courierID, user.RoleDelivery, now)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})
}
