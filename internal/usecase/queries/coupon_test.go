//go:build unit

package queries_test

import (
	"context"
	"testing"

	"shop-checkout/internal/infra/memstore"
	"shop-checkout/internal/pkg/errs"
	"shop-checkout/internal/usecase/queries"
	"shop-checkout/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponQueries(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	b := builder.NewCouponBuilder().WithCode("BETA20").WithValue("20").WithLimit(3, 1).BuildStored()
	a := builder.NewCouponBuilder().WithCode("ALPHA5").WithValue("5").BuildStored()
	store.SeedCoupon(b)
	store.SeedCoupon(a)
	q := queries.NewCouponQueries(store)

	t.Run("一覧はコード順", func(t *testing.T) {
		views, err := q.List(ctx)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, "ALPHA5", views[0].Code)
		assert.Equal(t, "BETA20", views[1].Code)
	})

	t.Run("IDで取得", func(t *testing.T) {
		view, err := q.GetByID(ctx, b.ID())
		require.NoError(t, err)
		assert.Equal(t, 1, view.Used)
		require.NotNil(t, view.Limit)
		assert.Equal(t, 3, *view.Limit)
	})

	t.Run("存在しないIDはCouponNotFound", func(t *testing.T) {
		_, err := q.GetByID(ctx, uuid.New())
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrCouponNotFound))
	})
}
