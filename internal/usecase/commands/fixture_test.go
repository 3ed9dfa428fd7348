//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"shop-checkout/internal/domain/coupon"
	"shop-checkout/internal/domain/order"
	"shop-checkout/internal/domain/product"
	"shop-checkout/internal/domain/user"
	"shop-checkout/internal/infra"
	"shop-checkout/internal/infra/memstore"
	"shop-checkout/internal/pkg/clock"
	"shop-checkout/internal/pkg/errs"
	"shop-checkout/internal/usecase/commands"
	"shop-checkout/internal/usecase/queries"
	"shop-checkout/internal/usecase/shared"
	"shop-checkout/tests/common/builder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store     *memstore.Store
	reads     *memstore.OrderReadStore
	idem      *memstore.IdempotencyStore
	clock     *clock.MockClock
	checkout  commands.CheckoutCommands
	cart      commands.CartCommands
	lifecycle commands.OrderLifecycleCommands
	coupons   commands.CouponCommands
}

// newFixture wires the commands against the in-memory store with a delivery
// rate of 5 per km.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	idem := memstore.NewIdempotencyStore(time.Hour)
	clk := clock.NewMockClock(fixedNow)
	return &fixture{
		store:     store,
		reads:     memstore.NewOrderReadStore(store),
		idem:      idem,
		clock:     clk,
		checkout:  commands.NewCheckoutCommands(store, idem, order.NewDeliveryEstimator(decimal.NewFromInt(5)), clk),
		cart:      commands.NewCartCommands(store, clk),
		lifecycle: commands.NewOrderLifecycleCommands(store, clk),
		coupons:   commands.NewCouponCommands(store),
	}
}

func (f *fixture) product(t *testing.T, b *builder.ProductBuilder) *product.Product {
	t.Helper()
	p, err := b.BuildDomain()
	require.NoError(t, err)
	f.store.SeedProduct(p)
	return p
}

func (f *fixture) user(t *testing.T, b *builder.UserBuilder) *user.User {
	t.Helper()
	u, err := b.BuildStored()
	require.NoError(t, err)
	f.store.SeedUser(u)
	return u
}

func (f *fixture) coupon(b *builder.CouponBuilder) *coupon.Coupon {
	c := b.BuildStored()
	f.store.SeedCoupon(c)
	return c
}

func (f *fixture) loadUser(t *testing.T, id uuid.UUID) *user.User {
	t.Helper()
	u, err := f.store.Direct().Users().FindByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func (f *fixture) loadProduct(t *testing.T, id uuid.UUID) *product.Product {
	t.Helper()
	p, err := f.store.Direct().Products().FindByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (f *fixture) loadCoupon(t *testing.T, id uuid.UUID) *coupon.Coupon {
	t.Helper()
	c, err := f.store.Direct().Coupons().FindByID(context.Background(), id)
	require.NoError(t, err)
	return c
}

func (f *fixture) orders(t *testing.T) []*queries.OrderView {
	t.Helper()
	views, err := f.reads.List(context.Background(), shared.OrderFilter{})
	require.NoError(t, err)
	return views
}

func (f *fixture) dueJobs(t *testing.T) []shared.NotificationJob {
	t.Helper()
	jobs, err := f.store.Direct().Notifications().ClaimDue(context.Background(), fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour), 100)
	require.NoError(t, err)
	return jobs
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, d(want).Equal(got), "want %s, got %s", want, got)
}

// requireMarked checks marks added with errs.Mark, which errors.Is cannot see.
func requireMarked(t *testing.T, err, target error) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, errs.Is(err, target), "want %v, got %v", target, err)
}

// placeOrder stores an order as if it had been committed. The owner is seeded
// unless the test already created it.
func (f *fixture) placeOrder(t *testing.T, b *builder.OrderBuilder) *order.Order {
	t.Helper()
	o := b.BuildDomain()
	if _, err := f.store.Direct().Users().FindByID(context.Background(), o.UserID()); err != nil {
		require.True(t, infra.IsKind(err, infra.KindNotFound), "unexpected lookup error: %v", err)
		f.user(t, builder.NewUserBuilder().WithID(o.UserID()))
	}
	err := f.store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Orders().Create(ctx, o)
	})
	require.NoError(t, err)
	return o
}
