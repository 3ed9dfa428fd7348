//go:build unit

package commands_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"shop-checkout/internal/domain/cart"
	"shop-checkout/internal/domain/coupon"
	"shop-checkout/internal/domain/order"
	"shop-checkout/internal/domain/product"
	"shop-checkout/internal/infra"
	"shop-checkout/internal/infra/memstore"
	"shop-checkout/internal/pkg/errs"
	"shop-checkout/internal/usecase/commands"
	"shop-checkout/internal/usecase/shared"
	"shop-checkout/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("商品3点・クーポンなし・ウォレットなし・10km", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, builder.NewProductBuilder().WithName("A").WithPrices("60", "100").WithStock(5))
		u := f.user(t, builder.NewUserBuilder().WithDistance("10").WithLine(p.ID(), 3))

		draft, err := f.checkout.CheckOrder(ctx, u.ID())
		require.NoError(t, err)

		assert.False(t, draft.Altered)
		assert.Equal(t, order.CouponIssueNone, draft.CouponIssue)
		require.Len(t, draft.Lines, 1)
		assert.Equal(t, 3, draft.Lines[0].Quantity)
		requireDecimal(t, "300", draft.Cost.Total)
		requireDecimal(t, "50", draft.Cost.Delivery)
		requireDecimal(t, "0", draft.Cost.Wallet)
		requireDecimal(t, "0", draft.Cost.Coupon)
		requireDecimal(t, "350", draft.Cost.Final())
	})

	t.Run("副作用なし", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, builder.NewProductBuilder().WithStock(5))
		cp := f.coupon(builder.NewCouponBuilder().WithLimit(1, 0))
		u := f.user(t, builder.NewUserBuilder().WithWallet("40").WithLine(p.ID(), 3).WithCoupon(cp.ID()).UsingWallet())

		_, err := f.checkout.CheckOrder(ctx, u.ID())
		require.NoError(t, err)

		assert.Equal(t, 5, f.loadProduct(t, p.ID()).Amount())
		assert.Equal(t, 0, f.loadCoupon(t, cp.ID()).Used())
		after := f.loadUser(t, u.ID())
		requireDecimal(t, "40", after.Wallet())
		assert.Equal(t, 0, after.Orders())
		assert.False(t, after.Cart().IsEmpty())
		assert.Empty(t, f.orders(t))
		assert.Empty(t, f.dueJobs(t))
	})

	t.Run("繰り返し呼んでも同じドラフトを返す", func(t *testing.T) {
		f := newFixture(t)
		a := f.product(t, builder.NewProductBuilder().WithName("A").WithPrices("60", "100").WithStock(5))
		b := f.product(t, builder.NewProductBuilder().WithName("B").WithPrices("20", "40").WithStock(1))
		cp := f.coupon(builder.NewCouponBuilder().WithLimit(1, 0))
		u := f.user(t, builder.NewUserBuilder().
			WithDistance("0.2").
			WithWallet("40").
			WithLine(a.ID(), 3).
			WithLine(b.ID(), 2).
			WithCoupon(cp.ID()).
			UsingWallet())

		first, err := f.checkout.CheckOrder(ctx, u.ID())
		var firstDrift *commands.DriftError
		require.True(t, errs.As(err, &firstDrift), "line B exceeds stock: %v", err)

		second, err := f.checkout.CheckOrder(ctx, u.ID())
		var secondDrift *commands.DriftError
		require.True(t, errs.As(err, &secondDrift))

		assert.Nil(t, first)
		assert.Nil(t, second)
		if diff := cmp.Diff(firstDrift.Draft, secondDrift.Draft); diff != "" {
			t.Errorf("drafts differ between calls (-first +second):\n%s", diff)
		}
		requireDecimal(t, "340", secondDrift.Draft.Cost.Total)
		requireDecimal(t, "50", secondDrift.Draft.Cost.Delivery)
		assert.Equal(t, 0, f.loadCoupon(t, cp.ID()).Used())

		// once the adjustment is accepted the cart is stable too
		_, err = f.cart.AcceptAdjustments(ctx, u.ID())
		require.NoError(t, err)
		stable, err := f.checkout.CheckOrder(ctx, u.ID())
		require.NoError(t, err)
		again, err := f.checkout.CheckOrder(ctx, u.ID())
		require.NoError(t, err)
		if diff := cmp.Diff(stable, again); diff != "" {
			t.Errorf("drafts differ between calls (-first +second):\n%s", diff)
		}
		if diff := cmp.Diff(firstDrift.Draft.Cost, stable.Cost); diff != "" {
			t.Errorf("accepted cart prices differently from the drift draft (-drift +accepted):\n%s", diff)
		}
	})

	t.Run("使えないクーポンは割引ゼロで理由を返す", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, builder.NewProductBuilder().WithStock(5))
		cp := f.coupon(builder.NewCouponBuilder().WithLimit(1, 1))
		u := f.user(t, builder.NewUserBuilder().WithLine(p.ID(), 1).WithCoupon(cp.ID()))

		draft, err := f.checkout.CheckOrder(ctx, u.ID())
		require.NoError(t, err)

		assert.Equal(t, order.CouponIssueLimitReached, draft.CouponIssue)
		requireDecimal(t, "0", draft.Cost.Coupon)
	})

	t.Run("削除されたクーポンはnot_found", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, builder.NewProductBuilder().WithStock(5))
		u := f.user(t, builder.NewUserBuilder().WithLine(p.ID(), 1).WithCoupon(uuid.New()))

		draft, err := f.checkout.CheckOrder(ctx, u.ID())
		require.NoError(t, err)
		assert.Equal(t, order.CouponIssueNotFound, draft.CouponIssue)
	})

	t.Run("在庫不足はドリフトとして補正済みドラフトを返す", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, builder.NewProductBuilder().WithStock(2))
		u := f.user(t, builder.NewUserBuilder().WithLine(p.ID(), 3))

		_, err := f.checkout.CheckOrder(ctx, u.ID())

		requireMarked(t, err, errs.ErrCartDrift)
		var drift *commands.DriftError
		require.True(t, errs.As(err, &drift))
		assert.True(t, drift.Draft.Altered)
		assert.Equal(t, 2, drift.Draft.Lines[0].Quantity)
		requireDecimal(t, "200", drift.Draft.Cost.Total)
	})

	t.Run("空のカートはEmptyCart", func(t *testing.T) {
		f := newFixture(t)
		u := f.user(t, builder.NewUserBuilder())

		_, err := f.checkout.CheckOrder(ctx, u.ID())
		requireMarked(t, err, errs.ErrEmptyCart)
	})

	t.Run("存在しないユーザーはUserNotFound", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.checkout.CheckOrder(ctx, uuid.New())
		requireMarked(t, err, errs.ErrUserNotFound)
	})
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("注文作成で全ての効果を一度に反映する", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, builder.NewProductBuilder().WithName("A").WithPrices("60", "100").WithStock(5))
		u := f.user(t, builder.NewUserBuilder().WithDistance("10").WithLine(p.ID(), 3))

		result, err := f.checkout.CreateOrder(ctx, u.ID(), "")
		require.NoError(t, err)
		require.False(t, result.IsReplayed)

		o := result.Order
		assert.Equal(t, order.StatePending, o.State())
		assert.Equal(t, u.ID(), o.UserID())
		assert.Equal(t, fixedNow, o.CreatedAt())
		wantItems := []order.Item{{ProductID: p.ID(), Name: "A", Quantity: 3, UnitPrice: d("100")}}
		if diff := cmp.Diff(wantItems, o.Items()); diff != "" {
			t.Errorf("items mismatch (-want +got):\n%s", diff)
		}
		requireDecimal(t, "350", o.Cost().Final())
		requireDecimal(t, "120", o.Cost().Profit)

		after := f.loadUser(t, u.ID())
		assert.True(t, after.Cart().IsEmpty())
		assert.Equal(t, 1, after.Orders())
		requireDecimal(t, "300", after.Spent())

		stock := f.loadProduct(t, p.ID())
		assert.Equal(t, 2, stock.Amount())
		assert.Equal(t, 1, stock.Orders())

		require.Len(t, f.orders(t), 1)
		jobs := f.dueJobs(t)
		require.Len(t, jobs, 1)
		assert.Equal(t, commands.TopicOrderCreated, jobs[0].Topic)
		assert.Contains(t, string(jobs[0].Payload), o.ID().String())
	})

	t.Run("コミット直前の在庫減少はドリフトで何も作らない", func(t *testing.T) {
		f := newFixture(t)
		pb := builder.NewProductBuilder().WithStock(5)
		p := f.product(t, pb)
		u := f.user(t, builder.NewUserBuilder().WithLine(p.ID(), 3))

		_, err := f.checkout.CheckOrder(ctx, u.ID())
		require.NoError(t, err)

		f.product(t, pb.WithStock(2))

		result, err := f.checkout.CreateOrder(ctx, u.ID(), "")
		require.Nil(t, result)
		var drift *commands.DriftError
		require.True(t, errs.As(err, &drift))
		assert.True(t, drift.Draft.Altered)
		wantAdj := []cart.Adjustment{{ProductID: p.ID(), Kind: cart.AdjustmentClamped, Requested: 3, Granted: 2}}
		if diff := cmp.Diff(wantAdj, drift.Draft.Adjustments); diff != "" {
			t.Errorf("adjustments mismatch (-want +got):\n%s", diff)
		}

		assert.Empty(t, f.orders(t))
		assert.Empty(t, f.dueJobs(t))
		assert.Equal(t, 2, f.loadProduct(t, p.ID()).Amount())
		assert.Equal(t, 3, f.loadUser(t, u.ID()).Cart().Lines()[0].Quantity)
	})

	t.Run("上限1のクーポンは1回だけ使える", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, builder.NewProductBuilder().WithPrices("60", "100").WithStock(10))
		cp := f.coupon(builder.NewCouponBuilder().WithCode("SAVE10").WithValue("10").WithLimit(1, 0))
		first := f.user(t, builder.NewUserBuilder().WithLine(p.ID(), 3).WithCoupon(cp.ID()))
		second := f.user(t, builder.NewUserBuilder().WithLine(p.ID(), 3).WithCoupon(cp.ID()))

		result, err := f.checkout.CreateOrder(ctx, first.ID(), "")
		require.NoError(t, err)
		requireDecimal(t, "30", result.Order.Cost().Coupon)
		require.NotNil(t, result.Order.CouponID())
		assert.Equal(t, 1, f.loadCoupon(t, cp.ID()).Used())

		_, err = f.checkout.CreateOrder(ctx, second.ID(), "")
		requireMarked(t, err, errs.ErrCouponRejected)
		var rejected *coupon.RejectedError
		require.True(t, errs.As(err, &rejected))
		assert.Equal(t, coupon.ReasonLimitReached, rejected.Reason)
		assert.Equal(t, 1, f.loadCoupon(t, cp.ID()).Used())
		assert.Len(t, f.orders(t), 1)
	})

	t.Run("ウォレットは残高と支払額の小さい方だけ使う", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, builder.NewProductBuilder().WithPrices("60", "100").WithStock(5))
		cp := f.coupon(builder.NewCouponBuilder().WithValue("10"))
		u := f.user(t, builder.NewUserBuilder().
			WithDistance("10").
			WithWallet("40").
			WithLine(p.ID(), 3).
			WithCoupon(cp.ID()).
			UsingWallet())

		result, err := f.checkout.CreateOrder(ctx, u.ID(), "")
		require.NoError(t, err)

		cost := result.Order.Cost()
		requireDecimal(t, "30", cost.Coupon)
		requireDecimal(t, "40", cost.Wallet)
		requireDecimal(t, "280", cost.Final())

		after := f.loadUser(t, u.ID())
		requireDecimal(t, "0", after.Wallet())
		requireDecimal(t, "230", after.Spent())
	})

	t.Run("空のカートは何も変更しない", func(t *testing.T) {
		f := newFixture(t)
		u := f.user(t, builder.NewUserBuilder().WithWallet("40"))

		_, err := f.checkout.CreateOrder(ctx, u.ID(), "")
		requireMarked(t, err, errs.ErrEmptyCart)

		assert.Empty(t, f.orders(t))
		assert.Empty(t, f.dueJobs(t))
		requireDecimal(t, "40", f.loadUser(t, u.ID()).Wallet())
	})

	t.Run("無効なクーポンが付いたままなら拒否", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, builder.NewProductBuilder().WithStock(5))
		cp := f.coupon(builder.NewCouponBuilder().AsInactive())
		u := f.user(t, builder.NewUserBuilder().WithLine(p.ID(), 1).WithCoupon(cp.ID()))

		_, err := f.checkout.CreateOrder(ctx, u.ID(), "")
		requireMarked(t, err, errs.ErrCouponRejected)
		assert.Empty(t, f.orders(t))
	})

	t.Run("削除されたクーポンが付いたままならCouponNotFound", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, builder.NewProductBuilder().WithStock(5))
		u := f.user(t, builder.NewUserBuilder().WithLine(p.ID(), 1).WithCoupon(uuid.New()))

		_, err := f.checkout.CreateOrder(ctx, u.ID(), "")
		requireMarked(t, err, errs.ErrCouponNotFound)
	})
}

func TestCreateOrder_Idempotency(t *testing.T) {
	ctx := context.Background()

	t.Run("同じキーの再送は同じ注文を返す", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, builder.NewProductBuilder().WithStock(5))
		u := f.user(t, builder.NewUserBuilder().WithLine(p.ID(), 1))
		key := uuid.NewString()

		first, err := f.checkout.CreateOrder(ctx, u.ID(), key)
		require.NoError(t, err)
		require.False(t, first.IsReplayed)

		second, err := f.checkout.CreateOrder(ctx, u.ID(), key)
		require.NoError(t, err)
		assert.True(t, second.IsReplayed)
		assert.Equal(t, first.Order.ID(), second.Order.ID())
		assert.Len(t, f.orders(t), 1)
	})

	t.Run("処理中のキーはInProgress", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, builder.NewProductBuilder().WithStock(5))
		u := f.user(t, builder.NewUserBuilder().WithLine(p.ID(), 1))
		key := uuid.NewString()

		locked, err := f.idem.TryLock(ctx, u.ID().String(), key)
		require.NoError(t, err)
		require.True(t, locked)

		_, err = f.checkout.CreateOrder(ctx, u.ID(), key)
		requireMarked(t, err, errs.ErrIdempotencyInProgress)
		assert.Empty(t, f.orders(t))
	})

	t.Run("失敗したキーは解放され再試行できる", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, builder.NewProductBuilder().WithStock(5))
		u := f.user(t, builder.NewUserBuilder())
		key := uuid.NewString()

		_, err := f.checkout.CreateOrder(ctx, u.ID(), key)
		requireMarked(t, err, errs.ErrEmptyCart)

		_, err = f.cart.AddProduct(ctx, u.ID(), p.ID())
		require.NoError(t, err)

		result, err := f.checkout.CreateOrder(ctx, u.ID(), key)
		require.NoError(t, err)
		assert.False(t, result.IsReplayed)
	})

	t.Run("キーはユーザーごとに独立", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, builder.NewProductBuilder().WithStock(5))
		a := f.user(t, builder.NewUserBuilder().WithLine(p.ID(), 1))
		b := f.user(t, builder.NewUserBuilder().WithLine(p.ID(), 1))
		key := uuid.NewString()

		ra, err := f.checkout.CreateOrder(ctx, a.ID(), key)
		require.NoError(t, err)
		rb, err := f.checkout.CreateOrder(ctx, b.ID(), key)
		require.NoError(t, err)

		assert.False(t, rb.IsReplayed)
		assert.NotEqual(t, ra.Order.ID(), rb.Order.ID())
	})
}

func TestCreateOrder_Concurrency(t *testing.T) {
	ctx := context.Background()
	const buyers = 8

	t.Run("上限1のクーポンを同時に使っても1件だけ成功", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, builder.NewProductBuilder().WithStock(100))
		cp := f.coupon(builder.NewCouponBuilder().WithLimit(1, 0))
		userIDs := make([]uuid.UUID, buyers)
		for i := range userIDs {
			userIDs[i] = f.user(t, builder.NewUserBuilder().WithLine(p.ID(), 1).WithCoupon(cp.ID())).ID()
		}

		var succeeded, rejected atomic.Int32
		var wg sync.WaitGroup
		for _, id := range userIDs {
			wg.Add(1)
			go func(id uuid.UUID) {
				defer wg.Done()
				_, err := f.checkout.CreateOrder(ctx, id, "")
				switch {
				case err == nil:
					succeeded.Add(1)
				case errs.Is(err, errs.ErrCouponRejected):
					rejected.Add(1)
				}
			}(id)
		}
		wg.Wait()

		assert.Equal(t, int32(1), succeeded.Load())
		assert.Equal(t, int32(buyers-1), rejected.Load())
		assert.Equal(t, 1, f.loadCoupon(t, cp.ID()).Used())
	})

	t.Run("在庫1の商品を同時に買っても在庫はマイナスにならない", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, builder.NewProductBuilder().WithStock(1))
		userIDs := make([]uuid.UUID, buyers)
		for i := range userIDs {
			userIDs[i] = f.user(t, builder.NewUserBuilder().WithLine(p.ID(), 1)).ID()
		}

		var succeeded, drifted atomic.Int32
		var wg sync.WaitGroup
		for _, id := range userIDs {
			wg.Add(1)
			go func(id uuid.UUID) {
				defer wg.Done()
				_, err := f.checkout.CreateOrder(ctx, id, "")
				switch {
				case err == nil:
					succeeded.Add(1)
				case errs.Is(err, errs.ErrCartDrift):
					drifted.Add(1)
				}
			}(id)
		}
		wg.Wait()

		assert.Equal(t, int32(1), succeeded.Load())
		assert.Equal(t, int32(buyers-1), drifted.Load())
		assert.Equal(t, 0, f.loadProduct(t, p.ID()).Amount())
	})

	t.Run("同じユーザーの同時注文は1件だけ", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, builder.NewProductBuilder().WithStock(100))
		u := f.user(t, builder.NewUserBuilder().WithWallet("100").WithLine(p.ID(), 1).UsingWallet())

		var succeeded atomic.Int32
		var wg sync.WaitGroup
		for range buyers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := f.checkout.CreateOrder(ctx, u.ID(), ""); err == nil {
					succeeded.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), succeeded.Load())
		after := f.loadUser(t, u.ID())
		assert.Equal(t, 1, after.Orders())
		requireDecimal(t, "0", after.Wallet())
	})
}

// racingStore loses the first stock decrement to a competing buyer. After the
// losing transaction rolls back, the product is replaced by restock when set.
type racingStore struct {
	*memstore.Store
	restock *product.Product
	raced   bool
}

func (s *racingStore) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	err := s.Store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return fn(ctx, racingTx{Tx: tx, store: s})
	})
	if s.raced && s.restock != nil {
		s.Store.SeedProduct(s.restock)
		s.restock = nil
	}
	return err
}

type racingTx struct {
	shared.Tx
	store *racingStore
}

func (tx racingTx) Products() shared.ProductRepository {
	return racingProducts{ProductRepository: tx.Tx.Products(), store: tx.store}
}

type racingProducts struct {
	shared.ProductRepository
	store *racingStore
}

func (p racingProducts) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	if !p.store.raced {
		p.store.raced = true
		return infra.WrapRepoErr("insufficient stock", nil, infra.KindConflict)
	}
	return p.ProductRepository.DecrementStock(ctx, id, qty)
}

func TestCreateOrder_StockConflict(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, *racingStore, *product.Product, *coupon.Coupon, uuid.UUID) {
		t.Helper()
		f := newFixture(t)
		racing := &racingStore{Store: f.store}
		f.checkout = commands.NewCheckoutCommands(racing, f.idem, order.NewDeliveryEstimator(decimal.NewFromInt(5)), f.clock)

		b := builder.NewProductBuilder().WithStock(5)
		p := f.product(t, b)
		cp := f.coupon(builder.NewCouponBuilder().WithLimit(1, 0))
		u := f.user(t, builder.NewUserBuilder().WithWallet("40").WithLine(p.ID(), 3).WithCoupon(cp.ID()).UsingWallet())
		return f, racing, p, cp, u.ID()
	}

	t.Run("減算競合で在庫が減っていればドリフトとして補正済みドラフトを返す", func(t *testing.T) {
		f, racing, p, cp, userID := setup(t)
		sold, err := builder.NewProductBuilder().With(func(b *builder.ProductBuilder) { b.ID = p.ID() }).WithStock(1).BuildDomain()
		require.NoError(t, err)
		racing.restock = sold

		_, err = f.checkout.CreateOrder(ctx, userID, "")

		var drift *commands.DriftError
		require.True(t, errs.As(err, &drift), "got %v", err)
		require.Len(t, drift.Draft.Lines, 1)
		assert.Equal(t, 1, drift.Draft.Lines[0].Quantity)
		assert.Equal(t, 1, f.loadProduct(t, p.ID()).Amount())
		assert.Equal(t, 0, f.loadCoupon(t, cp.ID()).Used())
		requireDecimal(t, "40", f.loadUser(t, userID).Wallet())
		assert.Empty(t, f.orders(t))
		assert.Empty(t, f.dueJobs(t))
	})

	t.Run("在庫に変化がなければストレージ障害", func(t *testing.T) {
		f, _, p, _, userID := setup(t)

		_, err := f.checkout.CreateOrder(ctx, userID, "")

		requireMarked(t, err, errs.ErrDatabaseOperationFailed)
		var drift *commands.DriftError
		assert.False(t, errs.As(err, &drift))
		assert.Equal(t, 5, f.loadProduct(t, p.ID()).Amount())
		assert.Empty(t, f.orders(t))
	})
}
