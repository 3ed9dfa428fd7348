package shared

import (
	"context"
	"time"

	"shop-checkout/internal/domain/cart"
	"shop-checkout/internal/domain/coupon"
	"shop-checkout/internal/domain/order"
	"shop-checkout/internal/domain/product"
	"shop-checkout/internal/domain/user"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Direct: Single query operations using implicit transactions
	Direct() Tx
}

type Tx interface {
	Products() ProductRepository
	Coupons() CouponRepository
	Users() UserRepository
	Orders() OrderRepository
	Notifications() NotificationRepository
}

// Every repository reports a missing row as infra.KindNotFound.

type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error)
	// List returns the catalogue ordered by name.
	List(ctx context.Context) ([]*product.Product, error)
	// LockByIDs takes row locks in ascending id order so concurrent checkouts
	// sharing products cannot deadlock.
	LockByIDs(ctx context.Context, ids []uuid.UUID) error
	// DecrementStock fails with infra.KindConflict when stock is below qty.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
}

type CouponRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error)
	FindByCode(ctx context.Context, code coupon.Code) (*coupon.Coupon, error)
	// TryRedeem increments usage only while the coupon is active, unexpired and
	// below its limit. It reports false when no row qualified.
	TryRedeem(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	Create(ctx context.Context, c *coupon.Coupon) error
	Update(ctx context.Context, c *coupon.Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*coupon.Coupon, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	// FindByIDForUpdate locks the user row for the rest of the transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*user.User, error)
	SaveCart(ctx context.Context, userID uuid.UUID, c *cart.Cart) error
	// ApplyCheckout debits the wallet, bumps counters and clears the cart in
	// one statement. It fails with infra.KindConflict when the wallet is short.
	ApplyCheckout(ctx context.Context, userID uuid.UUID, walletUsed, spent decimal.Decimal) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error)
	UpdateStatus(ctx context.Context, o *order.Order) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
	// ClaimDue returns due jobs and marks them processing until leaseUntil.
	// A processing job whose lease ran out is due again, so a relay that dies
	// before marking its batch does not strand it. Concurrent relays never
	// claim the same job.
	ClaimDue(ctx context.Context, now, leaseUntil time.Time, limit int) ([]NotificationJob, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string, retryAt *time.Time) error
}

// IdempotencyStore remembers the result of a request by client key. Scope
// isolates keys per user.
type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Unlock(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}
