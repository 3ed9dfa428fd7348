package memstore

import (
	"context"
	"maps"
	"sync"
	"time"

	"shop-checkout/internal/domain/cart"
	"shop-checkout/internal/domain/coupon"
	"shop-checkout/internal/domain/order"
	"shop-checkout/internal/domain/product"
	"shop-checkout/internal/domain/user"
	"shop-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store keeps every table in process memory. Transactions run one at a time
// against a private copy that replaces the live data on success, so the store
// behaves like a serializable database with rollback.
type Store struct {
	mu   sync.Mutex
	data *tables
}

// Rows are plain values. Writers replace pointer and slice fields instead of
// mutating them, which keeps the shallow table copies independent.
type productRow struct {
	ID     uuid.UUID
	Name   string
	Price  product.Price
	Amount int
	Orders int
}

type couponRow struct {
	ID       uuid.UUID
	Code     string
	Value    decimal.Decimal
	Limit    *int
	Used     int
	Expire   *time.Time
	IsActive bool
}

type userRow struct {
	ID        uuid.UUID
	Name      string
	Role      user.Role
	Wallet    decimal.Decimal
	Distance  decimal.Decimal
	Orders    int
	Spent     decimal.Decimal
	Lines     []cart.Line
	CouponID  *uuid.UUID
	UseWallet bool
}

type orderRow struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Items      []order.Item
	Cost       order.Cost
	CouponID   *uuid.UUID
	State      order.State
	DeliveryID *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type jobRow struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	Payload   []byte
	RunAt     time.Time
	Attempts  int
	Status    string
	LastError *string
}

type tables struct {
	products map[uuid.UUID]productRow
	coupons  map[uuid.UUID]couponRow
	users    map[uuid.UUID]userRow
	orders   map[uuid.UUID]orderRow
	jobs     map[uuid.UUID]jobRow
}

func newTables() *tables {
	return &tables{
		products: make(map[uuid.UUID]productRow),
		coupons:  make(map[uuid.UUID]couponRow),
		users:    make(map[uuid.UUID]userRow),
		orders:   make(map[uuid.UUID]orderRow),
		jobs:     make(map[uuid.UUID]jobRow),
	}
}

func (t *tables) clone() *tables {
	return &tables{
		products: maps.Clone(t.products),
		coupons:  maps.Clone(t.coupons),
		users:    maps.Clone(t.users),
		orders:   maps.Clone(t.orders),
		jobs:     maps.Clone(t.jobs),
	}
}

func New() *Store {
	return &Store{data: newTables()}
}

// Within runs fn on a copy of the data and publishes the copy only when fn
// succeeds.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(ctx, &memTx{data: work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

// WithinReadOnly discards anything fn writes.
func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(ctx, &memTx{data: s.data.clone()})
}

// Direct locks the store per repository call.
func (s *Store) Direct() shared.Tx {
	return &memTx{store: s}
}

// SeedProduct, SeedUser and SeedCoupon load fixtures outside any transaction.

func (s *Store) SeedProduct(p *product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.products[p.ID()] = productRow{
		ID:     p.ID(),
		Name:   p.Name(),
		Price:  p.Price(),
		Amount: p.Amount(),
		Orders: p.Orders(),
	}
}

func (s *Store) SeedUser(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := userRow{
		ID:       u.ID(),
		Name:     u.Name().String(),
		Role:     u.Role(),
		Wallet:   u.Wallet(),
		Distance: u.Location().DistanceKm,
		Orders:   u.Orders(),
		Spent:    u.Spent(),
	}
	setCart(&row, u.Cart())
	s.data.users[u.ID()] = row
}

func (s *Store) SeedCoupon(c *coupon.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.coupons[c.ID()] = couponRowOf(c)
}
