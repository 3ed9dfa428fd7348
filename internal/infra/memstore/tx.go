package memstore

import (
	"context"
	"sort"
	"time"

	"shop-checkout/internal/domain/cart"
	"shop-checkout/internal/domain/coupon"
	"shop-checkout/internal/domain/order"
	"shop-checkout/internal/domain/product"
	"shop-checkout/internal/domain/user"
	"shop-checkout/internal/infra"
	"shop-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type memTx struct {
	store *Store  // set for Direct access
	data  *tables // set inside a transaction
}

func (t *memTx) run(fn func(d *tables) error) error {
	if t.store != nil {
		t.store.mu.Lock()
		defer t.store.mu.Unlock()
		return fn(t.store.data)
	}
	return fn(t.data)
}

func (t *memTx) Products() shared.ProductRepository           { return productRepo{t} }
func (t *memTx) Coupons() shared.CouponRepository             { return couponRepo{t} }
func (t *memTx) Users() shared.UserRepository                 { return userRepo{t} }
func (t *memTx) Orders() shared.OrderRepository               { return orderRepo{t} }
func (t *memTx) Notifications() shared.NotificationRepository { return notificationRepo{t} }

type productRepo struct{ tx *memTx }

func (r productRepo) FindByID(_ context.Context, id uuid.UUID) (*product.Product, error) {
	var p *product.Product
	err := r.tx.run(func(d *tables) error {
		row, ok := d.products[id]
		if !ok {
			return infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
		}
		p = product.Reconstruct(row.ID, row.Name, row.Price, row.Amount, row.Orders)
		return nil
	})
	return p, err
}

func (r productRepo) List(context.Context) ([]*product.Product, error) {
	var products []*product.Product
	err := r.tx.run(func(d *tables) error {
		products = make([]*product.Product, 0, len(d.products))
		for _, row := range d.products {
			products = append(products, product.Reconstruct(row.ID, row.Name, row.Price, row.Amount, row.Orders))
		}
		return nil
	})
	sort.Slice(products, func(i, j int) bool {
		if products[i].Name() != products[j].Name() {
			return products[i].Name() < products[j].Name()
		}
		return products[i].ID().String() < products[j].ID().String()
	})
	return products, err
}

// LockByIDs is a no-op: transactions already run one at a time.
func (r productRepo) LockByIDs(context.Context, []uuid.UUID) error {
	return nil
}

func (r productRepo) DecrementStock(_ context.Context, id uuid.UUID, qty int) error {
	return r.tx.run(func(d *tables) error {
		row, ok := d.products[id]
		if !ok || row.Amount < qty {
			return infra.WrapRepoErr("insufficient stock", nil, infra.KindConflict)
		}
		row.Amount -= qty
		row.Orders++
		d.products[id] = row
		return nil
	})
}

type couponRepo struct{ tx *memTx }

func couponRowOf(c *coupon.Coupon) couponRow {
	return couponRow{
		ID:       c.ID(),
		Code:     c.Code().String(),
		Value:    c.Value(),
		Limit:    c.Limit(),
		Used:     c.Used(),
		Expire:   c.Expire(),
		IsActive: c.IsActive(),
	}
}

func (row couponRow) entity() *coupon.Coupon {
	return coupon.Reconstruct(row.ID, row.Code, row.Value, row.Limit, row.Used, row.Expire, row.IsActive)
}

func (r couponRepo) FindByID(_ context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	var c *coupon.Coupon
	err := r.tx.run(func(d *tables) error {
		row, ok := d.coupons[id]
		if !ok {
			return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
		}
		c = row.entity()
		return nil
	})
	return c, err
}

func (r couponRepo) FindByCode(_ context.Context, code coupon.Code) (*coupon.Coupon, error) {
	var c *coupon.Coupon
	err := r.tx.run(func(d *tables) error {
		for _, row := range d.coupons {
			if row.Code == code.String() {
				c = row.entity()
				return nil
			}
		}
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	})
	return c, err
}

func (r couponRepo) TryRedeem(_ context.Context, id uuid.UUID, now time.Time) (bool, error) {
	redeemed := false
	err := r.tx.run(func(d *tables) error {
		row, ok := d.coupons[id]
		if !ok {
			return nil
		}
		c := row.entity()
		if c.Redeem(now) != nil {
			return nil
		}
		d.coupons[id] = couponRowOf(c)
		redeemed = true
		return nil
	})
	return redeemed, err
}

func (r couponRepo) Create(_ context.Context, c *coupon.Coupon) error {
	return r.tx.run(func(d *tables) error {
		for _, row := range d.coupons {
			if row.Code == c.Code().String() {
				return infra.WrapRepoErr("coupon code already exists", nil, infra.KindDuplicateKey)
			}
		}
		d.coupons[c.ID()] = couponRowOf(c)
		return nil
	})
}

func (r couponRepo) Update(_ context.Context, c *coupon.Coupon) error {
	return r.tx.run(func(d *tables) error {
		row, ok := d.coupons[c.ID()]
		if !ok {
			return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
		}
		next := couponRowOf(c)
		// usage is owned by TryRedeem
		next.Used = row.Used
		d.coupons[c.ID()] = next
		return nil
	})
}

func (r couponRepo) Delete(_ context.Context, id uuid.UUID) error {
	return r.tx.run(func(d *tables) error {
		if _, ok := d.coupons[id]; !ok {
			return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
		}
		delete(d.coupons, id)
		return nil
	})
}

func (r couponRepo) List(_ context.Context) ([]*coupon.Coupon, error) {
	var result []*coupon.Coupon
	err := r.tx.run(func(d *tables) error {
		for _, row := range d.coupons {
			result = append(result, row.entity())
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool {
		return result[i].Code() < result[j].Code()
	})
	return result, err
}

type userRepo struct{ tx *memTx }

func setCart(row *userRow, c *cart.Cart) {
	row.Lines = c.Lines()
	row.CouponID = c.CouponID()
	row.UseWallet = c.UseWallet()
}

func (r userRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	var u *user.User
	err := r.tx.run(func(d *tables) error {
		row, ok := d.users[id]
		if !ok {
			return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
		}
		c, err := cart.New(row.Lines, row.CouponID, row.UseWallet)
		if err != nil {
			return infra.WrapRepoErr("stored cart is inconsistent", err)
		}
		u = user.Reconstruct(row.ID, row.Name, row.Role, row.Wallet, user.Location{DistanceKm: row.Distance}, row.Orders, row.Spent, c)
		return nil
	})
	return u, err
}

func (r userRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.FindByID(ctx, id)
}

func (r userRepo) SaveCart(_ context.Context, userID uuid.UUID, c *cart.Cart) error {
	return r.tx.run(func(d *tables) error {
		row, ok := d.users[userID]
		if !ok {
			return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
		}
		setCart(&row, c)
		d.users[userID] = row
		return nil
	})
}

func (r userRepo) ApplyCheckout(_ context.Context, userID uuid.UUID, walletUsed, spent decimal.Decimal) error {
	return r.tx.run(func(d *tables) error {
		row, ok := d.users[userID]
		if !ok {
			return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
		}
		if row.Wallet.LessThan(walletUsed) {
			return infra.WrapRepoErr("wallet balance too low", nil, infra.KindConflict)
		}
		row.Wallet = row.Wallet.Sub(walletUsed)
		row.Spent = row.Spent.Add(spent)
		row.Orders++
		setCart(&row, cart.Empty())
		d.users[userID] = row
		return nil
	})
}

type orderRepo struct{ tx *memTx }

func orderRowOf(o *order.Order) orderRow {
	return orderRow{
		ID:         o.ID(),
		UserID:     o.UserID(),
		Items:      o.Items(),
		Cost:       o.Cost(),
		CouponID:   o.CouponID(),
		State:      o.State(),
		DeliveryID: o.DeliveryID(),
		CreatedAt:  o.CreatedAt(),
		UpdatedAt:  o.UpdatedAt(),
	}
}

func (row orderRow) entity() *order.Order {
	items := append([]order.Item(nil), row.Items...)
	return order.Reconstruct(row.ID, row.UserID, items, row.Cost, row.CouponID, row.State, row.DeliveryID, row.CreatedAt, row.UpdatedAt)
}

func (r orderRepo) Create(_ context.Context, o *order.Order) error {
	return r.tx.run(func(d *tables) error {
		if _, ok := d.users[o.UserID()]; !ok {
			return infra.WrapRepoErr("order references a missing user", nil, infra.KindForeignKeyViolated)
		}
		if _, ok := d.orders[o.ID()]; ok {
			return infra.WrapRepoErr("order already exists", nil, infra.KindDuplicateKey)
		}
		d.orders[o.ID()] = orderRowOf(o)
		return nil
	})
}

func (r orderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	var o *order.Order
	err := r.tx.run(func(d *tables) error {
		row, ok := d.orders[id]
		if !ok {
			return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
		}
		o = row.entity()
		return nil
	})
	return o, err
}

func (r orderRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.FindByID(ctx, id)
}

func (r orderRepo) UpdateStatus(_ context.Context, o *order.Order) error {
	return r.tx.run(func(d *tables) error {
		row, ok := d.orders[o.ID()]
		if !ok {
			return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
		}
		if id := o.DeliveryID(); id != nil {
			if _, ok := d.users[*id]; !ok {
				return infra.WrapRepoErr("delivery user does not exist", nil, infra.KindForeignKeyViolated)
			}
		}
		row.State = o.State()
		row.DeliveryID = o.DeliveryID()
		row.UpdatedAt = o.UpdatedAt()
		d.orders[o.ID()] = row
		return nil
	})
}

type notificationRepo struct{ tx *memTx }

func (r notificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	return r.tx.run(func(d *tables) error {
		id := uuid.New()
		d.jobs[id] = jobRow{
			ID:      id,
			Kind:    kind,
			Topic:   topic,
			Payload: append([]byte(nil), payload...),
			RunAt:   runAt,
			Status:  jobStatusQueued,
		}
		return nil
	})
}

func (r notificationRepo) ClaimDue(_ context.Context, now, leaseUntil time.Time, limit int) ([]shared.NotificationJob, error) {
	var jobs []shared.NotificationJob
	err := r.tx.run(func(d *tables) error {
		due := make([]jobRow, 0)
		for _, row := range d.jobs {
			claimable := row.Status == jobStatusQueued || row.Status == jobStatusProcessing
			if claimable && !row.RunAt.After(now) {
				due = append(due, row)
			}
		}
		sort.Slice(due, func(i, j int) bool { return due[i].RunAt.Before(due[j].RunAt) })
		if limit > 0 && len(due) > limit {
			due = due[:limit]
		}
		for _, row := range due {
			row.Status = jobStatusProcessing
			row.RunAt = leaseUntil
			row.Attempts++
			d.jobs[row.ID] = row
			jobs = append(jobs, shared.NotificationJob{
				ID:       row.ID,
				Kind:     row.Kind,
				Topic:    row.Topic,
				Payload:  row.Payload,
				Attempts: row.Attempts,
			})
		}
		return nil
	})
	return jobs, err
}

func (r notificationRepo) MarkSent(_ context.Context, id uuid.UUID) error {
	return r.tx.run(func(d *tables) error {
		row, ok := d.jobs[id]
		if !ok {
			return nil
		}
		row.Status = jobStatusSent
		row.LastError = nil
		d.jobs[id] = row
		return nil
	})
}

func (r notificationRepo) MarkFailed(_ context.Context, id uuid.UUID, lastError string, retryAt *time.Time) error {
	return r.tx.run(func(d *tables) error {
		row, ok := d.jobs[id]
		if !ok {
			return nil
		}
		msg := lastError
		row.LastError = &msg
		if retryAt == nil {
			row.Status = jobStatusFailed
		} else {
			row.Status = jobStatusQueued
			row.RunAt = *retryAt
		}
		d.jobs[id] = row
		return nil
	})
}

const (
	jobStatusQueued     = "queued"
	jobStatusProcessing = "processing"
	jobStatusSent       = "sent"
	jobStatusFailed     = "failed"
)
