package repository

import (
	"context"
	"time"

	"shop-checkout/internal/domain/order"
	"shop-checkout/internal/infra"
	"shop-checkout/internal/infra/db"
	"shop-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	insertOrderSQL = `
		INSERT INTO orders (id, user_id, total, profit, delivery, wallet, coupon, coupon_id, state, delivery_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	insertOrderItemSQL = `
		INSERT INTO order_items (order_id, position, product_id, name, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6)`

	selectOrderSQL = `
		SELECT id, user_id, total, profit, delivery, wallet, coupon, coupon_id, state, delivery_id, created_at, updated_at
		FROM orders
		WHERE id = $1`

	selectOrderForUpdateSQL = selectOrderSQL + `
		FOR UPDATE`

	selectOrderItemsSQL = `
		SELECT product_id, name, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY position`

	updateOrderStatusSQL = `
		UPDATE orders
		SET state = $2, delivery_id = $3, updated_at = $4
		WHERE id = $1`
)

type OrderRepository struct {
	db db.DBTX
}

func NewOrderRepository(dbtx db.DBTX) *OrderRepository {
	return &OrderRepository{db: dbtx}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	cost := o.Cost()
	_, err := r.db.Exec(ctx, insertOrderSQL,
		o.ID(),
		o.UserID(),
		cost.Total,
		cost.Profit,
		cost.Delivery,
		cost.Wallet,
		cost.Coupon,
		pgconv.UUIDPtrToPgtype(o.CouponID()),
		o.State().String(),
		pgconv.UUIDPtrToPgtype(o.DeliveryID()),
		o.CreatedAt(),
		o.UpdatedAt(),
	)
	if err != nil {
		if pgconv.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr("order references a missing user", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create order", err)
	}

	for i, it := range o.Items() {
		_, err := r.db.Exec(ctx, insertOrderItemSQL, o.ID(), i, it.ProductID, it.Name, it.Quantity, it.UnitPrice)
		if err != nil {
			return infra.WrapRepoErr("failed to create order item", err)
		}
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.find(ctx, selectOrderSQL, id)
}

func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.find(ctx, selectOrderForUpdateSQL, id)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	tag, err := r.db.Exec(ctx, updateOrderStatusSQL,
		o.ID(),
		o.State().String(),
		pgconv.UUIDPtrToPgtype(o.DeliveryID()),
		o.UpdatedAt(),
	)
	if err != nil {
		if pgconv.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr("delivery user does not exist", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *OrderRepository) find(ctx context.Context, query string, id uuid.UUID) (*order.Order, error) {
	var (
		oid, userID          uuid.UUID
		cost                 order.Cost
		couponID, deliveryID pgtype.UUID
		state                string
		createdAt, updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&oid, &userID,
		&cost.Total, &cost.Profit, &cost.Delivery, &cost.Wallet, &cost.Coupon,
		&couponID, &state, &deliveryID, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order by ID", err)
	}

	items, err := r.items(ctx, oid)
	if err != nil {
		return nil, err
	}

	return order.Reconstruct(
		oid, userID,
		items,
		cost,
		pgconv.UUIDPtrFromPgtype(couponID),
		order.State(state),
		pgconv.UUIDPtrFromPgtype(deliveryID),
		createdAt.UTC(), updatedAt.UTC(),
	), nil
}

func (r *OrderRepository) items(ctx context.Context, orderID uuid.UUID) ([]order.Item, error) {
	rows, err := r.db.Query(ctx, selectOrderItemsSQL, orderID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order items", err)
	}
	defer rows.Close()

	var items []order.Item
	for rows.Next() {
		var it order.Item
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to load order items", err)
	}
	return items, nil
}
