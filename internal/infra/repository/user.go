package repository

import (
	"context"

	"shop-checkout/internal/domain/cart"
	"shop-checkout/internal/domain/user"
	"shop-checkout/internal/infra"
	"shop-checkout/internal/infra/db"
	"shop-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const (
	selectUserSQL = `
		SELECT id, name, role, wallet, distance_km, orders, spent, cart_coupon_id, cart_use_wallet
		FROM users
		WHERE id = $1`

	selectUserForUpdateSQL = selectUserSQL + `
		FOR UPDATE`

	selectCartItemsSQL = `
		SELECT product_id, quantity
		FROM cart_items
		WHERE user_id = $1
		ORDER BY position`

	deleteCartItemsSQL = `DELETE FROM cart_items WHERE user_id = $1`

	insertCartItemSQL = `
		INSERT INTO cart_items (user_id, product_id, quantity, position)
		VALUES ($1, $2, $3, $4)`

	updateCartHeaderSQL = `
		UPDATE users
		SET cart_coupon_id = $2, cart_use_wallet = $3, updated_at = now()
		WHERE id = $1`

	// The wallet floor keeps the debit safe even without the row lock.
	applyCheckoutSQL = `
		UPDATE users
		SET wallet = wallet - $2,
		    spent = spent + $3,
		    orders = orders + 1,
		    cart_coupon_id = NULL,
		    cart_use_wallet = FALSE,
		    updated_at = now()
		WHERE id = $1 AND wallet >= $2`
)

type UserRepository struct {
	db db.DBTX
}

func NewUserRepository(dbtx db.DBTX) *UserRepository {
	return &UserRepository{db: dbtx}
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.find(ctx, selectUserSQL, id)
}

func (r *UserRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.find(ctx, selectUserForUpdateSQL, id)
}

func (r *UserRepository) find(ctx context.Context, query string, id uuid.UUID) (*user.User, error) {
	var (
		uid        uuid.UUID
		name, role string
		wallet     decimal.Decimal
		distance   decimal.Decimal
		orders     int
		spent      decimal.Decimal
		couponID   pgtype.UUID
		useWallet  bool
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&uid, &name, &role, &wallet, &distance, &orders, &spent, &couponID, &useWallet)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}

	lines, err := r.cartLines(ctx, uid)
	if err != nil {
		return nil, err
	}
	c, err := cart.New(lines, pgconv.UUIDPtrFromPgtype(couponID), useWallet)
	if err != nil {
		return nil, infra.WrapRepoErr("stored cart is inconsistent", err)
	}

	return user.Reconstruct(uid, name, user.Role(role), wallet, user.Location{DistanceKm: distance}, orders, spent, c), nil
}

func (r *UserRepository) cartLines(ctx context.Context, userID uuid.UUID) ([]cart.Line, error) {
	rows, err := r.db.Query(ctx, selectCartItemsSQL, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load cart items", err)
	}
	defer rows.Close()

	var lines []cart.Line
	for rows.Next() {
		var l cart.Line
		if err := rows.Scan(&l.ProductID, &l.Quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan cart item", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to load cart items", err)
	}
	return lines, nil
}

// SaveCart replaces the stored cart. Callers hold the user row lock.
func (r *UserRepository) SaveCart(ctx context.Context, userID uuid.UUID, c *cart.Cart) error {
	tag, err := r.db.Exec(ctx, updateCartHeaderSQL, userID, pgconv.UUIDPtrToPgtype(c.CouponID()), c.UseWallet())
	if err != nil {
		return infra.WrapRepoErr("failed to save cart", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}

	if _, err := r.db.Exec(ctx, deleteCartItemsSQL, userID); err != nil {
		return infra.WrapRepoErr("failed to clear cart items", err)
	}
	for i, l := range c.Lines() {
		if _, err := r.db.Exec(ctx, insertCartItemSQL, userID, l.ProductID, l.Quantity, i); err != nil {
			return infra.WrapRepoErr("failed to insert cart item", err)
		}
	}
	return nil
}

func (r *UserRepository) ApplyCheckout(ctx context.Context, userID uuid.UUID, walletUsed, spent decimal.Decimal) error {
	tag, err := r.db.Exec(ctx, applyCheckoutSQL, userID, walletUsed, spent)
	if err != nil {
		return infra.WrapRepoErr("failed to apply checkout to user", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("wallet balance too low", nil, infra.KindConflict)
	}
	if _, err := r.db.Exec(ctx, deleteCartItemsSQL, userID); err != nil {
		return infra.WrapRepoErr("failed to clear cart items", err)
	}
	return nil
}
