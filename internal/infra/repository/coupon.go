package repository

import (
	"context"
	"time"

	"shop-checkout/internal/domain/coupon"
	"shop-checkout/internal/infra"
	"shop-checkout/internal/infra/db"
	"shop-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const couponColumns = `id, code, value, usage_limit, used, expire, is_active`

const (
	selectCouponByIDSQL   = `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`
	selectCouponByCodeSQL = `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`
	listCouponsSQL        = `SELECT ` + couponColumns + ` FROM coupons ORDER BY code`

	// The eligibility predicate mirrors coupon.CheckEligibility so the
	// increment and the check happen in one statement.
	redeemCouponSQL = `
		UPDATE coupons
		SET used = used + 1, updated_at = now()
		WHERE id = $1
		  AND is_active
		  AND (expire IS NULL OR expire > $2)
		  AND (usage_limit IS NULL OR used < usage_limit)`

	insertCouponSQL = `
		INSERT INTO coupons (id, code, value, usage_limit, used, expire, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	updateCouponSQL = `
		UPDATE coupons
		SET value = $2, usage_limit = $3, expire = $4, is_active = $5, updated_at = now()
		WHERE id = $1`

	deleteCouponSQL = `DELETE FROM coupons WHERE id = $1`
)

type CouponRepository struct {
	db db.DBTX
}

func NewCouponRepository(dbtx db.DBTX) *CouponRepository {
	return &CouponRepository{db: dbtx}
}

func (r *CouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	c, err := scanCoupon(r.db.QueryRow(ctx, selectCouponByIDSQL, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by ID", err)
	}
	return c, nil
}

func (r *CouponRepository) FindByCode(ctx context.Context, code coupon.Code) (*coupon.Coupon, error) {
	c, err := scanCoupon(r.db.QueryRow(ctx, selectCouponByCodeSQL, code.String()))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}
	return c, nil
}

func (r *CouponRepository) TryRedeem(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, redeemCouponSQL, id, now)
	if err != nil {
		return false, infra.WrapRepoErr("failed to redeem coupon", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CouponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	_, err := r.db.Exec(ctx, insertCouponSQL,
		c.ID(),
		c.Code().String(),
		c.Value(),
		pgconv.IntPtrToPgtype(c.Limit()),
		c.Used(),
		pgconv.TimePtrToPgtype(c.Expire()),
		c.IsActive(),
	)
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr("coupon code already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create coupon", err)
	}
	return nil
}

func (r *CouponRepository) Update(ctx context.Context, c *coupon.Coupon) error {
	tag, err := r.db.Exec(ctx, updateCouponSQL,
		c.ID(),
		c.Value(),
		pgconv.IntPtrToPgtype(c.Limit()),
		pgconv.TimePtrToPgtype(c.Expire()),
		c.IsActive(),
	)
	if err != nil {
		if pgconv.IsCheckViolation(err) {
			return infra.WrapRepoErr("coupon limit below current usage", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to update coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, deleteCouponSQL, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CouponRepository) List(ctx context.Context) ([]*coupon.Coupon, error) {
	rows, err := r.db.Query(ctx, listCouponsSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}
	defer rows.Close()

	var result []*coupon.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan coupon row", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}
	return result, nil
}

func scanCoupon(row pgx.Row) (*coupon.Coupon, error) {
	var (
		id       uuid.UUID
		code     string
		value    decimal.Decimal
		limit    pgtype.Int4
		used     int
		expire   pgtype.Timestamptz
		isActive bool
	)
	if err := row.Scan(&id, &code, &value, &limit, &used, &expire, &isActive); err != nil {
		return nil, err
	}
	return coupon.Reconstruct(
		id,
		code,
		value,
		pgconv.IntPtrFromPgtype(limit),
		used,
		pgconv.TimePtrFromPgtype(expire),
		isActive,
	), nil
}
