//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"shop-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func CreateTestUser(t *testing.T, db DBLike, role string, wallet, distanceKm decimal.Decimal) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO users (id, name, role, wallet, distance_km) VALUES ($1, $2, $3, $4, $5)",
		userID, "user-"+userID.String()[:8], role, wallet, distanceKm)
	require.NoError(t, err)

	return userID
}

func CreateTestProduct(t *testing.T, db DBLike, name string, org, net decimal.Decimal, amount int) uuid.UUID {
	t.Helper()

	productID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO products (id, name, price_org, price_net, amount) VALUES ($1, $2, $3, $4, $5)",
		productID, name, org, net, amount)
	require.NoError(t, err)

	return productID
}

// CreateTestCoupon inserts a coupon with the given usage. A nil limit means unlimited.
func CreateTestCoupon(t *testing.T, db DBLike, code string, value decimal.Decimal, limit *int, used int) uuid.UUID {
	t.Helper()

	couponID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO coupons (id, code, value, usage_limit, used, is_active) VALUES ($1, $2, $3, $4, $5, true)",
		couponID, code, value, pgconv.IntPtrToPgtype(limit), used)
	require.NoError(t, err)

	return couponID
}

func AddCartLine(t *testing.T, db DBLike, userID, productID uuid.UUID, qty int) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO cart_items (user_id, product_id, quantity, position)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position), -1) + 1 FROM cart_items WHERE user_id = $1))`,
		userID, productID, qty)
	require.NoError(t, err)
}

func SetProductStock(t *testing.T, db DBLike, productID uuid.UUID, amount int) {
	t.Helper()

	_, err := db.Exec(context.Background(), "UPDATE products SET amount = $2 WHERE id = $1", productID, amount)
	require.NoError(t, err)
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations', 'atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
