package repository

import (
	"context"
	"slices"

	"shop-checkout/internal/domain/product"
	"shop-checkout/internal/infra"
	"shop-checkout/internal/infra/db"
	"shop-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	selectProductSQL = `
		SELECT id, name, price_org, price_net, discount, amount, orders
		FROM products
		WHERE id = $1`

	listProductsSQL = `
		SELECT id, name, price_org, price_net, discount, amount, orders
		FROM products
		ORDER BY name, id`

	lockProductsSQL = `
		SELECT id
		FROM products
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`

	decrementStockSQL = `
		UPDATE products
		SET amount = amount - $2, orders = orders + 1, updated_at = now()
		WHERE id = $1 AND amount >= $2`
)

type ProductRepository struct {
	db db.DBTX
}

func NewProductRepository(dbtx db.DBTX) *ProductRepository {
	return &ProductRepository{db: dbtx}
}

// scanProduct reads one product from a QueryRow result or the current Rows row.
func scanProduct(row pgx.Row) (*product.Product, error) {
	var (
		pid      uuid.UUID
		name     string
		org, net decimal.Decimal
		discount decimal.NullDecimal
		amount   int
		orders   int
	)
	if err := row.Scan(&pid, &name, &org, &net, &discount, &amount, &orders); err != nil {
		return nil, err
	}

	price := product.Price{Org: org, Net: net}
	if discount.Valid {
		d := discount.Decimal
		price.Discount = &d
	}
	return product.Reconstruct(pid, name, price, amount, orders), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, selectProductSQL, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product by ID", err)
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*product.Product, error) {
	rows, err := r.db.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list products", err)
	}
	defer rows.Close()

	products := make([]*product.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list products", err)
	}
	return products, nil
}

// LockByIDs sorts ids before locking; Postgres takes the row locks in the
// order the rows are returned.
func (r *ProductRepository) LockByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})

	rows, err := r.db.Query(ctx, lockProductsSQL, sorted)
	if err != nil {
		return infra.WrapRepoErr("failed to lock products", err)
	}
	defer rows.Close()
	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return infra.WrapRepoErr("failed to lock products", err)
	}
	return nil
}

func (r *ProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	tag, err := r.db.Exec(ctx, decrementStockSQL, id, qty)
	if err != nil {
		if pgconv.IsCheckViolation(err) {
			return infra.WrapRepoErr("stock would go negative", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to decrement stock", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("insufficient stock", nil, infra.KindConflict)
	}
	return nil
}
