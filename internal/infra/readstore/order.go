package readstore

import (
	"context"
	"strconv"
	"strings"
	"time"

	"shop-checkout/internal/infra"
	"shop-checkout/internal/infra/db"
	"shop-checkout/internal/pkg/pgconv"
	"shop-checkout/internal/usecase/queries"
	"shop-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderViewColumns = `
	o.id, o.user_id, o.total, o.profit, o.delivery, o.wallet, o.coupon,
	o.coupon_id, o.state, o.delivery_id, o.created_at, o.updated_at`

// Sort fields map to fixed column expressions; user input never reaches the SQL text.
var orderSortColumns = map[shared.OrderSortField]string{
	shared.SortByTimestamp: "o.created_at",
	shared.SortByState:     "o.state",
	shared.SortByTotal:     "(o.total + o.delivery - o.wallet - o.coupon)",
}

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(dbtx db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: dbtx}
}

func (s *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	row := s.db.QueryRow(ctx, `SELECT `+orderViewColumns+` FROM orders o WHERE o.id = $1`, id)
	view, err := scanOrderView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order by ID", err)
	}

	if err := s.attachItems(ctx, []*queries.OrderView{view}); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *OrderReadStore) List(ctx context.Context, filter shared.OrderFilter) ([]*queries.OrderView, error) {
	query, args := buildOrderListQuery(filter)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	defer rows.Close()

	views := []*queries.OrderView{}
	for rows.Next() {
		view, err := scanOrderView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan order row", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	rows.Close()

	if err := s.attachItems(ctx, views); err != nil {
		return nil, err
	}
	return views, nil
}

func buildOrderListQuery(filter shared.OrderFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.UserID != nil {
		where = append(where, "o.user_id = "+arg(*filter.UserID))
	}
	if filter.DeliveryID != nil {
		where = append(where, "o.delivery_id = "+arg(*filter.DeliveryID))
	}
	if len(filter.States) > 0 {
		states := make([]string, len(filter.States))
		for i, st := range filter.States {
			states[i] = st.String()
		}
		where = append(where, "o.state = ANY("+arg(states)+")")
	}
	if filter.TimeMin != nil {
		where = append(where, "o.created_at >= "+arg(*filter.TimeMin))
	}
	if filter.TimeMax != nil {
		where = append(where, "o.created_at <= "+arg(*filter.TimeMax))
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(orderViewColumns)
	b.WriteString(" FROM orders o")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}

	b.WriteString(" ORDER BY ")
	sorts := filter.Sort
	if len(sorts) == 0 {
		sorts = []shared.OrderSort{{Field: shared.SortByTimestamp, Desc: true}}
	}
	for _, srt := range sorts {
		col, ok := orderSortColumns[srt.Field]
		if !ok {
			continue
		}
		b.WriteString(col)
		if srt.Desc {
			b.WriteString(" DESC, ")
		} else {
			b.WriteString(" ASC, ")
		}
	}
	// id tiebreaker keeps pages stable
	b.WriteString("o.id ASC")

	if filter.Limit > 0 {
		b.WriteString(" LIMIT " + arg(filter.Limit))
	}
	if filter.Offset > 0 {
		b.WriteString(" OFFSET " + arg(filter.Offset))
	}
	return b.String(), args
}

func (s *OrderReadStore) attachItems(ctx context.Context, views []*queries.OrderView) error {
	if len(views) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(views))
	byID := make(map[uuid.UUID]*queries.OrderView, len(views))
	for i, v := range views {
		ids[i] = v.ID
		byID[v.ID] = v
		v.Items = []queries.OrderItemView{}
	}

	rows, err := s.db.Query(ctx, `
		SELECT order_id, product_id, name, quantity, unit_price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position`, ids)
	if err != nil {
		return infra.WrapRepoErr("failed to load order items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID uuid.UUID
			item    queries.OrderItemView
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return infra.WrapRepoErr("failed to scan order item", err)
		}
		if v, ok := byID[orderID]; ok {
			v.Items = append(v.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return infra.WrapRepoErr("failed to load order items", err)
	}
	return nil
}

func scanOrderView(row pgx.Row) (*queries.OrderView, error) {
	var (
		v                    queries.OrderView
		couponID, deliveryID pgtype.UUID
		createdAt, updatedAt time.Time
	)
	err := row.Scan(
		&v.ID, &v.UserID,
		&v.Total, &v.Profit, &v.Delivery, &v.Wallet, &v.Coupon,
		&couponID, &v.State, &deliveryID, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.CouponID = pgconv.UUIDPtrFromPgtype(couponID)
	v.DeliveryID = pgconv.UUIDPtrFromPgtype(deliveryID)
	v.CreatedAt = createdAt.UTC()
	v.UpdatedAt = updatedAt.UTC()
	v.FinalCost = v.Total.Add(v.Delivery).Sub(v.Wallet).Sub(v.Coupon)
	return &v, nil
}
