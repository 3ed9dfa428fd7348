//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"shop-checkout/internal/domain/order"
	"shop-checkout/internal/domain/user"
	"shop-checkout/internal/infra"
	"shop-checkout/internal/pkg/errs"
	"shop-checkout/internal/usecase/queries"
	"shop-checkout/internal/usecase/shared"
	queriesmock "shop-checkout/tests/mock/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestOrderQueries_GetByID(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	orderID := uuid.New()
	view := &queries.OrderView{ID: orderID, UserID: ownerID, State: "pending"}

	tests := []struct {
		name    string
		actor   order.Actor
		stored  *queries.OrderView
		repoErr error
		wantErr error
	}{
		{name: "注文者本人は参照できる", actor: order.Actor{ID: ownerID, Role: user.RoleUser}, stored: view},
		{name: "他の顧客はForbidden", actor: order.Actor{ID: uuid.New(), Role: user.RoleUser}, stored: view, wantErr: errs.ErrForbidden},
		{name: "配達員は全件参照できる", actor: order.Actor{ID: uuid.New(), Role: user.RoleDelivery}, stored: view},
		{name: "存在しない注文はOrderNotFound", actor: order.Actor{ID: ownerID, Role: user.RoleAdmin},
			repoErr: infra.WrapRepoErr("order not found", nil, infra.KindNotFound), wantErr: errs.ErrOrderNotFound},
		{name: "DB障害はDatabaseOperationFailed", actor: order.Actor{ID: ownerID, Role: user.RoleAdmin},
			repoErr: errs.New("connection reset"), wantErr: errs.ErrDatabaseOperationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := queriesmock.NewMockOrderReadStore(ctrl)
			store.EXPECT().FindByID(gomock.Any(), orderID).Return(tt.stored, tt.repoErr)

			got, err := queries.NewOrderQueries(store).GetByID(ctx, tt.actor, orderID)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tt.wantErr), "want %v, got %v", tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, orderID, got.ID)
		})
	}
}

func TestOrderQueries_List(t *testing.T) {
	ctx := context.Background()

	t.Run("顧客は他人のIDを指定しても自分の注文に絞られる", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockOrderReadStore(ctrl)
		customer := uuid.New()
		someoneElse := uuid.New()

		store.EXPECT().List(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f shared.OrderFilter) ([]*queries.OrderView, error) {
				require.NotNil(t, f.UserID)
				assert.Equal(t, customer, *f.UserID)
				return []*queries.OrderView{}, nil
			})

		_, err := queries.NewOrderQueries(store).List(ctx,
			order.Actor{ID: customer, Role: user.RoleUser},
			queries.ListOrdersParams{UserID: &someoneElse})
		require.NoError(t, err)
	})

	t.Run("パラメータをフィルタに変換する", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockOrderReadStore(ctrl)
		courier := uuid.New()
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := from.Add(48 * time.Hour)

		want := shared.OrderFilter{
			DeliveryID: &courier,
			States:     []order.State{order.StateAccepted, order.StateDelivered},
			TimeMin:    &from,
			TimeMax:    &to,
			Sort: []shared.OrderSort{
				{Field: shared.SortByTotal},
				{Field: shared.SortByTimestamp, Desc: true},
			},
			Offset: 2 * shared.OrderPageSize,
			Limit:  shared.OrderPageSize + 1,
		}
		store.EXPECT().List(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f shared.OrderFilter) ([]*queries.OrderView, error) {
				if diff := cmp.Diff(want, f); diff != "" {
					t.Errorf("filter mismatch (-want +got):\n%s", diff)
				}
				return nil, nil
			})

		page, err := queries.NewOrderQueries(store).List(ctx,
			order.Actor{ID: uuid.New(), Role: user.RoleManager},
			queries.ListOrdersParams{
				DeliveryID: &courier,
				States:     []string{"accepted", "delivered"},
				TimeMin:    &from,
				TimeMax:    &to,
				SortBy:     "total:asc,timestamp",
				Page:       2,
			})
		require.NoError(t, err)
		assert.Nil(t, page.NextPage)
	})

	t.Run("1件多く取得できれば次ページを返す", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockOrderReadStore(ctrl)
		rows := make([]*queries.OrderView, shared.OrderPageSize+1)
		for i := range rows {
			rows[i] = &queries.OrderView{ID: uuid.New()}
		}
		store.EXPECT().List(gomock.Any(), gomock.Any()).Return(rows, nil)

		page, err := queries.NewOrderQueries(store).List(ctx,
			order.Actor{ID: uuid.New(), Role: user.RoleAdmin},
			queries.ListOrdersParams{Page: 0})
		require.NoError(t, err)

		assert.Len(t, page.Orders, shared.OrderPageSize)
		require.NotNil(t, page.NextPage)
		assert.Equal(t, 1, *page.NextPage)
	})

	invalid := []struct {
		name   string
		params queries.ListOrdersParams
	}{
		{name: "負のページ", params: queries.ListOrdersParams{Page: -1}},
		{name: "未知の状態", params: queries.ListOrdersParams{States: []string{"shipped"}}},
		{name: "未知のソート項目", params: queries.ListOrdersParams{SortBy: "price"}},
		{name: "期間の逆転", params: func() queries.ListOrdersParams {
			lo := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
			hi := lo.Add(-time.Hour)
			return queries.ListOrdersParams{TimeMin: &lo, TimeMax: &hi}
		}()},
	}
	for _, tt := range invalid {
		t.Run(tt.name+"はInvalidQuery", func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := queriesmock.NewMockOrderReadStore(ctrl)

			_, err := queries.NewOrderQueries(store).List(ctx,
				order.Actor{ID: uuid.New(), Role: user.RoleAdmin}, tt.params)
			require.Error(t, err)
			assert.True(t, errs.Is(err, queries.ErrInvalidQuery))
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		raw     string
		want    []shared.OrderSort
		wantErr bool
	}{
		{raw: "", want: nil},
		{raw: "timestamp", want: []shared.OrderSort{{Field: shared.SortByTimestamp, Desc: true}}},
		{raw: " State:ASC , total:desc", want: []shared.OrderSort{
			{Field: shared.SortByState},
			{Field: shared.SortByTotal, Desc: true},
		}},
		{raw: "total:sideways", wantErr: true},
		{raw: "total,total:asc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := queries.ParseSort(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.Is(err, queries.ErrInvalidQuery))
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseSort(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}
