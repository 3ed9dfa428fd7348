//go:build e2e

package checkout_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"shop-checkout/internal/domain/user"
	resdto "shop-checkout/internal/handler/dto/response"
	"shop-checkout/tests/common/authtest"
	"shop-checkout/tests/common/dbtest"
	"shop-checkout/tests/common/httptest"
	"shop-checkout/tests/e2e"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	cartURL     = "/api/cart"
	checkURL    = "/api/cart/checkout"
	ordersURL   = "/api/orders"
	couponURL   = "/api/cart/coupon"
	walletURL   = "/api/cart/wallet"
	reconcileTo = "/api/cart/reconcile"
)

type CheckoutSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func (s *CheckoutSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *CheckoutSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestCheckoutSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CheckoutSuite))
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (s *CheckoutSuite) scalar(query string, args ...any) string {
	var out string
	err := s.DB.QueryRow(context.Background(), query, args...).Scan(&out)
	require.NoError(s.T(), err)
	return out
}

// =============================================================================
// TestCreateOrder - cart to order commit
// =============================================================================

func (s *CheckoutSuite) TestCreateOrder() {
	s.Run("Normal case: every effect of the order commits together", func() {
		t := s.T()

		// 0.2km at the test rate of 250/km is a delivery fee of 50
		userID := dbtest.CreateTestUser(t, s.DB, "user", d("40"), d("0.2"))
		productID := dbtest.CreateTestProduct(t, s.DB, "Tea", d("60"), d("100"), 5)
		limit := 1
		dbtest.CreateTestCoupon(t, s.DB, "SAVE10", d("10"), &limit, 0)
		dbtest.AddCartLine(t, s.DB, userID, productID, 3)
		token := s.jwt.GenerateToken(t, userID, user.RoleUser)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, couponURL, map[string]any{"code": "save10"}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		w = httptest.PerformRequest(t, s.Router, http.MethodPut, walletURL, map[string]any{"wallet": true}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, checkURL, nil, token)
		var draft resdto.DraftResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &draft)
		require.True(t, d("300").Equal(draft.Total), "total %s", draft.Total)
		require.True(t, d("30").Equal(draft.Coupon), "coupon %s", draft.Coupon)
		require.True(t, d("40").Equal(draft.Wallet), "wallet %s", draft.Wallet)
		require.True(t, d("280").Equal(draft.FinalCost), "final %s", draft.FinalCost)

		key := uuid.NewString()
		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, ordersURL, nil, token,
			map[string]string{"Idempotency-Key": key})
		var created resdto.OrderResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
		require.Equal(t, "pending", created.State)
		require.True(t, d("280").Equal(created.FinalCost))

		require.Equal(t, "2", s.scalar("SELECT amount::text FROM products WHERE id = $1", productID))
		require.Equal(t, "1", s.scalar("SELECT used::text FROM coupons WHERE code = 'SAVE10'"))
		require.Equal(t, "0.00", s.scalar("SELECT wallet::text FROM users WHERE id = $1", userID))
		require.Equal(t, "230.00", s.scalar("SELECT spent::text FROM users WHERE id = $1", userID))
		require.Equal(t, "0", s.scalar("SELECT count(*)::text FROM cart_items WHERE user_id = $1", userID))
		require.Equal(t, "1", s.scalar("SELECT count(*)::text FROM notification_jobs WHERE topic = 'order.created'"))

		// retry with the same key replays the order without new effects
		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, ordersURL, nil, token,
			map[string]string{"Idempotency-Key": key})
		var replayed resdto.OrderResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &replayed)
		require.Equal(t, created.ID, replayed.ID)
		require.Equal(t, "1", s.scalar("SELECT count(*)::text FROM orders WHERE user_id = $1", userID))
	})

	s.Run("Error case: drifted cart returns 409 and persists nothing", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "user", d("0"), d("0.2"))
		productID := dbtest.CreateTestProduct(t, s.DB, "Tea", d("60"), d("100"), 5)
		dbtest.AddCartLine(t, s.DB, userID, productID, 3)
		dbtest.SetProductStock(t, s.DB, productID, 1)
		token := s.jwt.GenerateToken(t, userID, user.RoleUser)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, ordersURL, nil, token)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

		var body struct {
			Detail resdto.DraftResponse `json:"detail"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Detail.Adjustments, 1)
		require.Equal(t, "clamped", body.Detail.Adjustments[0].Kind)
		require.Equal(t, 1, body.Detail.Adjustments[0].Granted)

		require.Equal(t, "0", s.scalar("SELECT count(*)::text FROM orders"))
		require.Equal(t, "1", s.scalar("SELECT amount::text FROM products WHERE id = $1", productID))

		// accepting the adjustment makes the cart committable
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reconcileTo, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, ordersURL, nil, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		require.Equal(t, "0", s.scalar("SELECT amount::text FROM products WHERE id = $1", productID))
	})

	s.Run("Error case: empty cart is rejected", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "user", d("0"), d("1"))
		token := s.jwt.GenerateToken(t, userID, user.RoleUser)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, ordersURL, nil, token)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Cart is empty")
	})
}

// =============================================================================
// TestConcurrentCheckout - coupon usage and stock under contention
// =============================================================================

func (s *CheckoutSuite) TestConcurrentCheckout() {
	s.Run("Concurrency: a single-use coupon is redeemed exactly once", func() {
		t := s.T()
		const buyers = 6

		productID := dbtest.CreateTestProduct(t, s.DB, "Tea", d("60"), d("100"), 100)
		limit := 1
		couponID := dbtest.CreateTestCoupon(t, s.DB, "ONCE10", d("10"), &limit, 0)

		tokens := make([]string, buyers)
		for i := range tokens {
			userID := dbtest.CreateTestUser(t, s.DB, "user", d("0"), d("0.2"))
			dbtest.AddCartLine(t, s.DB, userID, productID, 1)
			_, err := s.DB.Exec(context.Background(), "UPDATE users SET cart_coupon_id = $2 WHERE id = $1", userID, couponID)
			require.NoError(t, err)
			tokens[i] = s.jwt.GenerateToken(t, userID, user.RoleUser)
		}

		codes := make([]int, buyers)
		var wg sync.WaitGroup
		for i, token := range tokens {
			wg.Add(1)
			go func(i int, token string) {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, ordersURL, nil, token)
				codes[i] = w.Code
			}(i, token)
		}
		wg.Wait()

		created, rejected := 0, 0
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusBadRequest:
				rejected++
			}
		}
		require.Equal(t, 1, created, "codes: %v", codes)
		require.Equal(t, buyers-1, rejected, "codes: %v", codes)
		require.Equal(t, "1", s.scalar("SELECT used::text FROM coupons WHERE id = $1", couponID))
		require.Equal(t, "1", s.scalar("SELECT count(*)::text FROM orders"))
	})

	s.Run("Concurrency: the last unit of stock is sold once", func() {
		t := s.T()
		const buyers = 6

		productID := dbtest.CreateTestProduct(t, s.DB, "Last one", d("60"), d("100"), 1)
		tokens := make([]string, buyers)
		for i := range tokens {
			userID := dbtest.CreateTestUser(t, s.DB, "user", d("0"), d("0.2"))
			dbtest.AddCartLine(t, s.DB, userID, productID, 1)
			tokens[i] = s.jwt.GenerateToken(t, userID, user.RoleUser)
		}

		codes := make([]int, buyers)
		var wg sync.WaitGroup
		for i, token := range tokens {
			wg.Add(1)
			go func(i int, token string) {
				defer wg.Done()
				codes[i] = httptest.PerformRequest(t, s.Router, http.MethodPost, ordersURL, nil, token).Code
			}(i, token)
		}
		wg.Wait()

		created, drifted := 0, 0
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				drifted++
			}
		}
		require.Equal(t, 1, created, "codes: %v", codes)
		require.Equal(t, buyers-1, drifted, "codes: %v", codes)
		require.Equal(t, "0", s.scalar("SELECT amount::text FROM products WHERE id = $1", productID))
	})
}

// =============================================================================
// TestOrderLifecycle - courier workflow
// =============================================================================

func (s *CheckoutSuite) TestOrderLifecycle() {
	s.Run("Normal case: courier accepts then delivers", func() {
		t := s.T()

		customerID := dbtest.CreateTestUser(t, s.DB, "user", d("0"), d("0.2"))
		courierID := dbtest.CreateTestUser(t, s.DB, "delivery", d("0"), d("0"))
		productID := dbtest.CreateTestProduct(t, s.DB, "Tea", d("60"), d("100"), 5)
		dbtest.AddCartLine(t, s.DB, customerID, productID, 1)
		customerToken := s.jwt.GenerateToken(t, customerID, user.RoleUser)
		courierToken := s.jwt.GenerateToken(t, courierID, user.RoleDelivery)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, ordersURL, nil, customerToken)
		var created resdto.OrderResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
		url := "/api/orders/" + created.ID.String() + "/status"

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, url, map[string]any{"status": "rejected"}, customerToken)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "")

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, url, map[string]any{"status": "accepted"}, courierToken)
		var accepted resdto.OrderResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &accepted)
		require.NotNil(t, accepted.DeliveryID)
		require.Equal(t, courierID, *accepted.DeliveryID)

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, url, map[string]any{"status": "delivered"}, courierToken)
		var delivered resdto.OrderResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &delivered)
		require.Equal(t, "delivered", delivered.State)

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, url, map[string]any{"status": "rejected"}, courierToken)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "")

		// the customer sees the final state in their own listing
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, ordersURL, nil, customerToken)
		var list resdto.OrderListResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &list)
		require.Len(t, list.Orders, 1)
		require.Equal(t, "delivered", list.Orders[0].State)
	})

	s.Run("Error case: customers cannot read other customers' orders", func() {
		t := s.T()

		ownerID := dbtest.CreateTestUser(t, s.DB, "user", d("0"), d("0.2"))
		otherID := dbtest.CreateTestUser(t, s.DB, "user", d("0"), d("0.2"))
		productID := dbtest.CreateTestProduct(t, s.DB, "Tea", d("60"), d("100"), 5)
		dbtest.AddCartLine(t, s.DB, ownerID, productID, 1)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, ordersURL, nil, s.jwt.GenerateToken(t, ownerID, user.RoleUser))
		var created resdto.OrderResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, ordersURL+"/"+created.ID.String(), nil,
			s.jwt.GenerateToken(t, otherID, user.RoleUser))
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "")
	})

	s.Run("Error case: cart endpoints need a token", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, cartURL, nil, "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "Access token required")
	})
}

// =============================================================================
// TestCatalogue - product and profile reads
// =============================================================================

func (s *CheckoutSuite) TestCatalogue() {
	s.Run("Normal case: stock drops after an order", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "user", d("40"), d("0.2"))
		productID := dbtest.CreateTestProduct(t, s.DB, "Tea", d("60"), d("100"), 5)
		dbtest.AddCartLine(t, s.DB, userID, productID, 2)
		token := s.jwt.GenerateToken(t, userID, user.RoleUser)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, ordersURL, nil, token)
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, nil)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/products/"+productID.String(), nil, token)
		var p resdto.ProductResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &p)
		require.Equal(t, 3, p.InStock)
		require.Equal(t, 1, p.OrdersReceived)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/users/me", nil, token)
		var me resdto.UserResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &me)
		require.Equal(t, userID, me.ID)
		require.Equal(t, 1, me.Orders)
	})

	s.Run("Error case: unknown product is 404", func() {
		userID := dbtest.CreateTestUser(s.T(), s.DB, "user", d("0"), d("0.2"))
		token := s.jwt.GenerateToken(s.T(), userID, user.RoleUser)

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/products/"+uuid.NewString(), nil, token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "Product not found")
	})
}
