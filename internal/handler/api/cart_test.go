//go:build unit

package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"shop-checkout/internal/domain/cart"
	"shop-checkout/internal/domain/coupon"
	"shop-checkout/internal/domain/user"
	"shop-checkout/internal/handler/api"
	resdto "shop-checkout/internal/handler/dto/response"
	"shop-checkout/internal/pkg/errs"
	"shop-checkout/internal/usecase/queries"
	"shop-checkout/tests/common/httptest"
	"shop-checkout/tests/common/testutil"
	commandsmock "shop-checkout/tests/mock/commands"
	queriesmock "shop-checkout/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CartHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCartCommands
	mockQueries  *queriesmock.MockCartQueries
	userID       uuid.UUID
	role         user.Role
}

func (s *CartHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCartCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockCartQueries(s.mockCtrl)
	h := api.NewCartHandler(s.mockCommands, s.mockQueries)

	s.userID = uuid.New()
	s.role = user.RoleUser
	auth := mockAuth(s.userID, &s.role)

	s.router.GET("/cart", auth, h.Get)
	s.router.POST("/cart/items", auth, h.AddItem)
	s.router.DELETE("/cart/items/:productId", auth, h.RemoveItem)
	s.router.POST("/cart/coupon", auth, h.ApplyCoupon)
	s.router.DELETE("/cart/coupon", auth, h.RemoveCoupon)
	s.router.PUT("/cart/wallet", auth, h.SetWallet)
	s.router.POST("/cart/reconcile", auth, h.Reconcile)
}

func (s *CartHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCartHandlerSuite(t *testing.T) {
	suite.Run(t, new(CartHandlerTestSuite))
}

func (s *CartHandlerTestSuite) expectCartView(view *queries.CartView) {
	s.mockQueries.EXPECT().Get(gomock.Any(), s.userID).Return(view, nil)
}

func (s *CartHandlerTestSuite) TestGet() {
	productID := uuid.New()
	code := "SAVE10"
	s.expectCartView(&queries.CartView{
		Lines: []queries.CartLineView{{
			ProductID: productID, Name: "Tea", Quantity: 2, UnitPrice: decimal.NewFromInt(90), InStock: 4,
		}},
		CouponCode: &code,
		UseWallet:  true,
	})

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/cart", nil, "bearer-token")

	var body resdto.CartResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.Require().Len(body.Lines, 1)
	s.Equal(productID, body.Lines[0].ProductID)
	s.Equal(4, body.Lines[0].InStock)
	s.Equal("SAVE10", *body.CouponCode)
	s.True(body.UseWallet)
}

func (s *CartHandlerTestSuite) TestAddItem() {
	productID := uuid.New()
	reqBody := map[string]any{"productId": productID.String()}

	s.Run("success", func() {
		s.mockCommands.EXPECT().AddProduct(gomock.Any(), s.userID, productID).Return(&cart.Cart{}, nil)
		s.expectCartView(&queries.CartView{Lines: []queries.CartLineView{{ProductID: productID, Quantity: 1}}})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/cart/items", reqBody, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: missing productId", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("productId", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/cart/items", requestMap, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: out of stock", func() {
		s.mockCommands.EXPECT().AddProduct(gomock.Any(), s.userID, productID).Return(nil, errs.ErrProductOutOfStock)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/cart/items", reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Product is out of stock")
	})

	s.Run("error: unknown product", func() {
		s.mockCommands.EXPECT().AddProduct(gomock.Any(), s.userID, productID).
			Return(nil, errs.Mark(errs.New("missing"), errs.ErrProductNotFound))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/cart/items", reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Product not found")
	})
}

func (s *CartHandlerTestSuite) TestRemoveItem() {
	s.Run("error: malformed product id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/cart/items/abc", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid product ID format")
	})

	s.Run("success", func() {
		productID := uuid.New()
		s.mockCommands.EXPECT().RemoveProduct(gomock.Any(), s.userID, productID).Return(&cart.Cart{}, nil)
		s.expectCartView(&queries.CartView{Lines: []queries.CartLineView{}})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/cart/items/"+productID.String(), nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})
}

func (s *CartHandlerTestSuite) TestApplyCoupon() {
	s.Run("success: code is normalized", func() {
		s.mockCommands.EXPECT().ApplyCoupon(gomock.Any(), s.userID, "SAVE10").Return(&cart.Cart{}, nil)
		s.expectCartView(&queries.CartView{Lines: []queries.CartLineView{}})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/cart/coupon", map[string]any{"code": " save10 "}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: already applied", func() {
		s.mockCommands.EXPECT().ApplyCoupon(gomock.Any(), s.userID, "SAVE10").Return(nil, errs.ErrCouponAlreadyApplied)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/cart/coupon", map[string]any{"code": "SAVE10"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Coupon already applied")
	})

	s.Run("error: expired coupon reports the reason", func() {
		s.mockCommands.EXPECT().ApplyCoupon(gomock.Any(), s.userID, "SAVE10").
			Return(nil, errs.Mark(coupon.ErrCouponExpired, errs.ErrCouponRejected))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/cart/coupon", map[string]any{"code": "SAVE10"}, "bearer-token")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Coupon cannot be used")
		var body struct {
			Detail struct {
				Reason string `json:"reason"`
			} `json:"detail"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("expired", body.Detail.Reason)
	})
}

func (s *CartHandlerTestSuite) TestSetWallet() {
	s.Run("success", func() {
		s.mockCommands.EXPECT().SetUseWallet(gomock.Any(), s.userID, false).Return(&cart.Cart{}, nil)
		s.expectCartView(&queries.CartView{Lines: []queries.CartLineView{}})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/cart/wallet", map[string]any{"wallet": false}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: missing flag", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/cart/wallet", map[string]any{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})
}

func (s *CartHandlerTestSuite) TestRemoveCouponAndReconcile() {
	s.mockCommands.EXPECT().RemoveCoupon(gomock.Any(), s.userID).Return(&cart.Cart{}, nil)
	s.mockCommands.EXPECT().AcceptAdjustments(gomock.Any(), s.userID).Return(&cart.Cart{}, nil)
	s.mockQueries.EXPECT().Get(gomock.Any(), s.userID).Return(&queries.CartView{Lines: []queries.CartLineView{}}, nil).Times(2)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/cart/coupon", nil, "bearer-token")
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)

	rec = httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/cart/reconcile", nil, "bearer-token")
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
}
