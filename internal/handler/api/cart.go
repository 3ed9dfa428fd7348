package api

import (
	"net/http"

	"shop-checkout/internal/domain/cart"
	reqdto "shop-checkout/internal/handler/dto/request"
	resdto "shop-checkout/internal/handler/dto/response"
	"shop-checkout/internal/handler/httperr"
	"shop-checkout/internal/handler/middleware"
	"shop-checkout/internal/usecase/commands"
	"shop-checkout/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct {
	cmds commands.CartCommands
	q    queries.CartQueries
}

func NewCartHandler(cmds commands.CartCommands, q queries.CartQueries) *CartHandler {
	return &CartHandler{cmds: cmds, q: q}
}

// @Summary Get cart
// @Description Get the current user's cart with live product data
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CartResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	h.respondCart(c, userID)
}

// @Summary Add product to cart
// @Description Add one unit of a product, appending a new line when absent
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AddCartItemRequest true "Product to add"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req reqdto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	h.mutate(c, func(userID uuid.UUID) (*cart.Cart, error) {
		return h.cmds.AddProduct(c.Request.Context(), userID, req.ProductID)
	})
}

// @Summary Remove product from cart
// @Description Remove a product line from the cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid product ID format", nil)
		return
	}
	h.mutate(c, func(userID uuid.UUID) (*cart.Cart, error) {
		return h.cmds.RemoveProduct(c.Request.Context(), userID, productID)
	})
}

// @Summary Apply coupon
// @Description Validate a coupon code and attach it to the cart. Usage is consumed at checkout.
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ApplyCouponRequest true "Coupon code"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/coupon [post]
func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	var req reqdto.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	h.mutate(c, func(userID uuid.UUID) (*cart.Cart, error) {
		return h.cmds.ApplyCoupon(c.Request.Context(), userID, req.GetCode())
	})
}

// @Summary Remove coupon
// @Description Detach the coupon from the cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CartResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/coupon [delete]
func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	h.mutate(c, func(userID uuid.UUID) (*cart.Cart, error) {
		return h.cmds.RemoveCoupon(c.Request.Context(), userID)
	})
}

// @Summary Toggle wallet
// @Description Choose whether the wallet balance pays for the next order
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.SetWalletRequest true "Wallet flag"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /cart/wallet [put]
func (h *CartHandler) SetWallet(c *gin.Context) {
	var req reqdto.SetWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	h.mutate(c, func(userID uuid.UUID) (*cart.Cart, error) {
		return h.cmds.SetUseWallet(c.Request.Context(), userID, *req.Wallet)
	})
}

// @Summary Accept cart adjustments
// @Description Store the reconciled lines of a drifted cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CartResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/reconcile [post]
func (h *CartHandler) Reconcile(c *gin.Context) {
	h.mutate(c, func(userID uuid.UUID) (*cart.Cart, error) {
		return h.cmds.AcceptAdjustments(c.Request.Context(), userID)
	})
}

func (h *CartHandler) mutate(c *gin.Context, fn func(userID uuid.UUID) (*cart.Cart, error)) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	if _, err := fn(userID); err != nil {
		respondError(c, err)
		return
	}
	h.respondCart(c, userID)
}

func (h *CartHandler) respondCart(c *gin.Context, userID uuid.UUID) {
	view, err := h.q.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCartView(view))
}
