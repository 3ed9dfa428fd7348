package api

import (
	"errors"
	"net/http"

	"shop-checkout/internal/domain/order"
	reqdto "shop-checkout/internal/handler/dto/request"
	resdto "shop-checkout/internal/handler/dto/response"
	"shop-checkout/internal/handler/httperr"
	"shop-checkout/internal/handler/middleware"
	"shop-checkout/internal/pkg/errs"
	"shop-checkout/internal/usecase/commands"
	"shop-checkout/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errInvalidIdempotencyKey = errors.New("invalid idempotency key format")

type OrderHandler struct {
	checkout  commands.CheckoutCommands
	lifecycle commands.OrderLifecycleCommands
	q         queries.OrderQueries
}

func NewOrderHandler(
	checkout commands.CheckoutCommands,
	lifecycle commands.OrderLifecycleCommands,
	q queries.OrderQueries,
) *OrderHandler {
	return &OrderHandler{
		checkout:  checkout,
		lifecycle: lifecycle,
		q:         q,
	}
}

// @Summary Preview checkout
// @Description Price the cart without side effects. A drifted cart returns 409 with the corrected draft.
// @Tags checkout
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.DraftResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} resdto.DraftResponse
// @Router /cart/checkout [get]
func (h *OrderHandler) Check(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}

	draft, err := h.checkout.CheckOrder(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromDraft(draft))
}

// @Summary Create order
// @Description Commit the cart as an order. Retrying with the same Idempotency-Key replays the original order.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key for duplicate prevention"
// @Success 201 {object} resdto.OrderResponse
// @Success 200 {object} resdto.OrderResponse "Replayed"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} resdto.DraftResponse
// @Failure 429 {object} map[string]string
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}

	idempotencyKey, err := h.getIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	result, err := h.checkout.CreateOrder(c.Request.Context(), userID, idempotencyKey)
	if err != nil {
		middleware.RecordCheckout(checkoutOutcomeOf(err))
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		middleware.RecordCheckout(middleware.CheckoutReplayed)
		status = http.StatusOK
	} else {
		middleware.RecordCheckout(middleware.CheckoutCreated)
	}
	c.Header("Location", "/api/orders/"+result.Order.ID().String())
	c.JSON(status, resdto.FromOrder(result.Order))
}

// @Summary Get order
// @Description Get an order by ID. Customers may only read their own orders.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order ID format", nil)
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}

// @Summary List orders
// @Description Search orders. Customers only ever see their own orders.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param user query string false "Customer ID"
// @Param delivery query string false "Courier ID"
// @Param status query []string false "Order states" collectionFormat(multi)
// @Param timeMin query string false "Created at or after (RFC3339)"
// @Param timeMax query string false "Created at or before (RFC3339)"
// @Param sortBy query string false "Sort terms, e.g. timestamp:desc,total:asc"
// @Param page query int false "0-based page"
// @Success 200 {object} resdto.OrderListResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}

	var query reqdto.ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	params, err := query.ToParams()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	page, err := h.q.List(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderPage(page))
}

// @Summary Update order status
// @Description Move an order through its lifecycle and/or assign a courier
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.UpdateOrderStatusRequest true "Status change"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order ID format", nil)
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}

	var req reqdto.UpdateOrderStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}
	update, err := req.ToCommand()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid status", nil)
		return
	}

	updated, err := h.lifecycle.UpdateStatus(c.Request.Context(), id, actor, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrder(updated))
}

func (h *OrderHandler) getIdempotencyKey(c *gin.Context) (string, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return "", nil
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return "", errInvalidIdempotencyKey
	}

	return key.String(), nil
}

func actorFrom(c *gin.Context) (order.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return order.Actor{}, false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		return order.Actor{}, false
	}
	return order.Actor{ID: userID, Role: role}, true
}

func checkoutOutcomeOf(err error) string {
	var drift *commands.DriftError
	switch {
	case errs.As(err, &drift):
		return middleware.CheckoutDrift
	case errs.Is(err, errs.ErrCouponRejected),
		errs.Is(err, errs.ErrCouponNotFound),
		errs.Is(err, errs.ErrEmptyCart):
		return middleware.CheckoutRejected
	default:
		return middleware.CheckoutFailed
	}
}
