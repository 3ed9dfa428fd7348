package components

import (
	"shop-checkout/internal/handler"
	"shop-checkout/internal/handler/api"
	"shop-checkout/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCartHandler,
		api.NewOrderHandler,
		api.NewCouponHandler,
		api.NewProductHandler,
		api.NewUserHandler,
		middleware.NewAuthMiddleware,
		newHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func newHandlers(
	cart *api.CartHandler,
	order *api.OrderHandler,
	coupon *api.CouponHandler,
	product *api.ProductHandler,
	user *api.UserHandler,
) handler.Handlers {
	return handler.Handlers{
		Cart:    cart,
		Order:   order,
		Coupon:  coupon,
		Product: product,
		User:    user,
	}
}
