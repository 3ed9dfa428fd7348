package components

import (
	"shop-checkout/internal/domain/order"
	"shop-checkout/internal/pkg/clock"
	"shop-checkout/internal/pkg/config"
	"shop-checkout/internal/usecase"
	"shop-checkout/internal/usecase/commands"
	"shop-checkout/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) *order.DeliveryEstimator {
		return order.NewDeliveryEstimator(cfg.Checkout.DeliveryRatePerKm)
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewCartCommands,
		commands.NewCheckoutCommands,
		commands.NewOrderLifecycleCommands,
		commands.NewCouponCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewCartQueries,
		queries.NewOrderQueries,
		queries.NewCouponQueries,
		queries.NewProductQueries,
		queries.NewUserQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
