package bootstrap

import (
	"context"
	"log/slog"

	"shop-checkout/internal/infra/messaging"
	"shop-checkout/internal/infra/outbox"
	"shop-checkout/internal/pkg/clock"
	"shop-checkout/internal/pkg/config"
	"shop-checkout/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
)

var OutboxModule = fx.Module("outbox",
	fx.Provide(
		NewOutboxPublisher,
		NewOutboxRelay,
	),
	fx.Invoke(startOutboxRelay),
)

func NewOutboxPublisher(cfg config.Config, ch *amqp.Channel, logger *slog.Logger) (outbox.Publisher, error) {
	if ch == nil {
		return outbox.NewLogPublisher(logger), nil
	}
	publisher, err := messaging.NewRabbitPublisher(ch, cfg.Rabbit.Exchange)
	if err != nil {
		return nil, err
	}
	return publisher, nil
}

func NewOutboxRelay(
	cfg config.Config,
	uow shared.UnitOfWork,
	publisher outbox.Publisher,
	clk clock.Clock,
	logger *slog.Logger,
) *outbox.Relay {
	return outbox.NewRelay(uow, publisher, clk, logger, outbox.Options{
		PollInterval: cfg.Rabbit.PollInterval,
		BatchSize:    cfg.Rabbit.BatchSize,
		MaxAttempts:  cfg.Rabbit.MaxAttempts,
		Lease:        cfg.Rabbit.Lease,
	})
}

func startOutboxRelay(lc fx.Lifecycle, relay *outbox.Relay) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			relay.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return relay.Stop(ctx)
		},
	})
}
