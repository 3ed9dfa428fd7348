package bootstrap

import (
	"context"
	"log/slog"

	"shop-checkout/internal/pkg/config"
	"shop-checkout/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
)

var RabbitModule = fx.Module("rabbitmq",
	fx.Provide(
		NewRabbitChannel,
	),
)

// NewRabbitChannel returns nil when RABBITMQ_URL is unset. Outbox jobs are then
// written to the log instead of a broker.
func NewRabbitChannel(lc fx.Lifecycle, cfg config.Config) (*amqp.Channel, error) {
	if cfg.Rabbit.URL == "" {
		slog.Info("RABBITMQ_URL が未設定のため、イベントはログに出力します")
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, errs.Wrap(err, "failed to dial rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "failed to open rabbitmq channel")
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			_ = ch.Close()
			return conn.Close()
		},
	})

	return ch, nil
}
