package outbox

import (
	"context"
	"log/slog"
)

// LogPublisher stands in for the broker when RabbitMQ is not configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, topic string, payload []byte) error {
	p.logger.Info("order event", "topic", topic, "payload", string(payload))
	return nil
}
