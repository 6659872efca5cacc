package notification

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/quackapp/staffing-be/shared/rabbitmq"
)

// Publisher pushes obligations onto the notification exchange. Delivery is
// best effort: the state change that produced an obligation has already
// committed, so publish failures are logged and never surfaced to the caller.
type Publisher struct {
	client *rabbitmq.Client
	logger *slog.Logger
}

// NewPublisher creates a Publisher on an established RabbitMQ client.
func NewPublisher(client *rabbitmq.Client, logger *slog.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: logger,
	}
}

// PublishAll serializes and publishes each obligation independently. One
// failed publish does not stop the rest.
func (p *Publisher) PublishAll(ctx context.Context, obligations []Obligation) {
	for i := range obligations {
		ob := &obligations[i]

		body, err := json.Marshal(ob)
		if err != nil {
			p.logger.Error("Failed to marshal obligation",
				slog.String("obligation_id", ob.ObligationID),
				slog.String("template", string(ob.Template)),
				slog.Any("error", err),
			)
			continue
		}

		if err := p.client.PublishWithRetry(ctx, body, "application/json"); err != nil {
			p.logger.Error("Failed to publish obligation",
				slog.String("obligation_id", ob.ObligationID),
				slog.String("template", string(ob.Template)),
				slog.String("channel", string(ob.Channel)),
				slog.Any("error", err),
			)
			continue
		}

		p.logger.Debug("Obligation published",
			slog.String("obligation_id", ob.ObligationID),
			slog.String("template", string(ob.Template)),
			slog.String("channel", string(ob.Channel)),
			slog.String("recipient_kind", string(ob.Recipient.Kind)),
		)
	}
}
