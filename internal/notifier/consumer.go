package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quackapp/staffing-be/internal/notification"
	amqp "github.com/rabbitmq/amqp091-go"
)

// setupConsumer sets up RabbitMQ consumer with QoS and returns delivery channel
func (n *Notifier) setupConsumer(ctx context.Context) (<-chan amqp.Delivery, error) {
	channel := n.rabbitClient.GetChannel()
	if channel == nil {
		return nil, fmt.Errorf("rabbitmq channel is nil")
	}

	// Set QoS (Quality of Service) to control message prefetching
	// prefetch_count: number of unacknowledged messages per consumer
	// prefetch_size: 0 means no specific byte limit
	// global: false means per-consumer, not per-channel
	err := channel.Qos(
		n.prefetchCount, // prefetch count from config
		0,               // prefetch size
		false,           // global
	)

	if err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	n.logger.Info("RabbitMQ QoS configured",
		slog.Int("prefetch_count", n.prefetchCount),
	)

	consumerTag := n.notifierID

	// auto-ack is off: obligations are acknowledged only after delivery
	deliveries, err := n.rabbitClient.Consume(consumerTag)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	n.logger.Info("RabbitMQ consumer started",
		slog.String("consumer_tag", consumerTag),
		slog.String("queue", n.queueName),
	)

	return deliveries, nil
}

// startMessageDispatcher listens to RabbitMQ deliveries and dispatches
// obligations to the sender pool
func (n *Notifier) startMessageDispatcher(ctx context.Context, deliveries <-chan amqp.Delivery) {
	n.logger.Info("Message dispatcher started",
		slog.String("notifier_id", n.notifierID),
	)

	for {
		select {
		case <-ctx.Done():
			n.logger.Info("Message dispatcher stopped - context canceled")
			return

		case delivery, ok := <-deliveries:
			if !ok {
				n.logger.Warn("RabbitMQ delivery channel closed")
				return
			}

			var ob notification.Obligation
			if err := json.Unmarshal(delivery.Body, &ob); err != nil {
				n.logger.Error("Failed to parse obligation JSON",
					slog.String("error", err.Error()),
					slog.String("body", string(delivery.Body)),
				)
				// NACK without requeue - malformed messages should go to DLQ
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					n.logger.Error("Failed to NACK malformed message",
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			if _, err := uuid.Parse(ob.ObligationID); err != nil {
				n.logger.Error("Invalid obligation_id format - not a UUID",
					slog.String("obligation_id", ob.ObligationID),
					slog.String("error", err.Error()),
				)
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					n.logger.Error("Failed to NACK message with invalid obligation_id",
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			msg := &obligationMessage{
				Obligation:  ob,
				DeliveryTag: delivery.DeliveryTag,
			}

			select {
			case n.msgsChan <- msg:
				n.logger.Debug("Obligation dispatched to sender pool",
					slog.String("obligation_id", ob.ObligationID),
					slog.Uint64("delivery_tag", delivery.DeliveryTag),
				)
			case <-ctx.Done():
				n.logger.Info("Message dispatcher stopped while dispatching obligation")
				// NACK the message so it can be reprocessed
				if nackErr := delivery.Nack(false, true); nackErr != nil {
					n.logger.Error("Failed to NACK message on shutdown",
						slog.String("error", nackErr.Error()),
					)
				}
				return
			}
		}
	}
}
