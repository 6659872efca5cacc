package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// spawnSenderPool spawns N sender goroutines based on concurrency configuration
func (n *Notifier) spawnSenderPool(ctx context.Context) {
	n.logger.Info("Spawning sender pool",
		slog.Int("concurrency", n.concurrency),
		slog.String("notifier_id", n.notifierID),
	)

	for i := 0; i < n.concurrency; i++ {
		n.wg.Add(1)
		go n.senderLoop(ctx, i)
	}

	n.logger.Info("Sender pool spawned successfully",
		slog.Int("sender_count", n.concurrency),
	)
}

// senderLoop is the main processing loop for each sender goroutine
func (n *Notifier) senderLoop(ctx context.Context, senderNum int) {
	defer n.wg.Done()

	senderName := fmt.Sprintf("%s-%d", n.notifierID, senderNum)
	n.logger.Info("Sender goroutine started",
		slog.String("sender_name", senderName),
	)

	for {
		select {
		case <-n.stopChan:
			n.logger.Info("Sender goroutine stopping - stopChan closed",
				slog.String("sender_name", senderName),
			)
			return

		case <-ctx.Done():
			n.logger.Info("Sender goroutine stopping - context canceled",
				slog.String("sender_name", senderName),
			)
			return

		case msg, ok := <-n.msgsChan:
			if !ok {
				n.logger.Info("Sender goroutine stopping - msgsChan closed",
					slog.String("sender_name", senderName),
				)
				return
			}

			err := n.processObligation(ctx, msg)

			channel := n.rabbitClient.GetChannel()
			if channel == nil {
				n.logger.Error("Failed to get RabbitMQ channel for ACK/NACK",
					slog.String("sender_name", senderName),
					slog.String("obligation_id", msg.Obligation.ObligationID),
				)
				continue
			}

			if err != nil {
				n.logger.Error("Obligation processing failed",
					slog.String("sender_name", senderName),
					slog.String("obligation_id", msg.Obligation.ObligationID),
					slog.String("template", string(msg.Obligation.Template)),
					slog.String("error", err.Error()),
				)

				requeue := n.shouldRequeue(err)

				if nackErr := channel.Nack(msg.DeliveryTag, false, requeue); nackErr != nil {
					n.logger.Error("Failed to NACK message",
						slog.String("sender_name", senderName),
						slog.String("obligation_id", msg.Obligation.ObligationID),
						slog.String("error", nackErr.Error()),
					)
				} else {
					n.logger.Info("Message NACKed",
						slog.String("sender_name", senderName),
						slog.String("obligation_id", msg.Obligation.ObligationID),
						slog.Bool("requeue", requeue),
					)
				}
			} else {
				if ackErr := channel.Ack(msg.DeliveryTag, false); ackErr != nil {
					n.logger.Error("Failed to ACK message",
						slog.String("sender_name", senderName),
						slog.String("obligation_id", msg.Obligation.ObligationID),
						slog.String("error", ackErr.Error()),
					)
				} else {
					n.logger.Info("Obligation fulfilled",
						slog.String("sender_name", senderName),
						slog.String("obligation_id", msg.Obligation.ObligationID),
						slog.String("template", string(msg.Obligation.Template)),
					)
				}
			}
		}
	}
}

// shouldRequeue determines if an obligation should be requeued based on the error type
func (n *Notifier) shouldRequeue(err error) bool {
	// Don't requeue obligations the notifier can never fulfill
	if errors.Is(err, ErrUnknownChannel) {
		return false
	}

	if errors.Is(err, ErrUnknownTemplate) {
		return false
	}

	if errors.Is(err, ErrMissingAddress) {
		return false
	}

	// Requeue for transient/retryable errors
	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return true
	}

	// Default: don't requeue for unknown errors
	return false
}
