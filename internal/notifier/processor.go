package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quackapp/staffing-be/internal/notification"
)

// processObligation renders and delivers a single obligation with a send timeout
func (n *Notifier) processObligation(ctx context.Context, msg *obligationMessage) error {
	ob := &msg.Obligation

	n.logger.Info("Processing obligation",
		slog.String("obligation_id", ob.ObligationID),
		slog.String("channel", string(ob.Channel)),
		slog.String("template", string(ob.Template)),
		slog.String("recipient_kind", string(ob.Recipient.Kind)),
	)

	subject, body, err := renderTemplate(ob)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, n.sendTimeout)
	defer cancel()

	switch ob.Channel {
	case notification.ChannelEmail:
		if ob.Recipient.Email == "" {
			return fmt.Errorf("%w: email for %s", ErrMissingAddress, ob.Recipient.ID)
		}
		if err := n.email.Send(sendCtx, ob.Recipient.Email, subject, body); err != nil {
			// SMTP failures are assumed transient
			return NewRetryableError(fmt.Errorf("email send failed: %w", err))
		}
		return nil

	case notification.ChannelPush:
		if ob.Recipient.PushToken == "" {
			return fmt.Errorf("%w: push token for %s", ErrMissingAddress, ob.Recipient.ID)
		}
		if err := n.push.Send(sendCtx, ob.Recipient.PushToken, subject, body); err != nil {
			return NewRetryableError(fmt.Errorf("push send failed: %w", err))
		}
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownChannel, ob.Channel)
	}
}
