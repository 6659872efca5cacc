package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quackapp/staffing-be/internal/notification"
	"github.com/quackapp/staffing-be/shared/rabbitmq"
)

// EmailSender delivers a rendered message to an email address.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// PushSender delivers a rendered message to a device token.
type PushSender interface {
	Send(ctx context.Context, token, title, body string) error
}

// Config holds notifier configuration
type Config struct {
	Logger        *slog.Logger
	RabbitClient  *rabbitmq.Client
	Email         EmailSender
	Push          PushSender
	Concurrency   int
	SendTimeout   time.Duration
	PrefetchCount int
	QueueName     string
}

// Notifier consumes notification obligations and fulfills them over the
// channel each obligation names.
type Notifier struct {
	logger        *slog.Logger
	rabbitClient  *rabbitmq.Client
	email         EmailSender
	push          PushSender
	concurrency   int
	sendTimeout   time.Duration
	prefetchCount int
	queueName     string
	notifierID    string
	msgsChan      chan *obligationMessage
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

// obligationMessage pairs a parsed obligation with its delivery tag so the
// pool can ACK or NACK the underlying message after processing.
type obligationMessage struct {
	Obligation  notification.Obligation
	DeliveryTag uint64
}

// NewNotifier creates a new notifier instance
func NewNotifier(cfg *Config) *Notifier {
	return &Notifier{
		logger:        cfg.Logger,
		rabbitClient:  cfg.RabbitClient,
		email:         cfg.Email,
		push:          cfg.Push,
		concurrency:   cfg.Concurrency,
		sendTimeout:   cfg.SendTimeout,
		prefetchCount: cfg.PrefetchCount,
		queueName:     cfg.QueueName,
		notifierID:    fmt.Sprintf("notifier-%s", uuid.New().String()[:8]),
		msgsChan:      make(chan *obligationMessage),
		stopChan:      make(chan struct{}),
	}
}

// Start begins consuming obligations and blocks until the context is canceled
func (n *Notifier) Start(ctx context.Context) error {
	n.logger.Info("Starting notifier",
		slog.String("notifier_id", n.notifierID),
		slog.Int("concurrency", n.concurrency),
		slog.Duration("send_timeout", n.sendTimeout),
	)

	deliveries, err := n.setupConsumer(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up consumer: %w", err)
	}

	n.spawnSenderPool(ctx)
	n.startMessageDispatcher(ctx, deliveries)

	return nil
}

// Stop gracefully stops the notifier
func (n *Notifier) Stop() {
	n.logger.Info("Stopping notifier...")
	close(n.stopChan)
	n.wg.Wait()
	n.logger.Info("Notifier stopped")
}
