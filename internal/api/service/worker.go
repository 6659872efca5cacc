package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/quackapp/staffing-be/internal/api/domain"
	"github.com/quackapp/staffing-be/internal/notification"
)

// RegisterWorkerInput carries the self-registration fields.
type RegisterWorkerInput struct {
	Name      string
	Email     string
	Phone     string
	UserCode  string
	PushToken string
}

// RegisterWorker creates a pending worker under an existing tenant code.
// The worker cannot participate until the tenant approves them.
func (e *Engine) RegisterWorker(ctx context.Context, in RegisterWorkerInput) (*domain.Worker, []notification.Obligation, error) {
	tenant, err := e.store.GetTenant(ctx, in.UserCode)
	if err != nil {
		return nil, nil, err
	}

	worker := &domain.Worker{
		WorkerID:  uuid.New().String(),
		UserCode:  tenant.UserCode,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Approved:  false,
		PushToken: in.PushToken,
		CreatedAt: time.Now().UTC(),
	}

	err = e.store.WithinTx(ctx, func(s Store) error {
		if err := s.CreateWorker(ctx, worker); err != nil {
			return err
		}
		return s.AppendActivity(ctx, worker.WorkerID, "Worker registered")
	})
	if err != nil {
		return nil, nil, err
	}

	data := notification.Data{WorkerName: worker.Name}
	obligations := notification.WorkerNotice(worker, notification.TemplateWorkerRegistered, data)
	obligations = append(obligations, notification.TenantPushNotice(tenant, notification.TemplateWorkerRegistered, data)...)

	e.logger.Info("Worker registered",
		slog.String("worker_id", worker.WorkerID),
		slog.String("user_code", worker.UserCode),
	)

	return worker, obligations, nil
}

// ApproveWorker flips the participation gate for a pending worker. Only the
// owning tenant can approve; another tenant's worker reads as missing.
func (e *Engine) ApproveWorker(ctx context.Context, principal domain.Principal, workerID string) (*domain.Worker, []notification.Obligation, error) {
	if !principal.IsTenant() {
		return nil, nil, domain.ErrUnauthorized
	}

	worker, err := e.store.GetWorker(ctx, workerID)
	if err != nil {
		return nil, nil, err
	}
	if worker.UserCode != principal.UserCode {
		return nil, nil, domain.ErrWorkerNotFound
	}

	if err := e.store.SetWorkerApproved(ctx, workerID, true); err != nil {
		return nil, nil, err
	}
	worker.Approved = true

	obligations := notification.WorkerNotice(worker, notification.TemplateWorkerApproved, notification.Data{
		WorkerName: worker.Name,
	})

	e.logger.Info("Worker approved", slog.String("worker_id", workerID))

	return worker, obligations, nil
}

// DeclineWorker rejects a pending registration and removes the record. Only
// the owning tenant can decline.
func (e *Engine) DeclineWorker(ctx context.Context, principal domain.Principal, workerID string) ([]notification.Obligation, error) {
	if !principal.IsTenant() {
		return nil, domain.ErrUnauthorized
	}

	worker, err := e.store.GetWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if worker.UserCode != principal.UserCode {
		return nil, domain.ErrWorkerNotFound
	}

	if err := e.store.DeleteWorker(ctx, workerID); err != nil {
		return nil, err
	}

	obligations := notification.WorkerPushNotice(worker, notification.TemplateWorkerDeclined, notification.Data{
		WorkerName: worker.Name,
	})

	e.logger.Info("Worker registration declined", slog.String("worker_id", workerID))

	return obligations, nil
}

// BroadcastMessage stores a tenant-authored message on every worker's feed
// and pushes it to each distinct registered device in one pass.
func (e *Engine) BroadcastMessage(ctx context.Context, principal domain.Principal, body string) (int, []notification.Obligation, error) {
	if !principal.IsTenant() {
		return 0, nil, domain.ErrUnauthorized
	}

	var (
		reached     int
		obligations []notification.Obligation
	)

	err := e.store.WithinTx(ctx, func(s Store) error {
		pool, err := s.ListWorkersByTenant(ctx, principal.UserCode)
		if err != nil {
			return err
		}
		if len(pool) == 0 {
			return domain.ErrNoWorkersFound
		}

		for i := range pool {
			if err := s.AppendMessage(ctx, pool[i].WorkerID, body); err != nil {
				return err
			}
		}

		reached = len(pool)
		obligations = notification.MessageFanout(pool, notification.Data{Message: body})
		return nil
	})
	if err != nil {
		return 0, nil, err
	}

	e.logger.Info("Message broadcast to worker pool",
		slog.String("user_code", principal.UserCode),
		slog.Int("workers_reached", reached),
	)

	return reached, obligations, nil
}

// AddAvailability declares a new (date, shift) slot for the worker and
// notifies the owning tenant.
func (e *Engine) AddAvailability(ctx context.Context, workerID string, date time.Time, shift domain.Shift) (*domain.Worker, []notification.Obligation, error) {
	var (
		worker      *domain.Worker
		obligations []notification.Obligation
	)

	err := e.store.WithinTx(ctx, func(s Store) error {
		var err error
		worker, err = s.GetWorker(ctx, workerID)
		if err != nil {
			return err
		}

		if err := s.AddAvailability(ctx, workerID, date, shift); err != nil {
			return err
		}
		worker.Availability = append(worker.Availability, domain.AvailabilitySlot{Date: date, Shift: shift})

		message := fmt.Sprintf("Marked availability for %s (%s)", date.UTC().Format(domain.DateLayout), shift)
		if err := s.AppendActivity(ctx, workerID, message); err != nil {
			return err
		}

		tenant, err := s.GetTenant(ctx, worker.UserCode)
		if err != nil {
			return err
		}

		obligations = notification.TenantNotice(tenant, notification.TemplateAvailabilityMarked, notification.Data{
			Date:       date.UTC().Format(domain.DateLayout),
			Shift:      string(shift),
			WorkerName: worker.Name,
		})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	e.logger.Info("Availability marked",
		slog.String("worker_id", workerID),
		slog.String("date", date.UTC().Format(domain.DateLayout)),
		slog.String("shift", string(shift)),
	)

	return worker, obligations, nil
}
