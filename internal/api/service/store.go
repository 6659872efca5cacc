package service

import (
	"context"
	"time"

	"github.com/quackapp/staffing-be/internal/api/domain"
)

// Store is the persistence surface the engine drives. Each method is a
// single atomic read or write; multi-step transitions compose them inside
// WithinTx so that both sides of every Job/Worker dual-write commit together.
type Store interface {
	// WithinTx runs fn against a transaction-bound Store. fn returning an
	// error rolls the transaction back.
	WithinTx(ctx context.Context, fn func(Store) error) error

	GetTenant(ctx context.Context, userCode string) (*domain.Tenant, error)

	GetWorker(ctx context.Context, workerID string) (*domain.Worker, error)
	ListWorkersByTenant(ctx context.Context, userCode string) ([]domain.Worker, error)
	CreateWorker(ctx context.Context, worker *domain.Worker) error
	DeleteWorker(ctx context.Context, workerID string) error
	SetWorkerApproved(ctx context.Context, workerID string, approved bool) error
	AddAvailability(ctx context.Context, workerID string, date time.Time, shift domain.Shift) error
	RemoveAvailability(ctx context.Context, workerID string, date time.Time, shift domain.Shift) (bool, error)
	AppendActivity(ctx context.Context, workerID, message string) error
	AppendMessage(ctx context.Context, workerID, body string) error

	CreateJob(ctx context.Context, job *domain.Job) error
	GetJob(ctx context.Context, jobID string) (*domain.Job, error)
	// GetJobForUpdate locks the job row for the rest of the transaction so
	// concurrent capacity checks serialize.
	GetJobForUpdate(ctx context.Context, jobID string) (*domain.Job, error)
	SetJobFilled(ctx context.Context, jobID string, filled bool) error
	UpdateJobFields(ctx context.Context, jobID, title, description, location string, workersRequired int) error
	DeleteJob(ctx context.Context, jobID, userCode string) error

	AddAssignment(ctx context.Context, jobID, workerID string) error
	RemoveAssignment(ctx context.Context, jobID, workerID string) error
	InsertInvitations(ctx context.Context, jobID string, workerIDs []string) error
	MarkInvitationAccepted(ctx context.Context, jobID, workerID string) error
	DeleteInvitation(ctx context.Context, jobID, workerID string) error

	// ListJobsReferencingWorker returns every job holding the worker in its
	// assignment or invitation sets, with both sets loaded.
	ListJobsReferencingWorker(ctx context.Context, workerID string) ([]domain.Job, error)
}
