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

// Engine owns the job lifecycle: invitation targeting at creation time,
// accept/decline/respond transitions, worker-initiated withdrawal and shift
// cancellation, and the deletion cascade. Every mutating operation runs in
// one transaction with the job row locked before capacity checks, and
// returns the notification obligations the transition produced. Obligations
// are for the caller to publish after the state change has committed.
type Engine struct {
	store  Store
	logger *slog.Logger
}

// NewEngine creates an Engine on the given store.
func NewEngine(store Store, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
	}
}

// CreateJobInput carries the tenant-supplied job fields.
type CreateJobInput struct {
	Title           string
	Description     string
	Location        string
	Date            time.Time
	Shift           domain.Shift
	WorkersRequired int
}

// CreateJob persists a new job and computes its invitation set: workers
// whose availability contains the job's (date, shift), or the tenant's
// entire pool when nobody matches. The set is fixed at creation time.
func (e *Engine) CreateJob(ctx context.Context, principal domain.Principal, in CreateJobInput) (*domain.Job, []notification.Obligation, error) {
	if !principal.IsTenant() {
		return nil, nil, domain.ErrUnauthorized
	}
	if in.WorkersRequired <= 0 {
		return nil, nil, fmt.Errorf("workers required must be positive, got %d", in.WorkersRequired)
	}

	tenant, err := e.store.GetTenant(ctx, principal.UserCode)
	if err != nil {
		return nil, nil, err
	}

	var (
		job         *domain.Job
		obligations []notification.Obligation
	)

	err = e.store.WithinTx(ctx, func(s Store) error {
		pool, err := s.ListWorkersByTenant(ctx, tenant.UserCode)
		if err != nil {
			return err
		}
		if len(pool) == 0 {
			return domain.ErrNoWorkersFound
		}

		available := make([]domain.Worker, 0, len(pool))
		for _, w := range pool {
			if w.AvailableFor(in.Date, in.Shift) {
				available = append(available, w)
			}
		}

		// No matching availability is not a filter, it is a fallback:
		// invite everyone so the job cannot be silently unfillable.
		invited := available
		if len(invited) == 0 {
			invited = pool
		}

		job = &domain.Job{
			JobID:           uuid.New().String(),
			UserCode:        tenant.UserCode,
			Title:           in.Title,
			Description:     in.Description,
			Location:        in.Location,
			ShiftDate:       in.Date,
			Shift:           in.Shift,
			WorkersRequired: in.WorkersRequired,
			Filled:          false,
			CreatedAt:       time.Now().UTC(),
		}
		if err := s.CreateJob(ctx, job); err != nil {
			return err
		}

		invitedIDs := make([]string, len(invited))
		for i := range invited {
			invitedIDs[i] = invited[i].WorkerID
		}
		if err := s.InsertInvitations(ctx, job.JobID, invitedIDs); err != nil {
			return err
		}
		job.InvitedWorkers = invitedIDs

		for i := range invited {
			message := fmt.Sprintf("You have been invited to a new job: %s", job.Title)
			if err := s.AppendActivity(ctx, invited[i].WorkerID, message); err != nil {
				return err
			}
		}

		obligations = notification.InviteFanout(job, invited)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	e.logger.Info("Job created",
		slog.String("job_id", job.JobID),
		slog.String("user_code", job.UserCode),
		slog.Int("invited_workers", len(job.InvitedWorkers)),
		slog.Int("workers_required", job.WorkersRequired),
	)

	return job, obligations, nil
}

// UpdateJobInput carries the tenant-editable job fields.
type UpdateJobInput struct {
	Title           string
	Description     string
	Location        string
	WorkersRequired int
}

// UpdateJob rewrites the tenant-editable fields under the row lock and
// reconciles the capacity flag against the new headcount. A filled job whose
// headcount grows reopens and is re-announced to the tenant's pool; an open
// job whose headcount shrinks to the accepted count flips to filled.
func (e *Engine) UpdateJob(ctx context.Context, principal domain.Principal, jobID string, in UpdateJobInput) (*domain.Job, []notification.Obligation, error) {
	if !principal.IsTenant() {
		return nil, nil, domain.ErrUnauthorized
	}
	if in.WorkersRequired <= 0 {
		return nil, nil, fmt.Errorf("workers required must be positive, got %d", in.WorkersRequired)
	}

	var (
		job         *domain.Job
		obligations []notification.Obligation
	)

	err := e.store.WithinTx(ctx, func(s Store) error {
		var err error
		job, err = s.GetJobForUpdate(ctx, jobID)
		if err != nil {
			return err
		}
		if job.UserCode != principal.UserCode {
			return domain.ErrJobNotFound
		}

		if err := s.UpdateJobFields(ctx, jobID, in.Title, in.Description, in.Location, in.WorkersRequired); err != nil {
			return err
		}
		job.Title = in.Title
		job.Description = in.Description
		job.Location = in.Location
		job.WorkersRequired = in.WorkersRequired

		wasFilled := job.Filled
		if filled := job.AtCapacity(); filled != job.Filled {
			if err := s.SetJobFilled(ctx, jobID, filled); err != nil {
				return err
			}
			job.Filled = filled
		}

		if wasFilled && !job.Filled {
			obligations, err = e.broadcastReopened(ctx, s, job)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	e.logger.Info("Job updated",
		slog.String("job_id", job.JobID),
		slog.Int("workers_required", job.WorkersRequired),
		slog.Bool("filled", job.Filled),
	)

	return job, obligations, nil
}

// InviteWorkers extends an existing job's invitation set with the given
// workers. Workers already invited or assigned are skipped; a worker under a
// different tenant fails the whole call.
func (e *Engine) InviteWorkers(ctx context.Context, principal domain.Principal, jobID string, workerIDs []string) (*domain.Job, []notification.Obligation, error) {
	if !principal.IsTenant() {
		return nil, nil, domain.ErrUnauthorized
	}

	var (
		job          *domain.Job
		obligations  []notification.Obligation
		invitedCount int
	)

	err := e.store.WithinTx(ctx, func(s Store) error {
		var err error
		job, err = s.GetJobForUpdate(ctx, jobID)
		if err != nil {
			return err
		}
		if job.UserCode != principal.UserCode {
			return domain.ErrJobNotFound
		}

		var invited []domain.Worker
		for _, workerID := range workerIDs {
			if job.HasWorker(workerID) || job.IsInvited(workerID) {
				continue
			}

			worker, err := s.GetWorker(ctx, workerID)
			if err != nil {
				return err
			}
			if worker.UserCode != job.UserCode {
				return domain.ErrWorkerNotFound
			}
			invited = append(invited, *worker)
		}
		if len(invited) == 0 {
			return nil
		}

		invitedIDs := make([]string, len(invited))
		for i := range invited {
			invitedIDs[i] = invited[i].WorkerID
		}
		if err := s.InsertInvitations(ctx, jobID, invitedIDs); err != nil {
			return err
		}
		job.InvitedWorkers = append(job.InvitedWorkers, invitedIDs...)

		for i := range invited {
			message := fmt.Sprintf("You have been invited to a new job: %s", job.Title)
			if err := s.AppendActivity(ctx, invited[i].WorkerID, message); err != nil {
				return err
			}
		}

		invitedCount = len(invited)
		obligations = notification.InviteFanout(job, invited)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	e.logger.Info("Workers invited to existing job",
		slog.String("job_id", job.JobID),
		slog.Int("invited_workers", invitedCount),
	)

	return job, obligations, nil
}

// AcceptJob records a worker's acceptance. Availability is re-validated at
// accept time; invitation-time membership is not trusted.
func (e *Engine) AcceptJob(ctx context.Context, workerID, jobID string) (*domain.Job, []notification.Obligation, error) {
	var (
		job         *domain.Job
		obligations []notification.Obligation
	)

	err := e.store.WithinTx(ctx, func(s Store) error {
		worker, err := s.GetWorker(ctx, workerID)
		if err != nil {
			return err
		}

		job, err = s.GetJobForUpdate(ctx, jobID)
		if err != nil {
			return err
		}

		if job.Filled {
			return domain.ErrJobAlreadyFilled
		}
		if !worker.AvailableFor(job.ShiftDate, job.Shift) {
			return domain.ErrAvailabilityMismatch
		}
		if job.HasWorker(workerID) {
			return domain.ErrAlreadyAccepted
		}

		// Drops the job from the worker's pending list; the job-side
		// invitation record stays.
		if err := s.MarkInvitationAccepted(ctx, jobID, workerID); err != nil {
			return err
		}
		if err := s.AddAssignment(ctx, jobID, workerID); err != nil {
			return err
		}
		job.Workers = append(job.Workers, workerID)

		if job.AtCapacity() {
			if err := s.SetJobFilled(ctx, jobID, true); err != nil {
				return err
			}
			job.Filled = true
		}

		tenant, err := s.GetTenant(ctx, job.UserCode)
		if err != nil {
			return err
		}

		data := notification.JobData(job)
		data.WorkerName = worker.Name
		obligations = notification.TenantNotice(tenant, notification.TemplateJobAccepted, data)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	e.logger.Info("Job accepted",
		slog.String("job_id", job.JobID),
		slog.String("worker_id", workerID),
		slog.Bool("filled", job.Filled),
	)

	return job, obligations, nil
}

// DeclineJob withdraws a worker's invitation from both sides of the
// relation. No availability check applies to a decline.
func (e *Engine) DeclineJob(ctx context.Context, workerID, jobID string) (*domain.Job, []notification.Obligation, error) {
	var (
		job         *domain.Job
		obligations []notification.Obligation
	)

	err := e.store.WithinTx(ctx, func(s Store) error {
		worker, err := s.GetWorker(ctx, workerID)
		if err != nil {
			return err
		}

		job, err = s.GetJobForUpdate(ctx, jobID)
		if err != nil {
			return err
		}

		if err := s.DeleteInvitation(ctx, jobID, workerID); err != nil {
			return err
		}
		job.InvitedWorkers = removeID(job.InvitedWorkers, workerID)

		// Declining never touches the accepted set, but reconcile the flag
		// anyway in case it ever disagrees with the headcount.
		if job.Filled && !job.AtCapacity() {
			if err := s.SetJobFilled(ctx, jobID, false); err != nil {
				return err
			}
			job.Filled = false
		}

		tenant, err := s.GetTenant(ctx, job.UserCode)
		if err != nil {
			return err
		}

		data := notification.JobData(job)
		data.WorkerName = worker.Name
		obligations = notification.TenantNotice(tenant, notification.TemplateJobDeclined, data)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	e.logger.Info("Job invitation declined",
		slog.String("job_id", job.JobID),
		slog.String("worker_id", workerID),
	)

	return job, obligations, nil
}

// RespondToInvitation is the consolidated accept-or-decline entry point.
// Both responses go through the full validation of the dedicated paths.
func (e *Engine) RespondToInvitation(ctx context.Context, workerID, jobID, response string) (*domain.Job, []notification.Obligation, error) {
	switch response {
	case "accept":
		return e.AcceptJob(ctx, workerID, jobID)
	case "decline":
		return e.DeclineJob(ctx, workerID, jobID)
	default:
		return nil, nil, fmt.Errorf("invalid invitation response %q, want accept or decline", response)
	}
}

// RemoveAcceptedJob withdraws a worker from a job they had accepted. A
// filled job dropping below capacity reopens and is re-announced to the
// tenant's entire worker pool.
func (e *Engine) RemoveAcceptedJob(ctx context.Context, workerID, jobID string) (*domain.Job, []notification.Obligation, error) {
	var (
		job         *domain.Job
		obligations []notification.Obligation
	)

	err := e.store.WithinTx(ctx, func(s Store) error {
		worker, err := s.GetWorker(ctx, workerID)
		if err != nil {
			return err
		}

		job, err = s.GetJobForUpdate(ctx, jobID)
		if err != nil {
			return err
		}
		if !job.HasWorker(workerID) {
			return domain.ErrNotAccepted
		}

		reopened, err := detachWorkerFromJob(ctx, s, job, workerID)
		if err != nil {
			return err
		}

		tenant, err := s.GetTenant(ctx, job.UserCode)
		if err != nil {
			return err
		}

		data := notification.JobData(job)
		data.WorkerName = worker.Name
		obligations = notification.TenantNotice(tenant, notification.TemplateWorkerRemoved, data)

		if reopened {
			broadcast, err := e.broadcastReopened(ctx, s, job)
			if err != nil {
				return err
			}
			obligations = append(obligations, broadcast...)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	e.logger.Info("Worker removed from job",
		slog.String("job_id", job.JobID),
		slog.String("worker_id", workerID),
		slog.Bool("filled", job.Filled),
	)

	return job, obligations, nil
}

// CancelShiftResult summarizes a shift cancellation cascade.
type CancelShiftResult struct {
	AffectedJobIDs []string
}

// CancelShift revokes one of the worker's availability slots and detaches
// the worker from every job scheduled on that slot, whether accepted or
// merely invited. The tenant is notified even when no job was affected.
func (e *Engine) CancelShift(ctx context.Context, workerID string, date time.Time, shift domain.Shift) (*CancelShiftResult, []notification.Obligation, error) {
	var (
		result      CancelShiftResult
		obligations []notification.Obligation
	)

	err := e.store.WithinTx(ctx, func(s Store) error {
		worker, err := s.GetWorker(ctx, workerID)
		if err != nil {
			return err
		}

		removed, err := s.RemoveAvailability(ctx, workerID, date, shift)
		if err != nil {
			return err
		}
		if !removed {
			return domain.ErrSlotNotFound
		}

		jobs, err := s.ListJobsReferencingWorker(ctx, workerID)
		if err != nil {
			return err
		}

		for i := range jobs {
			if !jobs[i].MatchesSlot(date, shift) {
				continue
			}

			job, err := s.GetJobForUpdate(ctx, jobs[i].JobID)
			if err != nil {
				return err
			}

			reopened, err := detachWorkerFromJob(ctx, s, job, workerID)
			if err != nil {
				return err
			}
			result.AffectedJobIDs = append(result.AffectedJobIDs, job.JobID)

			if reopened {
				broadcast, err := e.broadcastReopened(ctx, s, job)
				if err != nil {
					return err
				}
				obligations = append(obligations, broadcast...)
			}
		}

		message := fmt.Sprintf("Canceled shift on %s (%s) and was removed from %d jobs",
			date.UTC().Format(domain.DateLayout), shift, len(result.AffectedJobIDs))
		if err := s.AppendActivity(ctx, workerID, message); err != nil {
			return err
		}

		tenant, err := s.GetTenant(ctx, worker.UserCode)
		if err != nil {
			return err
		}

		data := notification.Data{
			Date:       date.UTC().Format(domain.DateLayout),
			Shift:      string(shift),
			WorkerName: worker.Name,
		}
		obligations = append(obligations, notification.TenantNotice(tenant, notification.TemplateShiftCanceled, data)...)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	e.logger.Info("Shift canceled",
		slog.String("worker_id", workerID),
		slog.String("date", date.UTC().Format(domain.DateLayout)),
		slog.String("shift", string(shift)),
		slog.Int("affected_jobs", len(result.AffectedJobIDs)),
	)

	return &result, obligations, nil
}

// DeleteWorker removes a worker owned by the calling tenant and strips every
// job reference first, applying the same reopening broadcast as a withdrawal.
// The tenant gets a single summary of the affected jobs.
func (e *Engine) DeleteWorker(ctx context.Context, principal domain.Principal, workerID string) ([]notification.AffectedJob, []notification.Obligation, error) {
	if !principal.IsTenant() {
		return nil, nil, domain.ErrUnauthorized
	}

	var (
		affected    []notification.AffectedJob
		obligations []notification.Obligation
	)

	err := e.store.WithinTx(ctx, func(s Store) error {
		worker, err := s.GetWorker(ctx, workerID)
		if err != nil {
			return err
		}
		if worker.UserCode != principal.UserCode {
			return domain.ErrWorkerNotFound
		}

		jobs, err := s.ListJobsReferencingWorker(ctx, workerID)
		if err != nil {
			return err
		}

		for i := range jobs {
			job, err := s.GetJobForUpdate(ctx, jobs[i].JobID)
			if err != nil {
				return err
			}

			reopened, err := detachWorkerFromJob(ctx, s, job, workerID)
			if err != nil {
				return err
			}

			affected = append(affected, notification.AffectedJob{
				Title: job.Title,
				Date:  job.ShiftDate.UTC().Format(domain.DateLayout),
				Shift: string(job.Shift),
			})

			if reopened {
				broadcast, err := e.broadcastReopened(ctx, s, job)
				if err != nil {
					return err
				}
				obligations = append(obligations, broadcast...)
			}
		}

		if err := s.DeleteWorker(ctx, workerID); err != nil {
			return err
		}

		tenant, err := s.GetTenant(ctx, worker.UserCode)
		if err != nil {
			return err
		}

		data := notification.Data{
			WorkerName:   worker.Name,
			AffectedJobs: affected,
		}
		obligations = append(obligations, notification.TenantNotice(tenant, notification.TemplateWorkerDeleted, data)...)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	e.logger.Info("Worker deleted",
		slog.String("worker_id", workerID),
		slog.Int("affected_jobs", len(affected)),
	)

	return affected, obligations, nil
}

// detachWorkerFromJob strips the worker from both the assignment and
// invitation sets, reconciles the capacity flag, and reports whether the
// job flipped from filled to open. Shared by withdrawal, shift
// cancellation, and the deletion cascade.
func detachWorkerFromJob(ctx context.Context, s Store, job *domain.Job, workerID string) (bool, error) {
	wasFilled := job.Filled

	if job.HasWorker(workerID) {
		if err := s.RemoveAssignment(ctx, job.JobID, workerID); err != nil {
			return false, err
		}
		job.Workers = removeID(job.Workers, workerID)
	}

	if err := s.DeleteInvitation(ctx, job.JobID, workerID); err != nil {
		return false, err
	}
	job.InvitedWorkers = removeID(job.InvitedWorkers, workerID)

	if filled := job.AtCapacity(); filled != job.Filled {
		if err := s.SetJobFilled(ctx, job.JobID, filled); err != nil {
			return false, err
		}
		job.Filled = filled
	}

	return wasFilled && !job.Filled, nil
}

// broadcastReopened builds the tenant-wide re-announcement for a job that
// just flipped from filled to open.
func (e *Engine) broadcastReopened(ctx context.Context, s Store, job *domain.Job) ([]notification.Obligation, error) {
	pool, err := s.ListWorkersByTenant(ctx, job.UserCode)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Job reopened, broadcasting availability",
		slog.String("job_id", job.JobID),
		slog.String("user_code", job.UserCode),
		slog.Int("pool_size", len(pool)),
	)

	return notification.AvailableBroadcast(job, pool), nil
}

func removeID(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
