package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/quackapp/staffing-be/internal/api/domain"
)

const jobColumns = `
	job_id, user_code, title, description, location,
	shift_date, shift, workers_required, filled, created_at`

// jobColumnsQualified disambiguates the job columns in joined queries.
const jobColumnsQualified = `
	j.job_id, j.user_code, j.title, j.description, j.location,
	j.shift_date, j.shift, j.workers_required, j.filled, j.created_at`

func (s *Storage) CreateJob(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (
			job_id, user_code, title, description, location,
			shift_date, shift, workers_required, filled, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10
		)
	`

	_, err := s.q.ExecContext(
		ctx,
		query,
		job.JobID,
		job.UserCode,
		job.Title,
		job.Description,
		job.Location,
		job.ShiftDate,
		job.Shift,
		job.WorkersRequired,
		job.Filled,
		job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

func (s *Storage) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	return s.getJob(ctx, jobID, false)
}

// GetJobForUpdate locks the job row for the remainder of the transaction so
// concurrent accepts serialize on the capacity check.
func (s *Storage) GetJobForUpdate(ctx context.Context, jobID string) (*domain.Job, error) {
	return s.getJob(ctx, jobID, true)
}

func (s *Storage) getJob(ctx context.Context, jobID string, forUpdate bool) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE job_id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var job domain.Job
	if err := sqlx.GetContext(ctx, s.q, &job, query, jobID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if err := s.loadJobSets(ctx, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// loadJobSets fills the accepted and invited worker id sets for a job row.
func (s *Storage) loadJobSets(ctx context.Context, job *domain.Job) error {
	workersQuery := `
		SELECT worker_id FROM job_assignments
		WHERE job_id = $1
		ORDER BY accepted_at
	`
	if err := sqlx.SelectContext(ctx, s.q, &job.Workers, workersQuery, job.JobID); err != nil {
		return fmt.Errorf("failed to load job assignments: %w", err)
	}

	invitedQuery := `
		SELECT worker_id FROM job_invitations
		WHERE job_id = $1
		ORDER BY invited_at
	`
	if err := sqlx.SelectContext(ctx, s.q, &job.InvitedWorkers, invitedQuery, job.JobID); err != nil {
		return fmt.Errorf("failed to load job invitations: %w", err)
	}

	return nil
}

func (s *Storage) SetJobFilled(ctx context.Context, jobID string, filled bool) error {
	query := `UPDATE jobs SET filled = $2 WHERE job_id = $1`

	if _, err := s.q.ExecContext(ctx, query, jobID, filled); err != nil {
		return fmt.Errorf("failed to set job filled flag: %w", err)
	}
	return nil
}

// UpdateJobFields updates the tenant-editable job attributes.
func (s *Storage) UpdateJobFields(ctx context.Context, jobID, title, description, location string, workersRequired int) error {
	query := `
		UPDATE jobs
		SET title = $2,
		    description = $3,
		    location = $4,
		    workers_required = $5
		WHERE job_id = $1
	`

	result, err := s.q.ExecContext(ctx, query, jobID, title, description, location, workersRequired)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// DeleteJob removes a job owned by the given tenant. A job under a different
// user code is indistinguishable from a missing one.
func (s *Storage) DeleteJob(ctx context.Context, jobID, userCode string) error {
	query := `DELETE FROM jobs WHERE job_id = $1 AND user_code = $2`

	result, err := s.q.ExecContext(ctx, query, jobID, userCode)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (s *Storage) AddAssignment(ctx context.Context, jobID, workerID string) error {
	query := `
		INSERT INTO job_assignments (job_id, worker_id, accepted_at)
		VALUES ($1, $2, NOW())
	`

	if _, err := s.q.ExecContext(ctx, query, jobID, workerID); err != nil {
		return fmt.Errorf("failed to add assignment: %w", err)
	}
	return nil
}

func (s *Storage) RemoveAssignment(ctx context.Context, jobID, workerID string) error {
	query := `DELETE FROM job_assignments WHERE job_id = $1 AND worker_id = $2`

	if _, err := s.q.ExecContext(ctx, query, jobID, workerID); err != nil {
		return fmt.Errorf("failed to remove assignment: %w", err)
	}
	return nil
}

func (s *Storage) InsertInvitations(ctx context.Context, jobID string, workerIDs []string) error {
	query := `
		INSERT INTO job_invitations (job_id, worker_id, status, invited_at)
		VALUES ($1, $2, 'pending', NOW())
		ON CONFLICT (job_id, worker_id) DO NOTHING
	`

	for _, workerID := range workerIDs {
		if _, err := s.q.ExecContext(ctx, query, jobID, workerID); err != nil {
			return fmt.Errorf("failed to insert invitation: %w", err)
		}
	}
	return nil
}

// MarkInvitationAccepted flips the invitation out of the worker's pending
// list while keeping the job-side record. Accepting without an invitation
// row is allowed, so a zero-row update is not an error.
func (s *Storage) MarkInvitationAccepted(ctx context.Context, jobID, workerID string) error {
	query := `
		UPDATE job_invitations
		SET status = 'accepted'
		WHERE job_id = $1 AND worker_id = $2
	`

	if _, err := s.q.ExecContext(ctx, query, jobID, workerID); err != nil {
		return fmt.Errorf("failed to mark invitation accepted: %w", err)
	}
	return nil
}

func (s *Storage) DeleteInvitation(ctx context.Context, jobID, workerID string) error {
	query := `DELETE FROM job_invitations WHERE job_id = $1 AND worker_id = $2`

	if _, err := s.q.ExecContext(ctx, query, jobID, workerID); err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}
	return nil
}

// ListJobsReferencingWorker returns every job holding the worker in its
// assignment or invitation sets, with both sets loaded.
func (s *Storage) ListJobsReferencingWorker(ctx context.Context, workerID string) ([]domain.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE job_id IN (
			SELECT job_id FROM job_assignments WHERE worker_id = $1
			UNION
			SELECT job_id FROM job_invitations WHERE worker_id = $1
		)
		ORDER BY created_at DESC, job_id DESC
	`

	var jobs []domain.Job
	if err := sqlx.SelectContext(ctx, s.q, &jobs, query, workerID); err != nil {
		return nil, fmt.Errorf("failed to list jobs referencing worker: %w", err)
	}

	for i := range jobs {
		if err := s.loadJobSets(ctx, &jobs[i]); err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

type JobFilter struct {
	UserCode string
	Shift    string
	Filled   *bool
	PageSize int
	Cursor   *JobCursor
}

type JobCursor struct {
	CreatedAt time.Time
	JobID     string
}

// ListJobsByTenant pages through a tenant's jobs, newest first. Fetches one
// row beyond PageSize so the caller can detect more results.
func (s *Storage) ListJobsByTenant(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE user_code = $1`
	args := []interface{}{filter.UserCode}
	argIdx := 2

	if filter.Shift != "" {
		query += fmt.Sprintf(" AND shift = $%d", argIdx)
		args = append(args, filter.Shift)
		argIdx++
	}

	if filter.Filled != nil {
		query += fmt.Sprintf(" AND filled = $%d", argIdx)
		args = append(args, *filter.Filled)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (created_at, job_id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.JobID)
		argIdx += 2
	}

	// Order by created_at DESC, job_id DESC for consistent pagination
	query += " ORDER BY created_at DESC, job_id DESC"
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	var jobs []domain.Job
	if err := sqlx.SelectContext(ctx, s.q, &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	for i := range jobs {
		if err := s.loadJobSets(ctx, &jobs[i]); err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

// ListInvitedJobs returns the worker's open invitations: jobs still pending
// a response and not yet accepted by this worker.
func (s *Storage) ListInvitedJobs(ctx context.Context, workerID string) ([]domain.Job, error) {
	query := `
		SELECT ` + jobColumnsQualified + `
		FROM jobs j
		JOIN job_invitations i ON i.job_id = j.job_id
		WHERE i.worker_id = $1
		  AND i.status = 'pending'
		  AND NOT EXISTS (
			SELECT 1 FROM job_assignments a
			WHERE a.job_id = j.job_id AND a.worker_id = $1
		  )
		ORDER BY j.shift_date, j.shift
	`

	var jobs []domain.Job
	if err := sqlx.SelectContext(ctx, s.q, &jobs, query, workerID); err != nil {
		return nil, fmt.Errorf("failed to list invited jobs: %w", err)
	}
	return jobs, nil
}

// ListAcceptedJobs returns the jobs the worker has accepted.
func (s *Storage) ListAcceptedJobs(ctx context.Context, workerID string) ([]domain.Job, error) {
	query := `
		SELECT ` + jobColumnsQualified + `
		FROM jobs j
		JOIN job_assignments a ON a.job_id = j.job_id
		WHERE a.worker_id = $1
		ORDER BY j.shift_date, j.shift
	`

	var jobs []domain.Job
	if err := sqlx.SelectContext(ctx, s.q, &jobs, query, workerID); err != nil {
		return nil, fmt.Errorf("failed to list accepted jobs: %w", err)
	}
	return jobs, nil
}

// ListAssignedWorkers returns the workers who accepted a job.
func (s *Storage) ListAssignedWorkers(ctx context.Context, jobID string) ([]domain.Worker, error) {
	query := `
		SELECT w.worker_id, w.user_code, w.name, w.email, w.phone, w.approved,
		       COALESCE(w.push_token, '') AS push_token, w.created_at
		FROM workers w
		JOIN job_assignments a ON a.worker_id = w.worker_id
		WHERE a.job_id = $1
		ORDER BY a.accepted_at
	`

	var workers []domain.Worker
	if err := sqlx.SelectContext(ctx, s.q, &workers, query, jobID); err != nil {
		return nil, fmt.Errorf("failed to list assigned workers: %w", err)
	}
	return workers, nil
}
