package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/quackapp/staffing-be/internal/api/domain"
)

const workerColumns = `
	worker_id, user_code, name, email, phone, approved,
	COALESCE(push_token, '') AS push_token, created_at`

// uniqueViolation is the Postgres error code for duplicate key violations.
const uniqueViolation = "23505"

// workersEmailPerTenant is the unique constraint on workers (user_code, email).
const workersEmailPerTenant = "workers_email_per_tenant"

// isDuplicateWorkerEmail reports whether err is the unique violation raised
// when a tenant already has a worker under the same email. Other unique
// violations on the insert are not registration conflicts.
func isDuplicateWorkerEmail(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) &&
		pqErr.Code == uniqueViolation &&
		pqErr.Constraint == workersEmailPerTenant
}

func (s *Storage) GetWorker(ctx context.Context, workerID string) (*domain.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers WHERE worker_id = $1`

	var worker domain.Worker
	if err := sqlx.GetContext(ctx, s.q, &worker, query, workerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}

	availabilityQuery := `
		SELECT shift_date, shift FROM worker_availability
		WHERE worker_id = $1
		ORDER BY shift_date, shift
	`
	if err := sqlx.SelectContext(ctx, s.q, &worker.Availability, availabilityQuery, workerID); err != nil {
		return nil, fmt.Errorf("failed to load worker availability: %w", err)
	}

	return &worker, nil
}

// ListWorkersByTenant returns every worker under a user code, any approval
// status, with availability loaded in one batch.
func (s *Storage) ListWorkersByTenant(ctx context.Context, userCode string) ([]domain.Worker, error) {
	query := `
		SELECT ` + workerColumns + `
		FROM workers
		WHERE user_code = $1
		ORDER BY created_at, worker_id
	`

	var workers []domain.Worker
	if err := sqlx.SelectContext(ctx, s.q, &workers, query, userCode); err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	if len(workers) == 0 {
		return workers, nil
	}

	ids := make([]string, len(workers))
	index := make(map[string]*domain.Worker, len(workers))
	for i := range workers {
		ids[i] = workers[i].WorkerID
		index[workers[i].WorkerID] = &workers[i]
	}

	availabilityQuery, args, err := sqlx.In(`
		SELECT worker_id, shift_date, shift FROM worker_availability
		WHERE worker_id IN (?)
		ORDER BY shift_date, shift
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build availability query: %w", err)
	}
	availabilityQuery = s.q.Rebind(availabilityQuery)

	rows, err := s.q.QueryxContext(ctx, availabilityQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row struct {
			WorkerID  string       `db:"worker_id"`
			ShiftDate time.Time    `db:"shift_date"`
			Shift     domain.Shift `db:"shift"`
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("failed to scan availability row: %w", err)
		}
		if w, ok := index[row.WorkerID]; ok {
			w.Availability = append(w.Availability, domain.AvailabilitySlot{
				Date:  row.ShiftDate,
				Shift: row.Shift,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate availability rows: %w", err)
	}

	return workers, nil
}

// ListWorkers returns a tenant's workers filtered by approval status when
// approved is non-nil.
func (s *Storage) ListWorkers(ctx context.Context, userCode string, approved *bool) ([]domain.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers WHERE user_code = $1`
	args := []interface{}{userCode}

	if approved != nil {
		query += " AND approved = $2"
		args = append(args, *approved)
	}
	query += " ORDER BY created_at, worker_id"

	var workers []domain.Worker
	if err := sqlx.SelectContext(ctx, s.q, &workers, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	return workers, nil
}

func (s *Storage) CreateWorker(ctx context.Context, worker *domain.Worker) error {
	query := `
		INSERT INTO workers (
			worker_id, user_code, name, email, phone,
			approved, push_token, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, NULLIF($7, ''), $8
		)
	`

	_, err := s.q.ExecContext(
		ctx,
		query,
		worker.WorkerID,
		worker.UserCode,
		worker.Name,
		worker.Email,
		worker.Phone,
		worker.Approved,
		worker.PushToken,
		worker.CreatedAt,
	)
	if err != nil {
		if isDuplicateWorkerEmail(err) {
			return domain.ErrWorkerExists
		}
		return fmt.Errorf("failed to create worker: %w", err)
	}

	return nil
}

// DeleteWorker removes the worker row. Availability, activities, and any
// remaining job references cascade at the schema level.
func (s *Storage) DeleteWorker(ctx context.Context, workerID string) error {
	query := `DELETE FROM workers WHERE worker_id = $1`

	result, err := s.q.ExecContext(ctx, query, workerID)
	if err != nil {
		return fmt.Errorf("failed to delete worker: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrWorkerNotFound
	}
	return nil
}

func (s *Storage) SetWorkerApproved(ctx context.Context, workerID string, approved bool) error {
	query := `UPDATE workers SET approved = $2 WHERE worker_id = $1`

	result, err := s.q.ExecContext(ctx, query, workerID, approved)
	if err != nil {
		return fmt.Errorf("failed to set worker approved flag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrWorkerNotFound
	}
	return nil
}

func (s *Storage) AddAvailability(ctx context.Context, workerID string, date time.Time, shift domain.Shift) error {
	query := `
		INSERT INTO worker_availability (worker_id, shift_date, shift)
		VALUES ($1, $2, $3)
		ON CONFLICT (worker_id, shift_date, shift) DO NOTHING
	`

	if _, err := s.q.ExecContext(ctx, query, workerID, date, shift); err != nil {
		return fmt.Errorf("failed to add availability: %w", err)
	}
	return nil
}

// RemoveAvailability deletes a slot and reports whether it existed.
func (s *Storage) RemoveAvailability(ctx context.Context, workerID string, date time.Time, shift domain.Shift) (bool, error) {
	query := `
		DELETE FROM worker_availability
		WHERE worker_id = $1 AND shift_date = $2 AND shift = $3
	`

	result, err := s.q.ExecContext(ctx, query, workerID, date, shift)
	if err != nil {
		return false, fmt.Errorf("failed to remove availability: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (s *Storage) AppendActivity(ctx context.Context, workerID, message string) error {
	query := `
		INSERT INTO worker_activities (worker_id, message, created_at)
		VALUES ($1, $2, NOW())
	`

	if _, err := s.q.ExecContext(ctx, query, workerID, message); err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

// ListActivities returns the worker's activity log, newest first.
func (s *Storage) ListActivities(ctx context.Context, workerID string) ([]domain.Activity, error) {
	query := `
		SELECT worker_id, message, created_at FROM worker_activities
		WHERE worker_id = $1
		ORDER BY created_at DESC, activity_id DESC
	`

	var activities []domain.Activity
	if err := sqlx.SelectContext(ctx, s.q, &activities, query, workerID); err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

func (s *Storage) AppendMessage(ctx context.Context, workerID, body string) error {
	query := `
		INSERT INTO worker_messages (worker_id, body, created_at)
		VALUES ($1, $2, NOW())
	`

	if _, err := s.q.ExecContext(ctx, query, workerID, body); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// ListMessages returns the worker's message feed, newest first.
func (s *Storage) ListMessages(ctx context.Context, workerID string) ([]domain.Message, error) {
	query := `
		SELECT worker_id, body, created_at FROM worker_messages
		WHERE worker_id = $1
		ORDER BY created_at DESC, message_id DESC
	`

	var messages []domain.Message
	if err := sqlx.SelectContext(ctx, s.q, &messages, query, workerID); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
