package domain

import "time"

// Job is a shift-based posting owned by a tenant. Workers and InvitedWorkers
// are loaded alongside the row; the engine keeps them consistent with the
// assignment and invitation tables on every transition.
type Job struct {
	JobID           string    `db:"job_id"`
	UserCode        string    `db:"user_code"`
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	Location        string    `db:"location"`
	ShiftDate       time.Time `db:"shift_date"`
	Shift           Shift     `db:"shift"`
	WorkersRequired int       `db:"workers_required"`
	Filled          bool      `db:"filled"`
	CreatedAt       time.Time `db:"created_at"`

	// Workers holds ids of workers who accepted; InvitedWorkers holds ids of
	// workers ever invited, whether or not they have responded.
	Workers        []string `db:"-"`
	InvitedWorkers []string `db:"-"`
}

// HasWorker reports whether the worker has accepted this job.
func (j *Job) HasWorker(workerID string) bool {
	for _, id := range j.Workers {
		if id == workerID {
			return true
		}
	}
	return false
}

// IsInvited reports whether the worker appears in the invitation set.
func (j *Job) IsInvited(workerID string) bool {
	for _, id := range j.InvitedWorkers {
		if id == workerID {
			return true
		}
	}
	return false
}

// AtCapacity reports whether the accepted set meets the required headcount.
// Invariant: Filled must equal AtCapacity after every committed mutation.
func (j *Job) AtCapacity() bool {
	return len(j.Workers) >= j.WorkersRequired
}

// MatchesSlot reports whether the job is scheduled on the given date and shift.
func (j *Job) MatchesSlot(date time.Time, shift Shift) bool {
	return j.Shift == shift && SameDay(j.ShiftDate, date)
}
