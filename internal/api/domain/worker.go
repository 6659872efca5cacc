package domain

import "time"

// AvailabilitySlot is a (date, shift) pair a worker has declared themselves
// willing to work.
type AvailabilitySlot struct {
	Date  time.Time `db:"shift_date"`
	Shift Shift     `db:"shift"`
}

// Worker is a registered worker scoped to a tenant's user code.
type Worker struct {
	WorkerID  string    `db:"worker_id"`
	UserCode  string    `db:"user_code"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Approved  bool      `db:"approved"`
	PushToken string    `db:"push_token"`
	CreatedAt time.Time `db:"created_at"`

	Availability []AvailabilitySlot `db:"-"`
}

// AvailableFor reports whether the worker declared availability for the slot.
func (w *Worker) AvailableFor(date time.Time, shift Shift) bool {
	for _, slot := range w.Availability {
		if slot.Shift == shift && SameDay(slot.Date, date) {
			return true
		}
	}
	return false
}

// Activity is one entry in a worker's append-only activity log.
type Activity struct {
	WorkerID  string    `db:"worker_id"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

// Message is one entry in a worker's message feed, written when the owning
// tenant broadcasts to the pool.
type Message struct {
	WorkerID  string    `db:"worker_id"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}
