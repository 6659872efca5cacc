package domain

import "errors"

var (
	// ErrJobNotFound is returned when a job cannot be found in the database
	ErrJobNotFound = errors.New("job not found")

	// ErrWorkerNotFound is returned when a worker cannot be found in the database
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrTenantNotFound is returned when a user code resolves to neither a user nor a company
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrUnauthorized is returned when the caller's principal is missing or of the wrong kind
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoWorkersFound is returned when a tenant creates a job but has no workers registered
	ErrNoWorkersFound = errors.New("no workers found for this user code")

	// ErrJobAlreadyFilled is returned when accepting a job that has reached capacity
	ErrJobAlreadyFilled = errors.New("job has already been filled")

	// ErrAvailabilityMismatch is returned when a worker accepts a job outside their availability
	ErrAvailabilityMismatch = errors.New("job does not match worker availability")

	// ErrAlreadyAccepted is returned when a worker accepts the same job twice
	ErrAlreadyAccepted = errors.New("job already accepted by this worker")

	// ErrNotAccepted is returned when a worker withdraws from a job they never accepted
	ErrNotAccepted = errors.New("job was not accepted by this worker")

	// ErrSlotNotFound is returned when canceling an availability slot the worker never declared
	ErrSlotNotFound = errors.New("shift not found in worker availability")

	// ErrWorkerExists is returned when registering a worker with an email already in use
	ErrWorkerExists = errors.New("worker already exists with this email")

	// ErrInvalidShift is returned for shift values other than AM or PM
	ErrInvalidShift = errors.New("invalid shift")
)
