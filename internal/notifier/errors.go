package notifier

import "errors"

var (
	// ErrUnknownChannel is returned when an obligation names a channel the
	// notifier cannot deliver over
	ErrUnknownChannel = errors.New("unknown delivery channel")

	// ErrUnknownTemplate is returned when an obligation names a template the
	// notifier cannot render
	ErrUnknownTemplate = errors.New("unknown notification template")

	// ErrMissingAddress is returned when the recipient carries no address for
	// the requested channel
	ErrMissingAddress = errors.New("recipient has no address for channel")
)

// RetryableError wraps transient delivery errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
