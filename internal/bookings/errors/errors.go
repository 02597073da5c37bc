package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrHoldHeld means another request currently holds the advisory lock
	// for the same space.
	ErrHoldHeld = errors.New("space hold already held")

	// ErrStatusConflict means a conditional status update matched nothing:
	// the booking moved out of the expected status set concurrently.
	ErrStatusConflict = errors.New("booking status changed concurrently")
)
