package domain

import "errors"

var (
	// ErrNotFound marks an unknown dispute or scorecard. Aggregate reads omit
	// the affected row instead of failing.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks a request with missing or invalid input. Nothing is
	// written.
	ErrValidation = errors.New("validation failed")

	// ErrInconsistentState marks a committed ledger decision whose audit-row
	// sync failed. The ledger stays authoritative; the sync is retryable.
	ErrInconsistentState = errors.New("inconsistent state")
)
