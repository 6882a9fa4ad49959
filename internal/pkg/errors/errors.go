package errors

import "errors"

var (
	// ErrUnauthorized means no authenticated actor was presented.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the actor lacks role or roster rights for the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidDate rejects ledger entries dated in the future.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidOutcome rejects outcomes outside the known enum.
	ErrInvalidOutcome = errors.New("invalid outcome")
	// ErrImmutableRecord rejects mutation of archived data.
	ErrImmutableRecord = errors.New("immutable record")
	// ErrClosedProgress rejects mutation of a non-open aggregate.
	ErrClosedProgress = errors.New("closed progress")
	// ErrConflict surfaces store-level unique constraint violations.
	ErrConflict = errors.New("conflict")
	// ErrTransactionFailed wraps store-level transaction aborts.
	ErrTransactionFailed = errors.New("transaction failed")
)
