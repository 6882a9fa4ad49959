package apierr

import (
	"errors"
	"fmt"
	"net/http"

	pkgerr "github.com/okothm/tutorledger-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromError maps the ledger error taxonomy onto HTTP statuses. Unknown errors
// come back as a 500 with code transaction_failed when they wrap a store abort,
// internal otherwise.
func FromError(err error) *Error {
	switch {
	case errors.Is(err, pkgerr.ErrUnauthorized):
		return New(http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, pkgerr.ErrForbidden):
		return New(http.StatusForbidden, "forbidden", err)
	case errors.Is(err, pkgerr.ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerr.ErrInvalidDate):
		return New(http.StatusUnprocessableEntity, "invalid_date", err)
	case errors.Is(err, pkgerr.ErrInvalidOutcome):
		return New(http.StatusUnprocessableEntity, "invalid_outcome", err)
	case errors.Is(err, pkgerr.ErrImmutableRecord):
		return New(http.StatusConflict, "immutable_record", err)
	case errors.Is(err, pkgerr.ErrClosedProgress):
		return New(http.StatusConflict, "closed_progress", err)
	case errors.Is(err, pkgerr.ErrConflict):
		return New(http.StatusConflict, "conflict", err)
	case errors.Is(err, pkgerr.ErrTransactionFailed):
		return New(http.StatusInternalServerError, "transaction_failed", err)
	default:
		return New(http.StatusInternalServerError, "internal", err)
	}
}
