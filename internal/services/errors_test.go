package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	pkgerr "github.com/okothm/tutorledger-backend/internal/pkg/errors"
)

func TestWrapTxErrKeepsTaxonomy(t *testing.T) {
	t.Parallel()

	if wrapTxErr(nil) != nil {
		t.Fatal("nil should stay nil")
	}

	wrapped := fmt.Errorf("%w: entry x", pkgerr.ErrImmutableRecord)
	if got := wrapTxErr(wrapped); got != wrapped {
		t.Fatalf("taxonomy error should pass through unchanged, got %v", got)
	}

	plain := errors.New("connection reset")
	got := wrapTxErr(plain)
	if !errors.Is(got, pkgerr.ErrTransactionFailed) {
		t.Fatalf("plain error should map to ErrTransactionFailed, got %v", got)
	}
}

func TestDateOnly(t *testing.T) {
	t.Parallel()

	in := time.Date(2026, time.May, 4, 23, 59, 59, 12345, time.FixedZone("X", 3*3600))
	got := dateOnly(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("time part not stripped: %v", got)
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", got.Location())
	}
	if got.Year() != 2026 || got.Month() != time.May || got.Day() != 4 {
		t.Fatalf("calendar day changed: %v", got)
	}
}
