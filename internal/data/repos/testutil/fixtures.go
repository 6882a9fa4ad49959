package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/okothm/tutorledger-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Day builds a calendar date the way ledger entries store them.
func Day(year int, month time.Month, day int) datatypes.Date {
	return datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, role string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		Role:      role,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedGrant(tb testing.TB, ctx context.Context, tx *gorm.DB, controllerID, studentID uuid.UUID) *types.ControllerGrant {
	tb.Helper()
	g := &types.ControllerGrant{
		ID:           uuid.New(),
		ControllerID: controllerID,
		StudentID:    studentID,
		GrantedAt:    time.Now(),
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed grant: %v", err)
	}
	return g
}

func SeedOpenProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, studentID, teacherID uuid.UUID) *types.OpenProgress {
	tb.Helper()
	p := &types.OpenProgress{
		ID:             uuid.New(),
		StudentID:      studentID,
		TeacherID:      teacherID,
		ScheduleStatus: types.ScheduleOpen,
		PayoutStatus:   types.PayoutPending,
		SlotLabel:      "09:00",
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed open progress: %v", err)
	}
	return p
}

func SeedEntry(tb testing.TB, ctx context.Context, tx *gorm.DB, p *types.OpenProgress, date datatypes.Date, outcome string) *types.LedgerEntry {
	tb.Helper()
	e := &types.LedgerEntry{
		ID:             uuid.New(),
		StudentID:      p.StudentID,
		TeacherID:      p.TeacherID,
		Date:           date,
		SlotLabel:      p.SlotLabel,
		Outcome:        outcome,
		StudentAck:     types.AckUnset,
		OpenProgressID: &p.ID,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed entry: %v", err)
	}
	return e
}

func SeedAssignment(tb testing.TB, ctx context.Context, tx *gorm.DB, studentID, teacherID uuid.UUID) *types.Assignment {
	tb.Helper()
	a := &types.Assignment{
		ID:              uuid.New(),
		StudentID:       studentID,
		TeacherID:       teacherID,
		SlotLabel:       "09:00",
		DurationMinutes: 60,
		MeetingLink:     "https://meet.example/x",
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed assignment: %v", err)
	}
	return a
}
