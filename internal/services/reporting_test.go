package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/okothm/tutorledger-backend/internal/data/repos"
	"github.com/okothm/tutorledger-backend/internal/data/repos/testutil"
	types "github.com/okothm/tutorledger-backend/internal/domain"
	pkgerr "github.com/okothm/tutorledger-backend/internal/pkg/errors"
)

func newReportingFixture(t *testing.T) (*ledgerFixture, ReportingService) {
	f := newLedgerFixture(t)
	log := testutil.Logger(t)

	userRepo := repos.NewUserRepo(f.tx, log)
	grantRepo := repos.NewControllerGrantRepo(f.tx, log)

	svc := NewReportingService(
		f.tx, log, nil, userRepo, grantRepo,
		repos.NewEntryRepo(f.tx, log),
		repos.NewOpenProgressRepo(f.tx, log),
		repos.NewArchivedSnapshotRepo(f.tx, log),
		repos.NewAssignmentRepo(f.tx, log),
	)
	return f, svc
}

func TestListEntriesByOwner(t *testing.T) {
	f, svc := newReportingFixture(t)
	ctx := context.Background()

	manager := testutil.SeedUser(t, ctx, f.tx, "mgr-owner@example.com", types.RoleManager)
	student := testutil.SeedUser(t, ctx, f.tx, "stu-owner@example.com", types.RoleStudent)
	teacher := testutil.SeedUser(t, ctx, f.tx, "tch-owner@example.com", types.RoleTeacher)
	newTeacher := testutil.SeedUser(t, ctx, f.tx, "tch-owner2@example.com", types.RoleTeacher)
	mctx := actorCtx(manager.ID)

	_, progress, err := f.svc.RecordOutcome(mctx, RecordOutcomeInput{
		StudentID: student.ID,
		TeacherID: teacher.ID,
		SlotLabel: "09:00",
		Outcome:   types.OutcomePresent,
		Date:      time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}

	entries, err := svc.ListEntriesByOwner(mctx, OwnerKindOpenProgress, progress.ID)
	if err != nil || len(entries) != 1 {
		t.Fatalf("ListEntriesByOwner open: err=%v len=%d", err, len(entries))
	}

	result, err := f.svc.ReassignTeacher(mctx, ReassignTeacherInput{
		ProgressID:   progress.ID,
		NewTeacherID: newTeacher.ID,
	})
	if err != nil {
		t.Fatalf("ReassignTeacher: %v", err)
	}

	entries, err = svc.ListEntriesByOwner(mctx, OwnerKindArchivedSnapshot, result.Snapshot.ID)
	if err != nil || len(entries) != 1 {
		t.Fatalf("ListEntriesByOwner archived: err=%v len=%d", err, len(entries))
	}

	if _, err := svc.ListEntriesByOwner(mctx, OwnerKindOpenProgress, progress.ID); !errors.Is(err, pkgerr.ErrNotFound) {
		t.Fatalf("old aggregate should be unknown: got %v", err)
	}
	if _, err := svc.ListEntriesByOwner(mctx, "something_else", result.Snapshot.ID); !errors.Is(err, pkgerr.ErrNotFound) {
		t.Fatalf("unknown owner kind: got %v", err)
	}
}

func TestStudentMonthCalendar(t *testing.T) {
	f, svc := newReportingFixture(t)
	ctx := context.Background()

	manager := testutil.SeedUser(t, ctx, f.tx, "mgr-cal@example.com", types.RoleManager)
	student := testutil.SeedUser(t, ctx, f.tx, "stu-cal@example.com", types.RoleStudent)
	other := testutil.SeedUser(t, ctx, f.tx, "stu-cal-other@example.com", types.RoleStudent)
	teacher := testutil.SeedUser(t, ctx, f.tx, "tch-cal@example.com", types.RoleTeacher)
	mctx := actorCtx(manager.ID)

	for day := 1; day <= 3; day++ {
		outcome := types.OutcomePresent
		if day == 2 {
			outcome = types.OutcomeAbsent
		}
		if _, _, err := f.svc.RecordOutcome(mctx, RecordOutcomeInput{
			StudentID: student.ID,
			TeacherID: teacher.ID,
			SlotLabel: "09:00",
			Outcome:   outcome,
			Date:      time.Date(2026, time.August, day, 0, 0, 0, 0, time.UTC),
		}); err != nil {
			t.Fatalf("RecordOutcome day %d: %v", day, err)
		}
	}

	calendar, err := svc.StudentMonthCalendar(mctx, student.ID, 2026, time.August)
	if err != nil {
		t.Fatalf("StudentMonthCalendar: %v", err)
	}
	if len(calendar.Days) != 3 {
		t.Fatalf("calendar days: expected 3, got %d", len(calendar.Days))
	}
	if calendar.Days[1].Outcome != types.OutcomeAbsent {
		t.Fatalf("calendar order or outcome wrong: %+v", calendar.Days)
	}
	if calendar.Days[0].Archived {
		t.Fatalf("open entries should not be flagged archived")
	}

	// Students see only their own calendar.
	if _, err := svc.StudentMonthCalendar(actorCtx(other.ID), student.ID, 2026, time.August); !errors.Is(err, pkgerr.ErrForbidden) {
		t.Fatalf("other student: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.StudentMonthCalendar(actorCtx(student.ID), student.ID, 2026, time.August); err != nil {
		t.Fatalf("self calendar: %v", err)
	}
}

func TestSnapshotListsAuthorization(t *testing.T) {
	f, svc := newReportingFixture(t)
	ctx := context.Background()

	reporter := testutil.SeedUser(t, ctx, f.tx, "rep-snap@example.com", types.RoleReporter)
	teacher := testutil.SeedUser(t, ctx, f.tx, "tch-snap@example.com", types.RoleTeacher)
	otherTeacher := testutil.SeedUser(t, ctx, f.tx, "tch-snap2@example.com", types.RoleTeacher)

	snapshot := &types.ArchivedSnapshot{
		ID:                 uuid.New(),
		StudentID:          uuid.New(),
		TeacherID:          teacher.ID,
		LearningCount:      2,
		MissingCount:       0,
		TotalCount:         2,
		ScheduleStatus:     types.ScheduleClosed,
		PayoutStatus:       types.PayoutPaid,
		SlotLabel:          "09:00",
		OriginalProgressID: uuid.New(),
	}
	if err := f.tx.WithContext(ctx).Create(snapshot).Error; err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	rows, err := svc.ListSnapshotsByTeacher(actorCtx(reporter.ID), teacher.ID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("reporter list: err=%v len=%d", err, len(rows))
	}
	rows, err = svc.ListSnapshotsByTeacher(actorCtx(teacher.ID), teacher.ID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("teacher self list: err=%v len=%d", err, len(rows))
	}
	if _, err := svc.ListSnapshotsByTeacher(actorCtx(otherTeacher.ID), teacher.ID); !errors.Is(err, pkgerr.ErrForbidden) {
		t.Fatalf("other teacher: expected ErrForbidden, got %v", err)
	}
}
