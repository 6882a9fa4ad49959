package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okothm/tutorledger-backend/internal/data/repos"
	"github.com/okothm/tutorledger-backend/internal/data/repos/testutil"
	types "github.com/okothm/tutorledger-backend/internal/domain"
	pkgerr "github.com/okothm/tutorledger-backend/internal/pkg/errors"
)

func TestPayrollMonthlySummary(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	svc := NewPayrollService(f.tx, log, repos.NewUserRepo(f.tx, log), repos.NewEntryRepo(f.tx, log))

	manager := testutil.SeedUser(t, ctx, f.tx, "mgr-pay@example.com", types.RoleManager)
	student := testutil.SeedUser(t, ctx, f.tx, "stu-pay@example.com", types.RoleStudent)
	teacher := testutil.SeedUser(t, ctx, f.tx, "tch-pay@example.com", types.RoleTeacher)
	otherTeacher := testutil.SeedUser(t, ctx, f.tx, "tch-pay2@example.com", types.RoleTeacher)
	mctx := actorCtx(manager.ID)

	// Two payable outcomes and one absence inside the period, one payable
	// outcome outside it.
	seed := []struct {
		day     time.Time
		outcome string
	}{
		{time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), types.OutcomePresent},
		{time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC), types.OutcomePermission},
		{time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC), types.OutcomeAbsent},
		{time.Date(2026, time.April, 6, 0, 0, 0, 0, time.UTC), types.OutcomePresent},
	}
	for _, s := range seed {
		if _, _, err := f.svc.RecordOutcome(mctx, RecordOutcomeInput{
			StudentID: student.ID,
			TeacherID: teacher.ID,
			SlotLabel: "09:00",
			Outcome:   s.outcome,
			Date:      s.day,
		}); err != nil {
			t.Fatalf("RecordOutcome %s: %v", s.day, err)
		}
	}

	summary, err := svc.MonthlySummary(mctx, teacher.ID, 2026, time.March)
	if err != nil {
		t.Fatalf("MonthlySummary: %v", err)
	}
	if summary.LearningCount != 2 {
		t.Fatalf("learning count: expected 2, got %d", summary.LearningCount)
	}
	if summary.PeriodYear != 2026 || summary.PeriodMonth != 3 {
		t.Fatalf("period echo: %+v", summary)
	}

	summary, err = svc.MonthlySummary(actorCtx(teacher.ID), teacher.ID, 2026, time.April)
	if err != nil {
		t.Fatalf("teacher self summary: %v", err)
	}
	if summary.LearningCount != 1 {
		t.Fatalf("april learning count: expected 1, got %d", summary.LearningCount)
	}

	if _, err := svc.MonthlySummary(actorCtx(otherTeacher.ID), teacher.ID, 2026, time.March); !errors.Is(err, pkgerr.ErrForbidden) {
		t.Fatalf("other teacher: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.MonthlySummary(mctx, teacher.ID, 1970, time.March); !errors.Is(err, pkgerr.ErrInvalidDate) {
		t.Fatalf("bad period: expected ErrInvalidDate, got %v", err)
	}
}
