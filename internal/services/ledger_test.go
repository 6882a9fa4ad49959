package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/okothm/tutorledger-backend/internal/data/repos"
	"github.com/okothm/tutorledger-backend/internal/data/repos/testutil"
	types "github.com/okothm/tutorledger-backend/internal/domain"
	"github.com/okothm/tutorledger-backend/internal/pkg/ctxutil"
	pkgerr "github.com/okothm/tutorledger-backend/internal/pkg/errors"
)

type ledgerFixture struct {
	tx           *gorm.DB
	svc          LedgerService
	entryRepo    repos.EntryRepo
	progressRepo repos.OpenProgressRepo
	snapshotRepo repos.ArchivedSnapshotRepo
	assignRepo   repos.AssignmentRepo
}

// Services built over the test transaction nest their own transactions as
// savepoints, so the cleanup rollback still wipes everything.
func newLedgerFixture(t *testing.T) *ledgerFixture {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)

	userRepo := repos.NewUserRepo(tx, log)
	grantRepo := repos.NewControllerGrantRepo(tx, log)
	entryRepo := repos.NewEntryRepo(tx, log)
	progressRepo := repos.NewOpenProgressRepo(tx, log)
	snapshotRepo := repos.NewArchivedSnapshotRepo(tx, log)
	assignRepo := repos.NewAssignmentRepo(tx, log)

	svc := NewLedgerService(tx, log, userRepo, grantRepo, entryRepo, progressRepo, snapshotRepo, assignRepo)
	return &ledgerFixture{
		tx:           tx,
		svc:          svc,
		entryRepo:    entryRepo,
		progressRepo: progressRepo,
		snapshotRepo: snapshotRepo,
		assignRepo:   assignRepo,
	}
}

func actorCtx(userID uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID})
}

func TestRecordOutcomeCreatesAggregate(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	manager := testutil.SeedUser(t, ctx, f.tx, "mgr-record@example.com", types.RoleManager)
	student := testutil.SeedUser(t, ctx, f.tx, "stu-record@example.com", types.RoleStudent)
	teacher := testutil.SeedUser(t, ctx, f.tx, "tch-record@example.com", types.RoleTeacher)

	mctx := actorCtx(manager.ID)
	entry, progress, err := f.svc.RecordOutcome(mctx, RecordOutcomeInput{
		StudentID: student.ID,
		TeacherID: teacher.ID,
		SlotLabel: "09:00",
		Outcome:   types.OutcomePresent,
		Date:      time.Date(2026, time.May, 4, 15, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}
	if entry.OpenProgressID == nil || *entry.OpenProgressID != progress.ID {
		t.Fatalf("entry not owned by the open aggregate: %+v", entry)
	}
	if entry.StudentAck != types.AckUnset {
		t.Fatalf("new entry should start unacknowledged, got %q", entry.StudentAck)
	}
	if progress.LearningCount != 1 || progress.MissingCount != 0 {
		t.Fatalf("counters after present: %d/%d", progress.LearningCount, progress.MissingCount)
	}

	// Second outcome on another day reuses the same aggregate.
	_, progress2, err := f.svc.RecordOutcome(mctx, RecordOutcomeInput{
		StudentID: student.ID,
		TeacherID: teacher.ID,
		SlotLabel: "09:00",
		Outcome:   types.OutcomeAbsent,
		Date:      time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("RecordOutcome absent: %v", err)
	}
	if progress2.ID != progress.ID {
		t.Fatalf("expected aggregate reuse, got %s and %s", progress.ID, progress2.ID)
	}
	if progress2.LearningCount != 1 || progress2.MissingCount != 1 {
		t.Fatalf("counters after absent: %d/%d", progress2.LearningCount, progress2.MissingCount)
	}
}

func TestRecordOutcomeValidation(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	manager := testutil.SeedUser(t, ctx, f.tx, "mgr-valid@example.com", types.RoleManager)
	mctx := actorCtx(manager.ID)

	_, _, err := f.svc.RecordOutcome(mctx, RecordOutcomeInput{
		StudentID: uuid.New(),
		TeacherID: uuid.New(),
		Outcome:   "late",
		Date:      time.Now(),
	})
	if !errors.Is(err, pkgerr.ErrInvalidOutcome) {
		t.Fatalf("expected ErrInvalidOutcome, got %v", err)
	}

	_, _, err = f.svc.RecordOutcome(mctx, RecordOutcomeInput{
		StudentID: uuid.New(),
		TeacherID: uuid.New(),
		Outcome:   types.OutcomePresent,
		Date:      time.Now().AddDate(0, 0, 2),
	})
	if !errors.Is(err, pkgerr.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestRecordOutcomeDuplicateDayConflicts(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	manager := testutil.SeedUser(t, ctx, f.tx, "mgr-dup@example.com", types.RoleManager)
	student := testutil.SeedUser(t, ctx, f.tx, "stu-dup@example.com", types.RoleStudent)
	teacher := testutil.SeedUser(t, ctx, f.tx, "tch-dup@example.com", types.RoleTeacher)
	mctx := actorCtx(manager.ID)

	in := RecordOutcomeInput{
		StudentID: student.ID,
		TeacherID: teacher.ID,
		SlotLabel: "09:00",
		Outcome:   types.OutcomePresent,
		Date:      time.Date(2026, time.May, 11, 0, 0, 0, 0, time.UTC),
	}
	if _, _, err := f.svc.RecordOutcome(mctx, in); err != nil {
		t.Fatalf("first RecordOutcome: %v", err)
	}
	in.Outcome = types.OutcomeAbsent
	_, _, err := f.svc.RecordOutcome(mctx, in)
	if !errors.Is(err, pkgerr.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate day, got %v", err)
	}
}

func TestRecordOutcomeAuthorization(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	controller := testutil.SeedUser(t, ctx, f.tx, "ctl-auth@example.com", types.RoleController)
	student := testutil.SeedUser(t, ctx, f.tx, "stu-auth@example.com", types.RoleStudent)
	teacherUser := testutil.SeedUser(t, ctx, f.tx, "tch-auth@example.com", types.RoleTeacher)

	in := RecordOutcomeInput{
		StudentID: student.ID,
		TeacherID: teacherUser.ID,
		SlotLabel: "10:00",
		Outcome:   types.OutcomePresent,
		Date:      time.Date(2026, time.May, 6, 0, 0, 0, 0, time.UTC),
	}

	if _, _, err := f.svc.RecordOutcome(actorCtx(controller.ID), in); !errors.Is(err, pkgerr.ErrForbidden) {
		t.Fatalf("controller without grant: expected ErrForbidden, got %v", err)
	}
	if _, _, err := f.svc.RecordOutcome(actorCtx(teacherUser.ID), in); !errors.Is(err, pkgerr.ErrForbidden) {
		t.Fatalf("teacher role: expected ErrForbidden, got %v", err)
	}
	if _, _, err := f.svc.RecordOutcome(actorCtx(uuid.New()), in); !errors.Is(err, pkgerr.ErrUnauthorized) {
		t.Fatalf("unknown actor: expected ErrUnauthorized, got %v", err)
	}

	testutil.SeedGrant(t, ctx, f.tx, controller.ID, student.ID)
	if _, _, err := f.svc.RecordOutcome(actorCtx(controller.ID), in); err != nil {
		t.Fatalf("controller with grant: %v", err)
	}
}

func TestRetractOutcome(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	manager := testutil.SeedUser(t, ctx, f.tx, "mgr-retract@example.com", types.RoleManager)
	student := testutil.SeedUser(t, ctx, f.tx, "stu-retract@example.com", types.RoleStudent)
	teacher := testutil.SeedUser(t, ctx, f.tx, "tch-retract@example.com", types.RoleTeacher)
	mctx := actorCtx(manager.ID)

	entry, progress, err := f.svc.RecordOutcome(mctx, RecordOutcomeInput{
		StudentID: student.ID,
		TeacherID: teacher.ID,
		SlotLabel: "09:00",
		Outcome:   types.OutcomePermission,
		Date:      time.Date(2026, time.May, 7, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}

	if err := f.svc.RetractOutcome(mctx, entry.ID); err != nil {
		t.Fatalf("RetractOutcome: %v", err)
	}

	after, err := f.progressRepo.GetByID(ctx, f.tx, progress.ID)
	if err != nil || after == nil {
		t.Fatalf("aggregate lookup after retract: err=%v row=%+v", err, after)
	}
	if after.LearningCount != 0 || after.MissingCount != 0 {
		t.Fatalf("counters after retract: %d/%d", after.LearningCount, after.MissingCount)
	}

	// The entry is gone, so a second retraction cannot find it.
	if err := f.svc.RetractOutcome(mctx, entry.ID); !errors.Is(err, pkgerr.ErrNotFound) {
		t.Fatalf("double retract: expected ErrNotFound, got %v", err)
	}
}

func TestAcknowledgeEntry(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	manager := testutil.SeedUser(t, ctx, f.tx, "mgr-ack@example.com", types.RoleManager)
	student := testutil.SeedUser(t, ctx, f.tx, "stu-ack@example.com", types.RoleStudent)
	other := testutil.SeedUser(t, ctx, f.tx, "stu-ack-other@example.com", types.RoleStudent)
	teacher := testutil.SeedUser(t, ctx, f.tx, "tch-ack@example.com", types.RoleTeacher)

	entry, _, err := f.svc.RecordOutcome(actorCtx(manager.ID), RecordOutcomeInput{
		StudentID: student.ID,
		TeacherID: teacher.ID,
		SlotLabel: "09:00",
		Outcome:   types.OutcomePresent,
		Date:      time.Date(2026, time.May, 8, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}

	if _, err := f.svc.AcknowledgeEntry(actorCtx(other.ID), entry.ID, true); !errors.Is(err, pkgerr.ErrForbidden) {
		t.Fatalf("other student: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.AcknowledgeEntry(actorCtx(manager.ID), entry.ID, true); !errors.Is(err, pkgerr.ErrForbidden) {
		t.Fatalf("manager: expected ErrForbidden, got %v", err)
	}

	acked, err := f.svc.AcknowledgeEntry(actorCtx(student.ID), entry.ID, true)
	if err != nil || acked.StudentAck != types.AckApproved {
		t.Fatalf("approve: err=%v ack=%q", err, acked.StudentAck)
	}

	// A later call simply overwrites the flag.
	acked, err = f.svc.AcknowledgeEntry(actorCtx(student.ID), entry.ID, false)
	if err != nil || acked.StudentAck != types.AckRejected {
		t.Fatalf("reject after approve: err=%v ack=%q", err, acked.StudentAck)
	}
}

func TestReassignTeacher(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	manager := testutil.SeedUser(t, ctx, f.tx, "mgr-reassign@example.com", types.RoleManager)
	student := testutil.SeedUser(t, ctx, f.tx, "stu-reassign@example.com", types.RoleStudent)
	oldTeacher := testutil.SeedUser(t, ctx, f.tx, "tch-old@example.com", types.RoleTeacher)
	newTeacher := testutil.SeedUser(t, ctx, f.tx, "tch-new@example.com", types.RoleTeacher)
	mctx := actorCtx(manager.ID)

	oldAssignment := testutil.SeedAssignment(t, ctx, f.tx, student.ID, oldTeacher.ID)

	entry1, progress, err := f.svc.RecordOutcome(mctx, RecordOutcomeInput{
		StudentID: student.ID,
		TeacherID: oldTeacher.ID,
		SlotLabel: "09:00",
		Outcome:   types.OutcomePresent,
		Date:      time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("RecordOutcome 1: %v", err)
	}
	if _, _, err := f.svc.RecordOutcome(mctx, RecordOutcomeInput{
		StudentID: student.ID,
		TeacherID: oldTeacher.ID,
		SlotLabel: "09:00",
		Outcome:   types.OutcomeAbsent,
		Date:      time.Date(2026, time.June, 2, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("RecordOutcome 2: %v", err)
	}

	newDuration := 45
	result, err := f.svc.ReassignTeacher(mctx, ReassignTeacherInput{
		ProgressID:         progress.ID,
		NewTeacherID:       newTeacher.ID,
		NewDurationMinutes: &newDuration,
	})
	if err != nil {
		t.Fatalf("ReassignTeacher: %v", err)
	}

	snap := result.Snapshot
	if snap.TeacherID != oldTeacher.ID || snap.LearningCount != 1 || snap.MissingCount != 1 || snap.TotalCount != 2 {
		t.Fatalf("snapshot fields: %+v", snap)
	}
	if snap.OriginalProgressID != progress.ID {
		t.Fatalf("snapshot does not reference the closed aggregate")
	}
	if snap.ScheduleStatus != types.ScheduleClosed {
		t.Fatalf("snapshot schedule status: %q", snap.ScheduleStatus)
	}

	// History moved wholesale onto the snapshot.
	archived, err := f.entryRepo.GetBySnapshotIDs(ctx, f.tx, []uuid.UUID{snap.ID})
	if err != nil || len(archived) != 2 {
		t.Fatalf("archived entries: err=%v len=%d", err, len(archived))
	}
	movedEntry, err := f.entryRepo.GetByID(ctx, f.tx, entry1.ID)
	if err != nil || movedEntry == nil {
		t.Fatalf("moved entry lookup: err=%v", err)
	}
	if movedEntry.OpenProgressID != nil || movedEntry.ArchivedSnapshotID == nil {
		t.Fatalf("entry identity kept but ownership not moved: %+v", movedEntry)
	}

	// Old aggregate is gone; the replacement starts from zero.
	if old, err := f.progressRepo.GetByID(ctx, f.tx, progress.ID); err != nil || old != nil {
		t.Fatalf("old aggregate should be deleted: err=%v row=%+v", err, old)
	}
	np := result.NewProgress
	if np.TeacherID != newTeacher.ID || np.LearningCount != 0 || np.MissingCount != 0 {
		t.Fatalf("new aggregate: %+v", np)
	}
	if np.PayoutStatus != types.PayoutPending || np.ScheduleStatus != types.ScheduleOpen {
		t.Fatalf("new aggregate statuses: %+v", np)
	}

	// Assignment replaced: explicit duration wins, the rest carries over.
	na := result.NewAssignment
	if na.TeacherID != newTeacher.ID || na.DurationMinutes != 45 {
		t.Fatalf("new assignment: %+v", na)
	}
	if na.SlotLabel != oldAssignment.SlotLabel || na.MeetingLink != oldAssignment.MeetingLink {
		t.Fatalf("new assignment should inherit old fields: %+v", na)
	}
	if old, err := f.assignRepo.GetByPair(ctx, f.tx, student.ID, oldTeacher.ID); err != nil || old != nil {
		t.Fatalf("old assignment should be deleted: err=%v row=%+v", err, old)
	}

	// Archived history is immutable from here on.
	if err := f.svc.RetractOutcome(mctx, entry1.ID); !errors.Is(err, pkgerr.ErrImmutableRecord) {
		t.Fatalf("retract archived: expected ErrImmutableRecord, got %v", err)
	}
	if _, err := f.svc.AcknowledgeEntry(actorCtx(student.ID), entry1.ID, true); !errors.Is(err, pkgerr.ErrImmutableRecord) {
		t.Fatalf("acknowledge archived: expected ErrImmutableRecord, got %v", err)
	}
}

func TestReassignTeacherPreconditions(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	manager := testutil.SeedUser(t, ctx, f.tx, "mgr-precond@example.com", types.RoleManager)
	student := testutil.SeedUser(t, ctx, f.tx, "stu-precond@example.com", types.RoleStudent)
	teacher := testutil.SeedUser(t, ctx, f.tx, "tch-precond@example.com", types.RoleTeacher)
	mctx := actorCtx(manager.ID)

	progress := testutil.SeedOpenProgress(t, ctx, f.tx, student.ID, teacher.ID)

	if _, err := f.svc.ReassignTeacher(mctx, ReassignTeacherInput{
		ProgressID:   uuid.New(),
		NewTeacherID: teacher.ID,
	}); !errors.Is(err, pkgerr.ErrNotFound) {
		t.Fatalf("unknown progress: expected ErrNotFound, got %v", err)
	}

	if _, err := f.svc.ReassignTeacher(mctx, ReassignTeacherInput{
		ProgressID:   progress.ID,
		NewTeacherID: uuid.New(),
	}); !errors.Is(err, pkgerr.ErrNotFound) {
		t.Fatalf("unknown teacher: expected ErrNotFound, got %v", err)
	}

	if _, err := f.svc.ReassignTeacher(actorCtx(teacher.ID), ReassignTeacherInput{
		ProgressID:   progress.ID,
		NewTeacherID: teacher.ID,
	}); !errors.Is(err, pkgerr.ErrForbidden) {
		t.Fatalf("teacher actor: expected ErrForbidden, got %v", err)
	}
}
