package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okothm/tutorledger-backend/internal/data/db"
	"github.com/okothm/tutorledger-backend/internal/data/repos/testutil"
	types "github.com/okothm/tutorledger-backend/internal/domain"
)

func TestEntryRepo(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)

	ctx := context.Background()
	repo := NewEntryRepo(gdb, testutil.Logger(t))

	student := uuid.New()
	teacher := uuid.New()
	progress := testutil.SeedOpenProgress(t, ctx, tx, student, teacher)

	first := &types.LedgerEntry{
		ID:             uuid.New(),
		StudentID:      student,
		TeacherID:      teacher,
		Date:           testutil.Day(2026, time.March, 2),
		SlotLabel:      progress.SlotLabel,
		Outcome:        types.OutcomePresent,
		StudentAck:     types.AckUnset,
		OpenProgressID: &progress.ID,
	}
	second := &types.LedgerEntry{
		ID:             uuid.New(),
		StudentID:      student,
		TeacherID:      teacher,
		Date:           testutil.Day(2026, time.March, 1),
		SlotLabel:      progress.SlotLabel,
		Outcome:        types.OutcomeAbsent,
		StudentAck:     types.AckUnset,
		OpenProgressID: &progress.ID,
	}
	if _, err := repo.Create(ctx, tx, []*types.LedgerEntry{first, second}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Outcome != types.OutcomePresent {
		t.Fatalf("GetByID: unexpected row %+v", got)
	}

	owned, err := repo.GetByOpenProgressIDs(ctx, tx, []uuid.UUID{progress.ID})
	if err != nil {
		t.Fatalf("GetByOpenProgressIDs: %v", err)
	}
	if len(owned) != 2 {
		t.Fatalf("GetByOpenProgressIDs: expected 2 rows, got %d", len(owned))
	}
	if owned[0].ID != second.ID {
		t.Fatalf("GetByOpenProgressIDs: expected date ascending order")
	}

	if err := repo.UpdateAck(ctx, tx, first.ID, types.AckApproved); err != nil {
		t.Fatalf("UpdateAck: %v", err)
	}
	got, err = repo.GetByID(ctx, tx, first.ID)
	if err != nil || got == nil || got.StudentAck != types.AckApproved {
		t.Fatalf("UpdateAck not persisted: err=%v row=%+v", err, got)
	}

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	ranged, err := repo.GetByStudentAndDateRange(ctx, tx, student, from, to)
	if err != nil || len(ranged) != 2 {
		t.Fatalf("GetByStudentAndDateRange: err=%v len=%d", err, len(ranged))
	}

	learning, err := repo.SumLearningByTeacherAndDateRange(ctx, tx, teacher, from, to)
	if err != nil {
		t.Fatalf("SumLearningByTeacherAndDateRange: %v", err)
	}
	if learning != 1 {
		t.Fatalf("SumLearningByTeacherAndDateRange: expected 1, got %d", learning)
	}

	// Moving ownership to a snapshot clears the open owner on every row.
	snapshot := &types.ArchivedSnapshot{
		ID:                 uuid.New(),
		StudentID:          student,
		TeacherID:          teacher,
		LearningCount:      1,
		MissingCount:       1,
		TotalCount:         2,
		ScheduleStatus:     types.ScheduleClosed,
		PayoutStatus:       types.PayoutPending,
		SlotLabel:          progress.SlotLabel,
		OriginalProgressID: progress.ID,
	}
	if err := tx.WithContext(ctx).Create(snapshot).Error; err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	moved, err := repo.ReassignOwner(ctx, tx, progress.ID, snapshot.ID)
	if err != nil {
		t.Fatalf("ReassignOwner: %v", err)
	}
	if moved != 2 {
		t.Fatalf("ReassignOwner: expected 2 rows moved, got %d", moved)
	}
	archived, err := repo.GetBySnapshotIDs(ctx, tx, []uuid.UUID{snapshot.ID})
	if err != nil || len(archived) != 2 {
		t.Fatalf("GetBySnapshotIDs: err=%v len=%d", err, len(archived))
	}
	for _, e := range archived {
		if e.OpenProgressID != nil {
			t.Fatalf("ReassignOwner left open owner on entry %s", e.ID)
		}
	}

	if err := repo.FullDeleteByIDs(ctx, tx, []uuid.UUID{first.ID, second.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	if got, err := repo.GetByID(ctx, tx, first.ID); err != nil || got != nil {
		t.Fatalf("FullDeleteByIDs: entry still present err=%v row=%+v", err, got)
	}
}

func TestEntryRepoDuplicateOpenDayRejected(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)

	ctx := context.Background()
	repo := NewEntryRepo(gdb, testutil.Logger(t))

	progress := testutil.SeedOpenProgress(t, ctx, tx, uuid.New(), uuid.New())
	day := testutil.Day(2026, time.April, 7)
	testutil.SeedEntry(t, ctx, tx, progress, day, types.OutcomePresent)

	dup := &types.LedgerEntry{
		ID:             uuid.New(),
		StudentID:      progress.StudentID,
		TeacherID:      progress.TeacherID,
		Date:           day,
		SlotLabel:      progress.SlotLabel,
		Outcome:        types.OutcomeAbsent,
		StudentAck:     types.AckUnset,
		OpenProgressID: &progress.ID,
	}
	_, err := repo.Create(ctx, tx, []*types.LedgerEntry{dup})
	if err == nil {
		t.Fatal("expected unique violation for duplicate open day")
	}
	if !db.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}
