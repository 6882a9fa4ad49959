package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/okothm/tutorledger-backend/internal/data/db"
	"github.com/okothm/tutorledger-backend/internal/data/repos"
	types "github.com/okothm/tutorledger-backend/internal/domain"
	pkgerr "github.com/okothm/tutorledger-backend/internal/pkg/errors"
	"github.com/okothm/tutorledger-backend/internal/pkg/logger"
)

type RecordOutcomeInput struct {
	StudentID uuid.UUID `json:"student_id"`
	TeacherID uuid.UUID `json:"teacher_id"`
	SlotLabel string    `json:"slot_label"`
	Outcome   string    `json:"outcome"`
	Date      time.Time `json:"date"`
}

type ReassignTeacherInput struct {
	ProgressID         uuid.UUID `json:"progress_id"`
	NewTeacherID       uuid.UUID `json:"new_teacher_id"`
	NewSlotLabel       *string   `json:"new_slot_label,omitempty"`
	NewDurationMinutes *int      `json:"new_duration_minutes,omitempty"`
	NewMeetingLink     *string   `json:"new_meeting_link,omitempty"`
}

type ReassignTeacherResult struct {
	Snapshot      *types.ArchivedSnapshot `json:"snapshot"`
	NewProgress   *types.OpenProgress     `json:"new_progress"`
	NewAssignment *types.Assignment       `json:"new_assignment"`
	OldAssignment *types.Assignment       `json:"old_assignment,omitempty"`
}

// LedgerService is the write side of the progress ledger. Every operation
// runs in exactly one store transaction: it either fully commits or leaves
// state untouched.
type LedgerService interface {
	RecordOutcome(ctx context.Context, in RecordOutcomeInput) (*types.LedgerEntry, *types.OpenProgress, error)
	RetractOutcome(ctx context.Context, entryID uuid.UUID) error
	AcknowledgeEntry(ctx context.Context, entryID uuid.UUID, approve bool) (*types.LedgerEntry, error)
	ReassignTeacher(ctx context.Context, in ReassignTeacherInput) (*ReassignTeacherResult, error)
}

type ledgerService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	grantRepo    repos.ControllerGrantRepo
	entryRepo    repos.EntryRepo
	progressRepo repos.OpenProgressRepo
	snapshotRepo repos.ArchivedSnapshotRepo
	assignRepo   repos.AssignmentRepo
}

func NewLedgerService(
	gdb *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	grantRepo repos.ControllerGrantRepo,
	entryRepo repos.EntryRepo,
	progressRepo repos.OpenProgressRepo,
	snapshotRepo repos.ArchivedSnapshotRepo,
	assignRepo repos.AssignmentRepo,
) LedgerService {
	serviceLog := log.With("service", "LedgerService")
	return &ledgerService{
		db:           gdb,
		log:          serviceLog,
		userRepo:     userRepo,
		grantRepo:    grantRepo,
		entryRepo:    entryRepo,
		progressRepo: progressRepo,
		snapshotRepo: snapshotRepo,
		assignRepo:   assignRepo,
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// wrapTxErr keeps taxonomy errors as-is, turns unique violations into
// Conflict and everything else into TransactionFailed.
func wrapTxErr(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{
		pkgerr.ErrUnauthorized,
		pkgerr.ErrForbidden,
		pkgerr.ErrNotFound,
		pkgerr.ErrInvalidDate,
		pkgerr.ErrInvalidOutcome,
		pkgerr.ErrImmutableRecord,
		pkgerr.ErrClosedProgress,
		pkgerr.ErrConflict,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", pkgerr.ErrConflict, err)
	}
	return fmt.Errorf("%w: %v", pkgerr.ErrTransactionFailed, err)
}

func (s *ledgerService) RecordOutcome(ctx context.Context, in RecordOutcomeInput) (*types.LedgerEntry, *types.OpenProgress, error) {
	if !types.ValidOutcome(in.Outcome) {
		return nil, nil, fmt.Errorf("%w: %q", pkgerr.ErrInvalidOutcome, in.Outcome)
	}
	day := dateOnly(in.Date)
	if day.After(dateOnly(time.Now())) {
		return nil, nil, fmt.Errorf("%w: %s is in the future", pkgerr.ErrInvalidDate, day.Format("2006-01-02"))
	}
	if in.StudentID == uuid.Nil || in.TeacherID == uuid.Nil {
		return nil, nil, fmt.Errorf("%w: missing student or teacher id", pkgerr.ErrNotFound)
	}

	var entry *types.LedgerEntry
	var progress *types.OpenProgress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := requireActor(ctx, tx, s.userRepo)
		if err != nil {
			return err
		}
		if err := authorizeLedgerWrite(ctx, tx, s.grantRepo, actor, in.StudentID); err != nil {
			return err
		}

		progress, err = s.progressRepo.GetOpenByPair(ctx, tx, in.StudentID, in.TeacherID)
		if err != nil {
			return err
		}
		if progress == nil {
			progress = &types.OpenProgress{
				ID:             uuid.New(),
				StudentID:      in.StudentID,
				TeacherID:      in.TeacherID,
				ScheduleStatus: types.ScheduleOpen,
				PayoutStatus:   types.PayoutPending,
				SlotLabel:      in.SlotLabel,
			}
			if _, err := s.progressRepo.Create(ctx, tx, []*types.OpenProgress{progress}); err != nil {
				return err
			}
		}

		entry = &types.LedgerEntry{
			ID:             uuid.New(),
			StudentID:      in.StudentID,
			TeacherID:      in.TeacherID,
			Date:           datatypes.Date(day),
			SlotLabel:      in.SlotLabel,
			Outcome:        in.Outcome,
			StudentAck:     types.AckUnset,
			OpenProgressID: &progress.ID,
		}
		if _, err := s.entryRepo.Create(ctx, tx, []*types.LedgerEntry{entry}); err != nil {
			return err
		}

		learningDelta, missingDelta := 0, 0
		if types.CountsAsLearning(in.Outcome) {
			learningDelta = 1
		} else {
			missingDelta = 1
		}
		if err := s.progressRepo.IncrementCounters(ctx, tx, progress.ID, learningDelta, missingDelta); err != nil {
			return err
		}
		progress.LearningCount += learningDelta
		progress.MissingCount += missingDelta
		return nil
	})
	if err != nil {
		return nil, nil, wrapTxErr(err)
	}
	s.log.Info("outcome recorded",
		"entry_id", entry.ID, "student_id", in.StudentID, "teacher_id", in.TeacherID, "outcome", in.Outcome)
	return entry, progress, nil
}

func (s *ledgerService) RetractOutcome(ctx context.Context, entryID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := requireActor(ctx, tx, s.userRepo)
		if err != nil {
			return err
		}

		entry, err := s.entryRepo.GetByID(ctx, tx, entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("%w: entry %s", pkgerr.ErrNotFound, entryID)
		}
		if entry.ArchivedSnapshotID != nil || entry.OpenProgressID == nil {
			return fmt.Errorf("%w: entry %s belongs to archived history", pkgerr.ErrImmutableRecord, entryID)
		}

		progress, err := s.progressRepo.GetByID(ctx, tx, *entry.OpenProgressID)
		if err != nil {
			return err
		}
		if progress == nil || progress.ScheduleStatus != types.ScheduleOpen {
			return fmt.Errorf("%w: owning aggregate is not open", pkgerr.ErrClosedProgress)
		}

		if err := authorizeLedgerWrite(ctx, tx, s.grantRepo, actor, entry.StudentID); err != nil {
			return err
		}

		if err := s.entryRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{entry.ID}); err != nil {
			return err
		}
		learningDelta, missingDelta := 0, 0
		if types.CountsAsLearning(entry.Outcome) {
			learningDelta = -1
		} else {
			missingDelta = -1
		}
		return s.progressRepo.IncrementCounters(ctx, tx, progress.ID, learningDelta, missingDelta)
	})
	if err != nil {
		return wrapTxErr(err)
	}
	s.log.Info("outcome retracted", "entry_id", entryID)
	return nil
}

func (s *ledgerService) AcknowledgeEntry(ctx context.Context, entryID uuid.UUID, approve bool) (*types.LedgerEntry, error) {
	var entry *types.LedgerEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := requireActor(ctx, tx, s.userRepo)
		if err != nil {
			return err
		}

		entry, err = s.entryRepo.GetByID(ctx, tx, entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("%w: entry %s", pkgerr.ErrNotFound, entryID)
		}
		if actor.Role != types.RoleStudent || actor.ID != entry.StudentID {
			return fmt.Errorf("%w: only the owning student may acknowledge", pkgerr.ErrForbidden)
		}
		if entry.ArchivedSnapshotID != nil {
			return fmt.Errorf("%w: entry %s belongs to archived history", pkgerr.ErrImmutableRecord, entryID)
		}

		// Re-invocation simply overwrites the flag; there is deliberately no
		// guard against changing a prior acknowledgement.
		ack := types.AckRejected
		if approve {
			ack = types.AckApproved
		}
		if err := s.entryRepo.UpdateAck(ctx, tx, entry.ID, ack); err != nil {
			return err
		}
		entry.StudentAck = ack
		return nil
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return entry, nil
}

func (s *ledgerService) ReassignTeacher(ctx context.Context, in ReassignTeacherInput) (*ReassignTeacherResult, error) {
	if in.NewTeacherID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing new teacher id", pkgerr.ErrNotFound)
	}

	var result ReassignTeacherResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := requireActor(ctx, tx, s.userRepo)
		if err != nil {
			return err
		}

		progress, err := s.progressRepo.GetByID(ctx, tx, in.ProgressID)
		if err != nil {
			return err
		}
		if progress == nil {
			return fmt.Errorf("%w: progress %s", pkgerr.ErrNotFound, in.ProgressID)
		}
		if progress.ScheduleStatus != types.ScheduleOpen {
			return fmt.Errorf("%w: progress %s", pkgerr.ErrClosedProgress, in.ProgressID)
		}

		if err := authorizeLedgerWrite(ctx, tx, s.grantRepo, actor, progress.StudentID); err != nil {
			return err
		}

		teachers, err := s.userRepo.GetByIDs(ctx, tx, []uuid.UUID{in.NewTeacherID})
		if err != nil {
			return err
		}
		if len(teachers) == 0 {
			return fmt.Errorf("%w: teacher %s", pkgerr.ErrNotFound, in.NewTeacherID)
		}

		entries, err := s.entryRepo.GetByOpenProgressIDs(ctx, tx, []uuid.UUID{progress.ID})
		if err != nil {
			return err
		}

		total := progress.LearningCount + progress.MissingCount
		if progress.TotalCount != nil {
			total = *progress.TotalCount
		}
		snapshot := &types.ArchivedSnapshot{
			ID:                 uuid.New(),
			StudentID:          progress.StudentID,
			TeacherID:          progress.TeacherID,
			LearningCount:      progress.LearningCount,
			MissingCount:       progress.MissingCount,
			TotalCount:         total,
			ScheduleStatus:     types.ScheduleClosed,
			PayoutStatus:       progress.PayoutStatus,
			SlotLabel:          progress.SlotLabel,
			OriginalProgressID: progress.ID,
		}
		if _, err := s.snapshotRepo.Create(ctx, tx, []*types.ArchivedSnapshot{snapshot}); err != nil {
			return err
		}

		moved, err := s.entryRepo.ReassignOwner(ctx, tx, progress.ID, snapshot.ID)
		if err != nil {
			return err
		}
		if moved != int64(len(entries)) {
			return fmt.Errorf("re-owned %d entries, expected %d", moved, len(entries))
		}

		oldAssignment, err := s.assignRepo.GetByPair(ctx, tx, progress.StudentID, progress.TeacherID)
		if err != nil {
			return err
		}

		if err := s.progressRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{progress.ID}); err != nil {
			return err
		}
		if oldAssignment != nil {
			if err := s.assignRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{oldAssignment.ID}); err != nil {
				return err
			}
		}

		slotLabel := types.DefaultSlotLabel
		durationMinutes := types.DefaultDurationMinutes
		meetingLink := ""
		if oldAssignment != nil {
			slotLabel = oldAssignment.SlotLabel
			durationMinutes = oldAssignment.DurationMinutes
			meetingLink = oldAssignment.MeetingLink
		}
		if in.NewSlotLabel != nil {
			slotLabel = *in.NewSlotLabel
		}
		if in.NewDurationMinutes != nil {
			durationMinutes = *in.NewDurationMinutes
		}
		if in.NewMeetingLink != nil {
			meetingLink = *in.NewMeetingLink
		}
		newAssignment := &types.Assignment{
			ID:              uuid.New(),
			StudentID:       progress.StudentID,
			TeacherID:       in.NewTeacherID,
			SlotLabel:       slotLabel,
			DurationMinutes: durationMinutes,
			MeetingLink:     meetingLink,
		}
		if _, err := s.assignRepo.Create(ctx, tx, []*types.Assignment{newAssignment}); err != nil {
			return err
		}

		progressSlot := progress.SlotLabel
		if in.NewSlotLabel != nil {
			progressSlot = *in.NewSlotLabel
		}
		newProgress := &types.OpenProgress{
			ID:             uuid.New(),
			StudentID:      progress.StudentID,
			TeacherID:      in.NewTeacherID,
			ScheduleStatus: types.ScheduleOpen,
			PayoutStatus:   types.PayoutPending,
			SlotLabel:      progressSlot,
		}
		if _, err := s.progressRepo.Create(ctx, tx, []*types.OpenProgress{newProgress}); err != nil {
			return err
		}

		result = ReassignTeacherResult{
			Snapshot:      snapshot,
			NewProgress:   newProgress,
			NewAssignment: newAssignment,
			OldAssignment: oldAssignment,
		}
		return nil
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	s.log.Info("teacher reassigned",
		"progress_id", in.ProgressID,
		"snapshot_id", result.Snapshot.ID,
		"new_teacher_id", in.NewTeacherID)
	return &result, nil
}
