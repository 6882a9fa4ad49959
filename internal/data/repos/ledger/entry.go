package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	types "github.com/okothm/tutorledger-backend/internal/domain"
	"github.com/okothm/tutorledger-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type EntryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entries []*types.LedgerEntry) ([]*types.LedgerEntry, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LedgerEntry, error)
	GetByOpenProgressIDs(ctx context.Context, tx *gorm.DB, progressIDs []uuid.UUID) ([]*types.LedgerEntry, error)
	GetBySnapshotIDs(ctx context.Context, tx *gorm.DB, snapshotIDs []uuid.UUID) ([]*types.LedgerEntry, error)
	GetByStudentAndDateRange(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, from, to time.Time) ([]*types.LedgerEntry, error)
	ReassignOwner(ctx context.Context, tx *gorm.DB, openProgressID, snapshotID uuid.UUID) (int64, error)
	UpdateAck(ctx context.Context, tx *gorm.DB, id uuid.UUID, ack string) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	SumLearningByTeacherAndDateRange(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID, from, to time.Time) (int64, error)
}

type entryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntryRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo {
	repoLog := baseLog.With("repo", "EntryRepo")
	return &entryRepo{db: db, log: repoLog}
}

func (r *entryRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.LedgerEntry) ([]*types.LedgerEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(entries) == 0 {
		return []*types.LedgerEntry{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *entryRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LedgerEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil, nil
	}

	var result types.LedgerEntry
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *entryRepo) GetByOpenProgressIDs(ctx context.Context, tx *gorm.DB, progressIDs []uuid.UUID) ([]*types.LedgerEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LedgerEntry
	if len(progressIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("open_progress_id IN ?", progressIDs).
		Order("date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *entryRepo) GetBySnapshotIDs(ctx context.Context, tx *gorm.DB, snapshotIDs []uuid.UUID) ([]*types.LedgerEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LedgerEntry
	if len(snapshotIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("archived_snapshot_id IN ?", snapshotIDs).
		Order("date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *entryRepo) GetByStudentAndDateRange(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, from, to time.Time) ([]*types.LedgerEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LedgerEntry
	if studentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND date >= ? AND date < ?", studentID, from, to).
		Order("date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ReassignOwner bulk re-parents every entry owned by the open aggregate onto
// the archived snapshot. Entry identity is preserved; only ownership moves.
func (r *entryRepo) ReassignOwner(ctx context.Context, tx *gorm.DB, openProgressID, snapshotID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if openProgressID == uuid.Nil || snapshotID == uuid.Nil {
		return 0, nil
	}

	res := transaction.WithContext(ctx).
		Model(&types.LedgerEntry{}).
		Where("open_progress_id = ?", openProgressID).
		Updates(map[string]interface{}{
			"open_progress_id":     nil,
			"archived_snapshot_id": snapshotID,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *entryRepo) UpdateAck(ctx context.Context, tx *gorm.DB, id uuid.UUID, ack string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.LedgerEntry{}).
		Where("id = ?", id).
		Update("student_ack", ack).Error; err != nil {
		return err
	}
	return nil
}

func (r *entryRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("id IN ?", ids).
		Delete(&types.LedgerEntry{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *entryRepo) SumLearningByTeacherAndDateRange(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID, from, to time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if teacherID == uuid.Nil {
		return 0, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.LedgerEntry{}).
		Where("teacher_id = ? AND date >= ? AND date < ? AND outcome IN ?",
			teacherID, from, to,
			[]string{types.OutcomePresent, types.OutcomePermission}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
