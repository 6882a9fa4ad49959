package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	types "github.com/okothm/tutorledger-backend/internal/domain"
	"github.com/okothm/tutorledger-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type OpenProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.OpenProgress) ([]*types.OpenProgress, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.OpenProgress, error)
	GetOpenByPair(ctx context.Context, tx *gorm.DB, studentID, teacherID uuid.UUID) (*types.OpenProgress, error)
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.OpenProgress, error)
	GetByTeacherID(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) ([]*types.OpenProgress, error)
	IncrementCounters(ctx context.Context, tx *gorm.DB, id uuid.UUID, learningDelta, missingDelta int) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type openProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOpenProgressRepo(db *gorm.DB, baseLog *logger.Logger) OpenProgressRepo {
	repoLog := baseLog.With("repo", "OpenProgressRepo")
	return &openProgressRepo{db: db, log: repoLog}
}

func (r *openProgressRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.OpenProgress) ([]*types.OpenProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.OpenProgress{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *openProgressRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.OpenProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil, nil
	}

	var result types.OpenProgress
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

func (r *openProgressRepo) GetOpenByPair(ctx context.Context, tx *gorm.DB, studentID, teacherID uuid.UUID) (*types.OpenProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if studentID == uuid.Nil || teacherID == uuid.Nil {
		return nil, nil
	}

	var result types.OpenProgress
	err := transaction.WithContext(ctx).
		Where("student_id = ? AND teacher_id = ? AND schedule_status = ?",
			studentID, teacherID, types.ScheduleOpen).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *openProgressRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.OpenProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.OpenProgress
	if studentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *openProgressRepo) GetByTeacherID(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) ([]*types.OpenProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.OpenProgress
	if teacherID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// IncrementCounters applies the delta inside the caller's transaction. The
// expression form keeps the update atomic at the row level; nothing outside
// the owning transaction ever writes these counters.
func (r *openProgressRepo) IncrementCounters(ctx context.Context, tx *gorm.DB, id uuid.UUID, learningDelta, missingDelta int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || (learningDelta == 0 && missingDelta == 0) {
		return nil
	}

	updates := map[string]interface{}{}
	if learningDelta != 0 {
		updates["learning_count"] = gorm.Expr("learning_count + ?", learningDelta)
	}
	if missingDelta != 0 {
		updates["missing_count"] = gorm.Expr("missing_count + ?", missingDelta)
	}

	if err := transaction.WithContext(ctx).
		Model(&types.OpenProgress{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return err
	}
	return nil
}

func (r *openProgressRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
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
		Delete(&types.OpenProgress{}).Error; err != nil {
		return err
	}
	return nil
}
