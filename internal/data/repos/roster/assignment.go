package roster

import (
	"context"
	"errors"

	"github.com/google/uuid"
	types "github.com/okothm/tutorledger-backend/internal/domain"
	"github.com/okothm/tutorledger-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type AssignmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Assignment) ([]*types.Assignment, error)
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.Assignment, error)
	GetByPair(ctx context.Context, tx *gorm.DB, studentID, teacherID uuid.UUID) (*types.Assignment, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type assignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentRepo {
	repoLog := baseLog.With("repo", "AssignmentRepo")
	return &assignmentRepo{db: db, log: repoLog}
}

func (r *assignmentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Assignment) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Assignment{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *assignmentRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if studentID == uuid.Nil {
		return nil, nil
	}

	var result types.Assignment
	err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *assignmentRepo) GetByPair(ctx context.Context, tx *gorm.DB, studentID, teacherID uuid.UUID) (*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if studentID == uuid.Nil || teacherID == uuid.Nil {
		return nil, nil
	}

	var result types.Assignment
	err := transaction.WithContext(ctx).
		Where("student_id = ? AND teacher_id = ?", studentID, teacherID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *assignmentRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
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
		Delete(&types.Assignment{}).Error; err != nil {
		return err
	}
	return nil
}
