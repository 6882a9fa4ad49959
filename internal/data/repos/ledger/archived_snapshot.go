package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	types "github.com/okothm/tutorledger-backend/internal/domain"
	"github.com/okothm/tutorledger-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

// ArchivedSnapshotRepo has no update or delete methods. Snapshots are
// immutable after creation.
type ArchivedSnapshotRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ArchivedSnapshot) ([]*types.ArchivedSnapshot, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ArchivedSnapshot, error)
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.ArchivedSnapshot, error)
	GetByTeacherID(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) ([]*types.ArchivedSnapshot, error)
}

type archivedSnapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArchivedSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) ArchivedSnapshotRepo {
	repoLog := baseLog.With("repo", "ArchivedSnapshotRepo")
	return &archivedSnapshotRepo{db: db, log: repoLog}
}

func (r *archivedSnapshotRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ArchivedSnapshot) ([]*types.ArchivedSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.ArchivedSnapshot{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *archivedSnapshotRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ArchivedSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil, nil
	}

	var result types.ArchivedSnapshot
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

func (r *archivedSnapshotRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.ArchivedSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ArchivedSnapshot
	if studentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *archivedSnapshotRepo) GetByTeacherID(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) ([]*types.ArchivedSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ArchivedSnapshot
	if teacherID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
