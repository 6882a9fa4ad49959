package roster

import (
	"context"

	"github.com/google/uuid"
	types "github.com/okothm/tutorledger-backend/internal/domain"
	"github.com/okothm/tutorledger-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type ControllerGrantRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ControllerGrant) ([]*types.ControllerGrant, error)
	HasGrant(ctx context.Context, tx *gorm.DB, controllerID, studentID uuid.UUID) (bool, error)
	GetByControllerID(ctx context.Context, tx *gorm.DB, controllerID uuid.UUID) ([]*types.ControllerGrant, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type controllerGrantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewControllerGrantRepo(db *gorm.DB, baseLog *logger.Logger) ControllerGrantRepo {
	repoLog := baseLog.With("repo", "ControllerGrantRepo")
	return &controllerGrantRepo{db: db, log: repoLog}
}

func (r *controllerGrantRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ControllerGrant) ([]*types.ControllerGrant, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.ControllerGrant{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *controllerGrantRepo) HasGrant(ctx context.Context, tx *gorm.DB, controllerID, studentID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if controllerID == uuid.Nil || studentID == uuid.Nil {
		return false, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ControllerGrant{}).
		Where("controller_id = ? AND student_id = ?", controllerID, studentID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *controllerGrantRepo) GetByControllerID(ctx context.Context, tx *gorm.DB, controllerID uuid.UUID) ([]*types.ControllerGrant, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ControllerGrant
	if controllerID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("controller_id = ?", controllerID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *controllerGrantRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
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
		Delete(&types.ControllerGrant{}).Error; err != nil {
		return err
	}
	return nil
}
