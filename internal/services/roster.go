package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/okothm/tutorledger-backend/internal/data/repos"
	types "github.com/okothm/tutorledger-backend/internal/domain"
	pkgerr "github.com/okothm/tutorledger-backend/internal/pkg/errors"
	"github.com/okothm/tutorledger-backend/internal/pkg/logger"
)

// RosterService covers the scheduling surface around the ledger: the
// student's current assignment and the controller grant roster.
type RosterService interface {
	GetAssignmentByStudent(ctx context.Context, studentID uuid.UUID) (*types.Assignment, error)
	CreateAssignment(ctx context.Context, assignment *types.Assignment) (*types.Assignment, error)
	DeleteAssignment(ctx context.Context, studentID uuid.UUID) error
	GrantController(ctx context.Context, controllerID, studentID uuid.UUID) (*types.ControllerGrant, error)
	RevokeController(ctx context.Context, controllerID, studentID uuid.UUID) error
}

type rosterService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   repos.UserRepo
	grantRepo  repos.ControllerGrantRepo
	assignRepo repos.AssignmentRepo
}

func NewRosterService(
	gdb *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	grantRepo repos.ControllerGrantRepo,
	assignRepo repos.AssignmentRepo,
) RosterService {
	serviceLog := log.With("service", "RosterService")
	return &rosterService{
		db:         gdb,
		log:        serviceLog,
		userRepo:   userRepo,
		grantRepo:  grantRepo,
		assignRepo: assignRepo,
	}
}

func (s *rosterService) GetAssignmentByStudent(ctx context.Context, studentID uuid.UUID) (*types.Assignment, error) {
	actor, err := requireActor(ctx, s.db, s.userRepo)
	if err != nil {
		return nil, err
	}
	if err := authorizeStudentRead(ctx, s.db, s.grantRepo, actor, studentID); err != nil {
		return nil, err
	}
	assignment, err := s.assignRepo.GetByStudentID(ctx, s.db, studentID)
	if err != nil {
		return nil, wrapTxErr(err)
	}
	if assignment == nil {
		return nil, fmt.Errorf("%w: no assignment for student %s", pkgerr.ErrNotFound, studentID)
	}
	return assignment, nil
}

func (s *rosterService) CreateAssignment(ctx context.Context, assignment *types.Assignment) (*types.Assignment, error) {
	if assignment.StudentID == uuid.Nil || assignment.TeacherID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing student or teacher id", pkgerr.ErrNotFound)
	}
	if assignment.SlotLabel == "" {
		assignment.SlotLabel = types.DefaultSlotLabel
	}
	if assignment.DurationMinutes == 0 {
		assignment.DurationMinutes = types.DefaultDurationMinutes
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := requireActor(ctx, tx, s.userRepo)
		if err != nil {
			return err
		}
		if err := authorizeLedgerWrite(ctx, tx, s.grantRepo, actor, assignment.StudentID); err != nil {
			return err
		}
		assignment.ID = uuid.New()
		_, err = s.assignRepo.Create(ctx, tx, []*types.Assignment{assignment})
		return err
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return assignment, nil
}

func (s *rosterService) DeleteAssignment(ctx context.Context, studentID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := requireActor(ctx, tx, s.userRepo)
		if err != nil {
			return err
		}
		if err := authorizeLedgerWrite(ctx, tx, s.grantRepo, actor, studentID); err != nil {
			return err
		}
		assignment, err := s.assignRepo.GetByStudentID(ctx, tx, studentID)
		if err != nil {
			return err
		}
		if assignment == nil {
			return fmt.Errorf("%w: no assignment for student %s", pkgerr.ErrNotFound, studentID)
		}
		return s.assignRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{assignment.ID})
	})
	return wrapTxErr(err)
}

func (s *rosterService) GrantController(ctx context.Context, controllerID, studentID uuid.UUID) (*types.ControllerGrant, error) {
	var grant *types.ControllerGrant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := requireActor(ctx, tx, s.userRepo)
		if err != nil {
			return err
		}
		if actor.Role != types.RoleManager {
			return fmt.Errorf("%w: only managers manage the roster", pkgerr.ErrForbidden)
		}

		found, err := s.userRepo.GetByIDs(ctx, tx, []uuid.UUID{controllerID, studentID})
		if err != nil {
			return err
		}
		if len(found) != 2 {
			return fmt.Errorf("%w: controller or student missing", pkgerr.ErrNotFound)
		}

		grant = &types.ControllerGrant{
			ID:           uuid.New(),
			ControllerID: controllerID,
			StudentID:    studentID,
			GrantedAt:    time.Now(),
		}
		_, err = s.grantRepo.Create(ctx, tx, []*types.ControllerGrant{grant})
		return err
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return grant, nil
}

func (s *rosterService) RevokeController(ctx context.Context, controllerID, studentID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := requireActor(ctx, tx, s.userRepo)
		if err != nil {
			return err
		}
		if actor.Role != types.RoleManager {
			return fmt.Errorf("%w: only managers manage the roster", pkgerr.ErrForbidden)
		}

		grants, err := s.grantRepo.GetByControllerID(ctx, tx, controllerID)
		if err != nil {
			return err
		}
		var ids []uuid.UUID
		for _, g := range grants {
			if g.StudentID == studentID {
				ids = append(ids, g.ID)
			}
		}
		if len(ids) == 0 {
			return fmt.Errorf("%w: no grant for pair", pkgerr.ErrNotFound)
		}
		return s.grantRepo.FullDeleteByIDs(ctx, tx, ids)
	})
	return wrapTxErr(err)
}
