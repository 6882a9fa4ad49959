package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/okothm/tutorledger-backend/internal/data/repos"
	types "github.com/okothm/tutorledger-backend/internal/domain"
	"github.com/okothm/tutorledger-backend/internal/pkg/ctxutil"
	pkgerr "github.com/okothm/tutorledger-backend/internal/pkg/errors"
)

// requireActor resolves the calling user from the request context and
// re-reads the user row so role changes take effect immediately. Nothing
// about the actor is cached between calls.
func requireActor(ctx context.Context, tx *gorm.DB, users repos.UserRepo) (*types.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, pkgerr.ErrUnauthorized
	}
	found, err := users.GetByIDs(ctx, tx, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: actor %s not found", pkgerr.ErrUnauthorized, rd.UserID)
	}
	return found[0], nil
}

// authorizeLedgerWrite gates mutating ledger operations: managers are
// unrestricted, controllers must hold a grant for the student, everyone
// else is rejected.
func authorizeLedgerWrite(ctx context.Context, tx *gorm.DB, grants repos.ControllerGrantRepo, actor *types.User, studentID uuid.UUID) error {
	switch actor.Role {
	case types.RoleManager:
		return nil
	case types.RoleController:
		ok, err := grants.HasGrant(ctx, tx, actor.ID, studentID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: student %s not in controller roster", pkgerr.ErrForbidden, studentID)
		}
		return nil
	default:
		return fmt.Errorf("%w: role %q cannot write the ledger", pkgerr.ErrForbidden, actor.Role)
	}
}

// authorizeStudentRead gates read views keyed by student: managers,
// reporters and roster-scoped controllers see any student, students only
// themselves, teachers nothing by student key.
func authorizeStudentRead(ctx context.Context, tx *gorm.DB, grants repos.ControllerGrantRepo, actor *types.User, studentID uuid.UUID) error {
	switch actor.Role {
	case types.RoleManager, types.RoleReporter:
		return nil
	case types.RoleController:
		ok, err := grants.HasGrant(ctx, tx, actor.ID, studentID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: student %s not in controller roster", pkgerr.ErrForbidden, studentID)
		}
		return nil
	case types.RoleStudent:
		if actor.ID == studentID {
			return nil
		}
		return fmt.Errorf("%w: students may only read their own ledger", pkgerr.ErrForbidden)
	default:
		return fmt.Errorf("%w: role %q cannot read by student", pkgerr.ErrForbidden, actor.Role)
	}
}

// authorizeTeacherRead gates read views keyed by teacher (snapshots,
// payroll sums): managers and reporters see any teacher, teachers only
// themselves.
func authorizeTeacherRead(actor *types.User, teacherID uuid.UUID) error {
	switch actor.Role {
	case types.RoleManager, types.RoleReporter:
		return nil
	case types.RoleTeacher:
		if actor.ID == teacherID {
			return nil
		}
		return fmt.Errorf("%w: teachers may only read their own aggregates", pkgerr.ErrForbidden)
	default:
		return fmt.Errorf("%w: role %q cannot read by teacher", pkgerr.ErrForbidden, actor.Role)
	}
}
