package services

import (
	"context"
	"errors"
	"testing"

	"github.com/okothm/tutorledger-backend/internal/data/repos"
	"github.com/okothm/tutorledger-backend/internal/data/repos/testutil"
	types "github.com/okothm/tutorledger-backend/internal/domain"
	pkgerr "github.com/okothm/tutorledger-backend/internal/pkg/errors"
)

func newRosterFixture(t *testing.T) (*ledgerFixture, RosterService) {
	f := newLedgerFixture(t)
	log := testutil.Logger(t)
	svc := NewRosterService(
		f.tx, log,
		repos.NewUserRepo(f.tx, log),
		repos.NewControllerGrantRepo(f.tx, log),
		repos.NewAssignmentRepo(f.tx, log),
	)
	return f, svc
}

func TestAssignmentLifecycle(t *testing.T) {
	f, svc := newRosterFixture(t)
	ctx := context.Background()

	manager := testutil.SeedUser(t, ctx, f.tx, "mgr-roster@example.com", types.RoleManager)
	student := testutil.SeedUser(t, ctx, f.tx, "stu-roster@example.com", types.RoleStudent)
	teacher := testutil.SeedUser(t, ctx, f.tx, "tch-roster@example.com", types.RoleTeacher)
	mctx := actorCtx(manager.ID)

	created, err := svc.CreateAssignment(mctx, &types.Assignment{
		StudentID: student.ID,
		TeacherID: teacher.ID,
	})
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	if created.SlotLabel != types.DefaultSlotLabel || created.DurationMinutes != types.DefaultDurationMinutes {
		t.Fatalf("defaults not applied: %+v", created)
	}

	got, err := svc.GetAssignmentByStudent(mctx, student.ID)
	if err != nil || got.ID != created.ID {
		t.Fatalf("GetAssignmentByStudent: err=%v row=%+v", err, got)
	}

	// Students read their own assignment.
	if _, err := svc.GetAssignmentByStudent(actorCtx(student.ID), student.ID); err != nil {
		t.Fatalf("student self read: %v", err)
	}

	// Second assignment for the same student trips the singleton index.
	if _, err := svc.CreateAssignment(mctx, &types.Assignment{
		StudentID: student.ID,
		TeacherID: teacher.ID,
	}); !errors.Is(err, pkgerr.ErrConflict) {
		t.Fatalf("second assignment: expected ErrConflict, got %v", err)
	}
}

func TestControllerGrantLifecycle(t *testing.T) {
	f, svc := newRosterFixture(t)
	ctx := context.Background()

	manager := testutil.SeedUser(t, ctx, f.tx, "mgr-grant@example.com", types.RoleManager)
	controller := testutil.SeedUser(t, ctx, f.tx, "ctl-grant@example.com", types.RoleController)
	student := testutil.SeedUser(t, ctx, f.tx, "stu-grant@example.com", types.RoleStudent)
	mctx := actorCtx(manager.ID)

	if _, err := svc.GrantController(actorCtx(controller.ID), controller.ID, student.ID); !errors.Is(err, pkgerr.ErrForbidden) {
		t.Fatalf("controller self-grant: expected ErrForbidden, got %v", err)
	}

	grant, err := svc.GrantController(mctx, controller.ID, student.ID)
	if err != nil {
		t.Fatalf("GrantController: %v", err)
	}
	if grant.ControllerID != controller.ID || grant.StudentID != student.ID {
		t.Fatalf("grant fields: %+v", grant)
	}

	if err := svc.RevokeController(mctx, controller.ID, student.ID); err != nil {
		t.Fatalf("RevokeController: %v", err)
	}
	if err := svc.RevokeController(mctx, controller.ID, student.ID); !errors.Is(err, pkgerr.ErrNotFound) {
		t.Fatalf("second revoke: expected ErrNotFound, got %v", err)
	}
}
