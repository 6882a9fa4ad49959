package roster

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/okothm/tutorledger-backend/internal/data/repos/testutil"
)

func TestControllerGrantRepo(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)

	ctx := context.Background()
	repo := NewControllerGrantRepo(gdb, testutil.Logger(t))

	controller := uuid.New()
	student := uuid.New()
	grant := testutil.SeedGrant(t, ctx, tx, controller, student)

	ok, err := repo.HasGrant(ctx, tx, controller, student)
	if err != nil || !ok {
		t.Fatalf("HasGrant: err=%v ok=%v", err, ok)
	}
	ok, err = repo.HasGrant(ctx, tx, controller, uuid.New())
	if err != nil || ok {
		t.Fatalf("HasGrant for unknown student: err=%v ok=%v", err, ok)
	}

	grants, err := repo.GetByControllerID(ctx, tx, controller)
	if err != nil || len(grants) != 1 {
		t.Fatalf("GetByControllerID: err=%v len=%d", err, len(grants))
	}

	if err := repo.FullDeleteByIDs(ctx, tx, []uuid.UUID{grant.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	ok, err = repo.HasGrant(ctx, tx, controller, student)
	if err != nil || ok {
		t.Fatalf("HasGrant after delete: err=%v ok=%v", err, ok)
	}
}
