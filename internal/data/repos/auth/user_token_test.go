package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okothm/tutorledger-backend/internal/data/repos/testutil"
	types "github.com/okothm/tutorledger-backend/internal/domain"
)

func TestUserTokenRepo(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)

	ctx := context.Background()
	repo := NewUserTokenRepo(gdb, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "token-owner@example.com", types.RoleTeacher)

	token := &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  "access",
		RefreshToken: uuid.New().String(),
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	if _, err := repo.Create(ctx, tx, []*types.UserToken{token}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	byUser, err := repo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
	if err != nil || len(byUser) != 1 {
		t.Fatalf("GetByUserIDs: err=%v len=%d", err, len(byUser))
	}

	byRefresh, err := repo.GetByRefreshToken(ctx, tx, token.RefreshToken)
	if err != nil || byRefresh == nil || byRefresh.ID != token.ID {
		t.Fatalf("GetByRefreshToken: err=%v row=%+v", err, byRefresh)
	}
	missing, err := repo.GetByRefreshToken(ctx, tx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("GetByRefreshToken miss: err=%v row=%+v", err, missing)
	}

	if err := repo.FullDeleteByUserIDs(ctx, tx, []uuid.UUID{user.ID}); err != nil {
		t.Fatalf("FullDeleteByUserIDs: %v", err)
	}
	byUser, err = repo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
	if err != nil || len(byUser) != 0 {
		t.Fatalf("FullDeleteByUserIDs: err=%v len=%d", err, len(byUser))
	}
}
