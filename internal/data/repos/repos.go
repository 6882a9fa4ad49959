package repos

import (
	"github.com/okothm/tutorledger-backend/internal/data/repos/auth"
	"github.com/okothm/tutorledger-backend/internal/data/repos/ledger"
	"github.com/okothm/tutorledger-backend/internal/data/repos/roster"
	"github.com/okothm/tutorledger-backend/internal/data/repos/user"
	"github.com/okothm/tutorledger-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type EntryRepo = ledger.EntryRepo
type OpenProgressRepo = ledger.OpenProgressRepo
type ArchivedSnapshotRepo = ledger.ArchivedSnapshotRepo

type AssignmentRepo = roster.AssignmentRepo
type ControllerGrantRepo = roster.ControllerGrantRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewEntryRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo {
	return ledger.NewEntryRepo(db, baseLog)
}
func NewOpenProgressRepo(db *gorm.DB, baseLog *logger.Logger) OpenProgressRepo {
	return ledger.NewOpenProgressRepo(db, baseLog)
}
func NewArchivedSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) ArchivedSnapshotRepo {
	return ledger.NewArchivedSnapshotRepo(db, baseLog)
}

func NewAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentRepo {
	return roster.NewAssignmentRepo(db, baseLog)
}
func NewControllerGrantRepo(db *gorm.DB, baseLog *logger.Logger) ControllerGrantRepo {
	return roster.NewControllerGrantRepo(db, baseLog)
}
