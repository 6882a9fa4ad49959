package app

import (
	"gorm.io/gorm"

	"github.com/okothm/tutorledger-backend/internal/data/repos"
	"github.com/okothm/tutorledger-backend/internal/pkg/logger"
)

type Repos struct {
	User             repos.UserRepo
	UserToken        repos.UserTokenRepo
	Entry            repos.EntryRepo
	OpenProgress     repos.OpenProgressRepo
	ArchivedSnapshot repos.ArchivedSnapshotRepo
	Assignment       repos.AssignmentRepo
	ControllerGrant  repos.ControllerGrantRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:             repos.NewUserRepo(db, log),
		UserToken:        repos.NewUserTokenRepo(db, log),
		Entry:            repos.NewEntryRepo(db, log),
		OpenProgress:     repos.NewOpenProgressRepo(db, log),
		ArchivedSnapshot: repos.NewArchivedSnapshotRepo(db, log),
		Assignment:       repos.NewAssignmentRepo(db, log),
		ControllerGrant:  repos.NewControllerGrantRepo(db, log),
	}
}
