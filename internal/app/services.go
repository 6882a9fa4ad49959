package app

import (
	"gorm.io/gorm"

	redisclient "github.com/okothm/tutorledger-backend/internal/clients/redis"
	"github.com/okothm/tutorledger-backend/internal/pkg/logger"
	"github.com/okothm/tutorledger-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	User      services.UserService
	Avatar    services.AvatarService
	Ledger    services.LedgerService
	Reporting services.ReportingService
	Payroll   services.PayrollService
	Roster    services.RosterService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, cache redisclient.Cache) (Services, error) {
	log.Info("Wiring services...")

	avatarService, err := services.NewAvatarService(db, log)
	if err != nil {
		// Avatar generation is an enhancement; registration works without it.
		log.Warn("avatar service disabled", "error", err)
		avatarService = nil
	}

	authService := services.NewAuthService(
		db, log, r.User, r.UserToken, avatarService,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)
	userService := services.NewUserService(db, log, r.User)
	ledgerService := services.NewLedgerService(
		db, log, r.User, r.ControllerGrant,
		r.Entry, r.OpenProgress, r.ArchivedSnapshot, r.Assignment,
	)
	reportingService := services.NewReportingService(
		db, log, cache, r.User, r.ControllerGrant,
		r.Entry, r.OpenProgress, r.ArchivedSnapshot, r.Assignment,
	)
	payrollService := services.NewPayrollService(db, log, r.User, r.Entry)
	rosterService := services.NewRosterService(db, log, r.User, r.ControllerGrant, r.Assignment)

	return Services{
		Auth:      authService,
		User:      userService,
		Avatar:    avatarService,
		Ledger:    ledgerService,
		Reporting: reportingService,
		Payroll:   payrollService,
		Roster:    rosterService,
	}, nil
}
