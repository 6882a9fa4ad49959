package app

import (
	httpH "github.com/okothm/tutorledger-backend/internal/http/handlers"
	"github.com/okothm/tutorledger-backend/internal/pkg/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Auth      *httpH.AuthHandler
	User      *httpH.UserHandler
	Ledger    *httpH.LedgerHandler
	Progress  *httpH.ProgressHandler
	Reporting *httpH.ReportingHandler
	Payroll   *httpH.PayrollHandler
	Roster    *httpH.RosterHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(),
		Auth:      httpH.NewAuthHandler(s.Auth),
		User:      httpH.NewUserHandler(s.User),
		Ledger:    httpH.NewLedgerHandler(s.Ledger, s.Reporting),
		Progress:  httpH.NewProgressHandler(s.Ledger, s.Reporting),
		Reporting: httpH.NewReportingHandler(s.Reporting),
		Payroll:   httpH.NewPayrollHandler(s.Payroll),
		Roster:    httpH.NewRosterHandler(s.Roster),
	}
}
