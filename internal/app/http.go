package app

import (
	"github.com/gin-gonic/gin"

	apphttp "github.com/okothm/tutorledger-backend/internal/http"
	"github.com/okothm/tutorledger-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, cfg Config, h Handlers, mw Middleware) *gin.Engine {
	log.Info("Wiring router...")
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log:         log,
		ServiceName: cfg.ServiceName,
		MediaDir:    cfg.MediaDir,

		AuthHandler:    h.Auth,
		AuthMiddleware: mw.Auth,
		UserHandler:    h.User,

		LedgerHandler:    h.Ledger,
		ProgressHandler:  h.Progress,
		ReportingHandler: h.Reporting,
		PayrollHandler:   h.Payroll,
		RosterHandler:    h.Roster,

		HealthHandler: h.Health,
	})
}
