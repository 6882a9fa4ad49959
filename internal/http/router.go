package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/okothm/tutorledger-backend/internal/http/handlers"
	httpMW "github.com/okothm/tutorledger-backend/internal/http/middleware"
	"github.com/okothm/tutorledger-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	MediaDir       string
	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler

	LedgerHandler    *httpH.LedgerHandler
	ProgressHandler  *httpH.ProgressHandler
	ReportingHandler *httpH.ReportingHandler
	PayrollHandler   *httpH.PayrollHandler
	RosterHandler    *httpH.RosterHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(httpMW.RequestLogger(cfg.Log))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.MediaDir != "" {
		r.Static("/media", cfg.MediaDir)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		// Ledger writes
		if cfg.LedgerHandler != nil {
			protected.POST("/ledger/entries", cfg.LedgerHandler.RecordOutcome)
			protected.DELETE("/ledger/entries/:id", cfg.LedgerHandler.RetractOutcome)
			protected.POST("/ledger/entries/:id/acknowledge", cfg.LedgerHandler.AcknowledgeEntry)
			protected.GET("/entries", cfg.LedgerHandler.ListEntriesByOwner)
		}

		// Aggregates
		if cfg.ProgressHandler != nil {
			protected.GET("/progress", cfg.ProgressHandler.Query)
			protected.POST("/progress/:id/reassign", cfg.ProgressHandler.Reassign)
		}

		// Reporting
		if cfg.ReportingHandler != nil {
			protected.GET("/snapshots", cfg.ReportingHandler.ListSnapshots)
			protected.GET("/students/:id/calendar", cfg.ReportingHandler.StudentCalendar)
			protected.GET("/students/:id/dashboard", cfg.ReportingHandler.StudentDashboard)
		}

		// Payroll
		if cfg.PayrollHandler != nil {
			protected.GET("/payroll/summary", cfg.PayrollHandler.MonthlySummary)
		}

		// Roster
		if cfg.RosterHandler != nil {
			protected.GET("/assignments/:student_id", cfg.RosterHandler.GetAssignment)
			protected.POST("/assignments", cfg.RosterHandler.CreateAssignment)
			protected.DELETE("/assignments/:student_id", cfg.RosterHandler.DeleteAssignment)
			protected.POST("/controller-grants", cfg.RosterHandler.GrantController)
			protected.DELETE("/controller-grants", cfg.RosterHandler.RevokeController)
		}
	}

	return r
}
