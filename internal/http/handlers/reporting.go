package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/okothm/tutorledger-backend/internal/http/response"
	"github.com/okothm/tutorledger-backend/internal/services"
)

type ReportingHandler struct {
	reportingService services.ReportingService
}

func NewReportingHandler(reportingService services.ReportingService) *ReportingHandler {
	return &ReportingHandler{reportingService: reportingService}
}

func (rh *ReportingHandler) ListSnapshots(c *gin.Context) {
	if raw := c.Query("teacher_id"); raw != "" {
		teacherID, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_teacher_id", err)
			return
		}
		rows, err := rh.reportingService.ListSnapshotsByTeacher(c.Request.Context(), teacherID)
		if err != nil {
			response.RespondServiceError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"snapshots": rows})
		return
	}

	studentID, err := uuid.Parse(c.Query("student_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
		return
	}
	rows, err := rh.reportingService.ListSnapshotsByStudent(c.Request.Context(), studentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"snapshots": rows})
}

func (rh *ReportingHandler) StudentCalendar(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
		return
	}

	now := time.Now().UTC()
	year := now.Year()
	month := int(now.Month())
	if raw := c.Query("year"); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_year", err)
			return
		}
	}
	if raw := c.Query("month"); raw != "" {
		if month, err = strconv.Atoi(raw); err != nil || month < 1 || month > 12 {
			response.RespondError(c, http.StatusBadRequest, "invalid_month", err)
			return
		}
	}

	calendar, err := rh.reportingService.StudentMonthCalendar(c.Request.Context(), studentID, year, time.Month(month))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, calendar)
}

func (rh *ReportingHandler) StudentDashboard(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
		return
	}
	dashboard, err := rh.reportingService.GetStudentDashboard(c.Request.Context(), studentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, dashboard)
}
