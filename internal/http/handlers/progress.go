package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/okothm/tutorledger-backend/internal/http/response"
	"github.com/okothm/tutorledger-backend/internal/services"
)

type ProgressHandler struct {
	ledgerService    services.LedgerService
	reportingService services.ReportingService
}

func NewProgressHandler(ledgerService services.LedgerService, reportingService services.ReportingService) *ProgressHandler {
	return &ProgressHandler{ledgerService: ledgerService, reportingService: reportingService}
}

func (ph *ProgressHandler) Reassign(c *gin.Context) {
	progressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_progress_id", err)
		return
	}
	var req struct {
		NewTeacherID       string  `json:"new_teacher_id"`
		NewSlotLabel       *string `json:"new_slot_label"`
		NewDurationMinutes *int    `json:"new_duration_minutes"`
		NewMeetingLink     *string `json:"new_meeting_link"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	newTeacherID, err := uuid.Parse(req.NewTeacherID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_teacher_id", err)
		return
	}

	result, err := ph.ledgerService.ReassignTeacher(c.Request.Context(), services.ReassignTeacherInput{
		ProgressID:         progressID,
		NewTeacherID:       newTeacherID,
		NewSlotLabel:       req.NewSlotLabel,
		NewDurationMinutes: req.NewDurationMinutes,
		NewMeetingLink:     req.NewMeetingLink,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}

// Query returns the open aggregate for a student/teacher pair, or every
// aggregate for a student when no teacher is given.
func (ph *ProgressHandler) Query(c *gin.Context) {
	studentID, err := uuid.Parse(c.Query("student_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
		return
	}

	if raw := c.Query("teacher_id"); raw != "" {
		teacherID, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_teacher_id", err)
			return
		}
		progress, err := ph.reportingService.GetOpenProgress(c.Request.Context(), studentID, teacherID)
		if err != nil {
			response.RespondServiceError(c, err)
			return
		}
		response.RespondOK(c, progress)
		return
	}

	rows, err := ph.reportingService.ListProgressByStudent(c.Request.Context(), studentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": rows})
}
