package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/okothm/tutorledger-backend/internal/domain"
	"github.com/okothm/tutorledger-backend/internal/http/response"
	"github.com/okothm/tutorledger-backend/internal/services"
)

type RosterHandler struct {
	rosterService services.RosterService
}

func NewRosterHandler(rosterService services.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rosterService}
}

func (rh *RosterHandler) GetAssignment(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("student_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
		return
	}
	assignment, err := rh.rosterService.GetAssignmentByStudent(c.Request.Context(), studentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, assignment)
}

func (rh *RosterHandler) CreateAssignment(c *gin.Context) {
	var req struct {
		StudentID       string `json:"student_id"`
		TeacherID       string `json:"teacher_id"`
		SlotLabel       string `json:"slot_label"`
		DurationMinutes int    `json:"duration_minutes"`
		MeetingLink     string `json:"meeting_link"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
		return
	}
	teacherID, err := uuid.Parse(req.TeacherID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_teacher_id", err)
		return
	}

	assignment, err := rh.rosterService.CreateAssignment(c.Request.Context(), &types.Assignment{
		StudentID:       studentID,
		TeacherID:       teacherID,
		SlotLabel:       req.SlotLabel,
		DurationMinutes: req.DurationMinutes,
		MeetingLink:     req.MeetingLink,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, assignment)
}

func (rh *RosterHandler) DeleteAssignment(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("student_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
		return
	}
	if err := rh.rosterService.DeleteAssignment(c.Request.Context(), studentID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (rh *RosterHandler) GrantController(c *gin.Context) {
	var req struct {
		ControllerID string `json:"controller_id"`
		StudentID    string `json:"student_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	controllerID, err := uuid.Parse(req.ControllerID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_controller_id", err)
		return
	}
	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
		return
	}

	grant, err := rh.rosterService.GrantController(c.Request.Context(), controllerID, studentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, grant)
}

func (rh *RosterHandler) RevokeController(c *gin.Context) {
	controllerID, err := uuid.Parse(c.Query("controller_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_controller_id", err)
		return
	}
	studentID, err := uuid.Parse(c.Query("student_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
		return
	}
	if err := rh.rosterService.RevokeController(c.Request.Context(), controllerID, studentID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
