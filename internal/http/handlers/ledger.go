package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/okothm/tutorledger-backend/internal/http/response"
	"github.com/okothm/tutorledger-backend/internal/services"
)

type LedgerHandler struct {
	ledgerService    services.LedgerService
	reportingService services.ReportingService
}

func NewLedgerHandler(ledgerService services.LedgerService, reportingService services.ReportingService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, reportingService: reportingService}
}

func (lh *LedgerHandler) RecordOutcome(c *gin.Context) {
	var req struct {
		StudentID string `json:"student_id"`
		TeacherID string `json:"teacher_id"`
		SlotLabel string `json:"slot_label"`
		Outcome   string `json:"outcome"`
		Date      string `json:"date"`
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
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_date", err)
		return
	}

	entry, progress, err := lh.ledgerService.RecordOutcome(c.Request.Context(), services.RecordOutcomeInput{
		StudentID: studentID,
		TeacherID: teacherID,
		SlotLabel: req.SlotLabel,
		Outcome:   req.Outcome,
		Date:      date,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"entry": entry, "progress": progress})
}

func (lh *LedgerHandler) RetractOutcome(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_entry_id", err)
		return
	}
	if err := lh.ledgerService.RetractOutcome(c.Request.Context(), entryID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (lh *LedgerHandler) AcknowledgeEntry(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_entry_id", err)
		return
	}
	var req struct {
		Approve bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	entry, err := lh.ledgerService.AcknowledgeEntry(c.Request.Context(), entryID, req.Approve)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, entry)
}

func (lh *LedgerHandler) ListEntriesByOwner(c *gin.Context) {
	ownerKind := c.Query("owner_kind")
	ownerID, err := uuid.Parse(c.Query("owner_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_owner_id", err)
		return
	}
	entries, err := lh.reportingService.ListEntriesByOwner(c.Request.Context(), ownerKind, ownerID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entries": entries})
}
