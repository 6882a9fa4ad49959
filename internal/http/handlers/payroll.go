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

type PayrollHandler struct {
	payrollService services.PayrollService
}

func NewPayrollHandler(payrollService services.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

func (ph *PayrollHandler) MonthlySummary(c *gin.Context) {
	teacherID, err := uuid.Parse(c.Query("teacher_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_teacher_id", err)
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_year", err)
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_month", err)
		return
	}

	summary, err := ph.payrollService.MonthlySummary(c.Request.Context(), teacherID, year, time.Month(month))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, summary)
}
