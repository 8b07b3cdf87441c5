package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kasms254/KASMS-sub002/internal/service"
	appErrors "github.com/Kasms254/KASMS-sub002/pkg/errors"
	"github.com/Kasms254/KASMS-sub002/pkg/response"
)

type resultService interface {
	LoadExamResults(ctx context.Context, examID int64) (*service.ExamRosterResponse, error)
	BulkSave(ctx context.Context, examID int64, req service.BulkSaveRequest) (*service.BulkSaveResult, error)
}

// ResultHandler exposes REST endpoints for exam result rosters.
type ResultHandler struct {
	service resultService
}

// NewResultHandler constructs the handler.
func NewResultHandler(service resultService) *ResultHandler {
	return &ResultHandler{service: service}
}

// List godoc
// @Summary Load an exam's result roster
// @Tags Results
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} response.Envelope
// @Router /exams/{id}/results [get]
func (h *ResultHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "result service not configured"))
		return
	}
	examID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid exam id"))
		return
	}
	roster, err := h.service.LoadExamResults(c.Request.Context(), examID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil)
}

// BulkSave godoc
// @Summary Save changed result rows for an exam
// @Tags Results
// @Accept json
// @Produce json
// @Param id path int true "Exam ID"
// @Param payload body service.BulkSaveRequest true "Changed rows"
// @Success 200 {object} response.Envelope
// @Router /exams/{id}/results/bulk [post]
func (h *ResultHandler) BulkSave(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "result service not configured"))
		return
	}
	examID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid exam id"))
		return
	}
	var req service.BulkSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid bulk save payload"))
		return
	}
	result, err := h.service.BulkSave(c.Request.Context(), examID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
