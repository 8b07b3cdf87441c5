package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kasms254/KASMS-sub002/internal/service"
	appErrors "github.com/Kasms254/KASMS-sub002/pkg/errors"
	"github.com/Kasms254/KASMS-sub002/pkg/response"
)

type exportService interface {
	ExamReport(ctx context.Context, examID int64, scaleName, format string) (*service.Report, error)
	ClassReport(ctx context.Context, classID int64, scaleName, format string) (*service.Report, error)
}

// ReportHandler streams rendered statistics reports.
type ReportHandler struct {
	service exportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(service exportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// ExamReport godoc
// @Summary Download an exam statistics report
// @Tags Reports
// @Produce text/csv,application/pdf
// @Param id path int true "Exam ID"
// @Param format query string true "csv or pdf"
// @Param scale query string false "Grading scale"
// @Success 200 {file} file
// @Router /reports/exams/{id} [get]
func (h *ReportHandler) ExamReport(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	examID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid exam id"))
		return
	}
	report, err := h.service.ExamReport(c.Request.Context(), examID, c.Query("scale"), c.DefaultQuery("format", service.FormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	streamReport(c, report)
}

// ClassReport godoc
// @Summary Download a class statistics report
// @Tags Reports
// @Produce text/csv,application/pdf
// @Param id path int true "Class ID"
// @Param format query string true "csv or pdf"
// @Param scale query string false "Grading scale"
// @Success 200 {file} file
// @Router /reports/classes/{id} [get]
func (h *ReportHandler) ClassReport(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	classID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid class id"))
		return
	}
	report, err := h.service.ClassReport(c.Request.Context(), classID, c.Query("scale"), c.DefaultQuery("format", service.FormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	streamReport(c, report)
}

func streamReport(c *gin.Context, report *service.Report) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Data(http.StatusOK, report.ContentType, report.Payload)
}
