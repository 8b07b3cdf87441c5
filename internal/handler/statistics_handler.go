package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kasms254/KASMS-sub002/internal/models"
	appErrors "github.com/Kasms254/KASMS-sub002/pkg/errors"
	"github.com/Kasms254/KASMS-sub002/pkg/response"
)

type statisticsService interface {
	ExamStatistics(ctx context.Context, examID int64, scaleName string) (*models.ExamStatistics, error)
	ClassStatistics(ctx context.Context, classID int64, scaleName string) (*models.ClassStatistics, error)
	AttendanceCorrelation(ctx context.Context, classID int64) (*models.CorrelationResult, error)
	StudentTrend(ctx context.Context, studentID int64) (*models.TrendResult, error)
}

// StatisticsHandler exposes aggregate reporting endpoints.
type StatisticsHandler struct {
	service statisticsService
}

// NewStatisticsHandler constructs the handler.
func NewStatisticsHandler(service statisticsService) *StatisticsHandler {
	return &StatisticsHandler{service: service}
}

// ExamStatistics godoc
// @Summary Exam result statistics
// @Tags Statistics
// @Produce json
// @Param id path int true "Exam ID"
// @Param scale query string false "Grading scale (nine_band or five_band)"
// @Success 200 {object} response.Envelope
// @Router /statistics/exams/{id} [get]
func (h *StatisticsHandler) ExamStatistics(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "statistics service not configured"))
		return
	}
	examID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid exam id"))
		return
	}
	stats, err := h.service.ExamStatistics(c.Request.Context(), examID, c.Query("scale"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// ClassStatistics godoc
// @Summary Class-wide result statistics
// @Tags Statistics
// @Produce json
// @Param id path int true "Class ID"
// @Param scale query string false "Grading scale (nine_band or five_band)"
// @Success 200 {object} response.Envelope
// @Router /statistics/classes/{id} [get]
func (h *StatisticsHandler) ClassStatistics(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "statistics service not configured"))
		return
	}
	classID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid class id"))
		return
	}
	stats, err := h.service.ClassStatistics(c.Request.Context(), classID, c.Query("scale"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// AttendanceCorrelation godoc
// @Summary Attendance vs performance correlation for a class
// @Tags Statistics
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /statistics/classes/{id}/attendance-correlation [get]
func (h *StatisticsHandler) AttendanceCorrelation(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "statistics service not configured"))
		return
	}
	classID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid class id"))
		return
	}
	result, err := h.service.AttendanceCorrelation(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// StudentTrend godoc
// @Summary Performance trend for a student
// @Tags Statistics
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /statistics/students/{id}/trend [get]
func (h *StatisticsHandler) StudentTrend(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "statistics service not configured"))
		return
	}
	studentID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return
	}
	result, err := h.service.StudentTrend(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
