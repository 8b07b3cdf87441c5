package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kasms254/KASMS-sub002/internal/models"
	"github.com/Kasms254/KASMS-sub002/internal/service"
	appErrors "github.com/Kasms254/KASMS-sub002/pkg/errors"
	"github.com/Kasms254/KASMS-sub002/pkg/response"
)

type editRequestService interface {
	Submit(ctx context.Context, req service.SubmitEditRequest, requesterID string) (*models.EditRequest, error)
	List(ctx context.Context, filter models.EditRequestFilter, actor *models.JWTClaims) ([]models.EditRequest, error)
	Review(ctx context.Context, id int64, req service.ReviewEditRequest, reviewerID string) (*models.EditRequest, error)
}

// EditRequestHandler exposes REST endpoints for the locked-record edit workflow.
type EditRequestHandler struct {
	service editRequestService
}

// NewEditRequestHandler constructs the handler.
func NewEditRequestHandler(service editRequestService) *EditRequestHandler {
	return &EditRequestHandler{service: service}
}

// Create godoc
// @Summary Submit an edit request for a locked result
// @Tags EditRequests
// @Accept json
// @Produce json
// @Param payload body service.SubmitEditRequest true "Edit request payload"
// @Success 201 {object} response.Envelope
// @Router /edit-requests [post]
func (h *EditRequestHandler) Create(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "edit request service not configured"))
		return
	}
	var req service.SubmitEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid edit request payload"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	request, err := h.service.Submit(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, request, nil)
}

// List godoc
// @Summary List edit requests
// @Tags EditRequests
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Param exam query int false "Exam ID"
// @Param result query int false "Result ID"
// @Success 200 {object} response.Envelope
// @Router /edit-requests [get]
func (h *EditRequestHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "edit request service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var filter models.EditRequestFilter
	if rawStatus := c.Query("status"); rawStatus != "" {
		parts := strings.Split(rawStatus, ",")
		statuses := make([]models.EditRequestStatus, 0, len(parts))
		for _, part := range parts {
			part = strings.ToUpper(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			statuses = append(statuses, models.EditRequestStatus(part))
		}
		filter.Status = statuses
	}
	if raw := c.Query("exam"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.ExamID = id
		}
	}
	if raw := c.Query("result"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.ResultID = id
		}
	}
	requests, err := h.service.List(c.Request.Context(), filter, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}

// Review godoc
// @Summary Approve or reject a pending edit request
// @Tags EditRequests
// @Accept json
// @Produce json
// @Param id path int true "Edit request ID"
// @Param payload body service.ReviewEditRequest true "Review decision"
// @Success 200 {object} response.Envelope
// @Router /edit-requests/{id}/review [post]
func (h *EditRequestHandler) Review(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "edit request service not configured"))
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid edit request id"))
		return
	}
	var req service.ReviewEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid review payload"))
		return
	}
	req.Status = models.EditRequestStatus(strings.ToUpper(string(req.Status)))
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	request, err := h.service.Review(c.Request.Context(), id, req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}
