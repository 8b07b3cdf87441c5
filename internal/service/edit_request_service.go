package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Kasms254/KASMS-sub002/internal/models"
	"github.com/Kasms254/KASMS-sub002/internal/repository"
	appErrors "github.com/Kasms254/KASMS-sub002/pkg/errors"
)

const maxProposedRemarksLength = 500

type editRequestRepo interface {
	Create(ctx context.Context, request *models.EditRequest) error
	GetByID(ctx context.Context, id int64) (*models.EditRequest, error)
	List(ctx context.Context, filter models.EditRequestFilter) ([]models.EditRequest, error)
	HasPending(ctx context.Context, resultID int64) (bool, error)
	UpdateStatus(ctx context.Context, params repository.UpdateEditRequestParams) error
}

type lockedResultStore interface {
	GetByID(ctx context.Context, id int64) (*models.ResultRecord, error)
	ApplyApprovedEdit(ctx context.Context, id int64, marks *float64, remarks *string) error
}

// SubmitEditRequest proposes a change to a locked result. Field names follow
// the wire contract of the legacy dashboard.
type SubmitEditRequest struct {
	ResultID        int64    `json:"exam_result"`
	Reason          string   `json:"reason"`
	ProposedMarks   *float64 `json:"proposed_marks,omitempty"`
	ProposedRemarks *string  `json:"proposed_remarks,omitempty"`
}

// ReviewEditRequest carries a reviewer decision.
type ReviewEditRequest struct {
	Status models.EditRequestStatus `json:"status"`
	Note   string                   `json:"note"`
}

// EditRequestConfig tunes request validation.
type EditRequestConfig struct {
	MaxReasonLength int
}

// EditRequestService runs the locked-record edit workflow: submission with
// fail-fast validation, duplicate-pending detection and reviewer resolution.
// Only an approved review ever touches the underlying result record.
type EditRequestService struct {
	requests editRequestRepo
	results  lockedResultStore
	exams    examReader
	cfg      EditRequestConfig
	logger   *zap.Logger
}

// NewEditRequestService constructs EditRequestService.
func NewEditRequestService(requests editRequestRepo, results lockedResultStore, exams examReader, cfg EditRequestConfig, logger *zap.Logger) *EditRequestService {
	if cfg.MaxReasonLength <= 0 {
		cfg.MaxReasonLength = 500
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EditRequestService{requests: requests, results: results, exams: exams, cfg: cfg, logger: logger}
}

// Submit validates and stores a new edit request in PENDING state. The
// validation is fail-fast and field-keyed: an invalid payload never reaches
// the repository. The target result is untouched; it only changes if a
// reviewer later approves the request.
func (s *EditRequestService) Submit(ctx context.Context, req SubmitEditRequest, requesterID string) (*models.EditRequest, error) {
	fields := map[string]string{}
	if req.ResultID == 0 {
		fields["exam_result"] = "result id is required"
	}
	if strings.TrimSpace(req.Reason) == "" {
		fields["reason"] = "reason is required"
	} else if len(req.Reason) > s.cfg.MaxReasonLength {
		fields["reason"] = fmt.Sprintf("reason must be at most %d characters", s.cfg.MaxReasonLength)
	}
	if req.ProposedRemarks != nil && len(*req.ProposedRemarks) > maxProposedRemarksLength {
		fields["proposed_remarks"] = fmt.Sprintf("remarks must be at most %d characters", maxProposedRemarksLength)
	}
	if len(fields) > 0 {
		return nil, appErrors.WithFields(appErrors.ErrValidation, fields)
	}

	result, err := s.results.GetByID(ctx, req.ResultID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load result")
	}
	if !result.IsLocked {
		return nil, appErrors.Clone(appErrors.ErrConflict, "result is not locked; edit it through the mark sheet")
	}

	if req.ProposedMarks != nil {
		exam, err := s.exams.FindByID(ctx, result.ExamID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
		}
		if *req.ProposedMarks < 0 || *req.ProposedMarks > exam.TotalMarks {
			fields["proposed_marks"] = fmt.Sprintf("marks must be between 0 and %g", exam.TotalMarks)
			return nil, appErrors.WithFields(appErrors.ErrValidation, fields)
		}
	}

	// Two pending requests for one row would race each other at review time,
	// so the duplicate check runs here and not only on the server constraint.
	pending, err := s.requests.HasPending(ctx, req.ResultID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check pending requests")
	}
	if pending {
		return nil, appErrors.ErrDuplicateRequest
	}

	request := &models.EditRequest{
		ResultID:        req.ResultID,
		Reason:          strings.TrimSpace(req.Reason),
		ProposedMarks:   req.ProposedMarks,
		ProposedRemarks: req.ProposedRemarks,
		RequestedBy:     requesterID,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create edit request")
	}
	s.logger.Info("edit request submitted",
		zap.Int64("request_id", request.ID),
		zap.Int64("result_id", request.ResultID),
		zap.String("requested_by", requesterID),
	)
	return request, nil
}

// List returns accessible edit requests respecting the actor's role:
// reviewers see everything, teachers only their own submissions.
func (s *EditRequestService) List(ctx context.Context, filter models.EditRequestFilter, actor *models.JWTClaims) ([]models.EditRequest, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	switch actor.Role {
	case models.RoleSuperAdmin, models.RoleAdmin:
		// full access, no extra filters
	case models.RoleTeacher:
		filter.RequestedBy = actor.UserID
	default:
		return nil, appErrors.ErrForbidden
	}
	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list edit requests")
	}
	return requests, nil
}

// Review resolves a pending request. PENDING is the only state that accepts a
// transition; approved and rejected requests are final. Approval applies the
// proposed marks and remarks to the locked result before the status flips, so
// a failed apply leaves the request pending and retryable.
func (s *EditRequestService) Review(ctx context.Context, id int64, req ReviewEditRequest, reviewerID string) (*models.EditRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "edit request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load edit request")
	}
	if request.Status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "edit request already reviewed")
	}
	if req.Status != models.EditRequestStatusApproved && req.Status != models.EditRequestStatusRejected {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be APPROVED or REJECTED")
	}

	if req.Status == models.EditRequestStatusApproved {
		if err := s.results.ApplyApprovedEdit(ctx, request.ResultID, request.ProposedMarks, request.ProposedRemarks); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrConflict, "target result is no longer locked")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply approved edit")
		}
	}

	now := time.Now().UTC()
	params := repository.UpdateEditRequestParams{
		ID:         request.ID,
		Status:     req.Status,
		ReviewedBy: reviewerID,
		ReviewedAt: now,
		Note:       optionalString(req.Note),
	}
	if err := s.requests.UpdateStatus(ctx, params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "edit request already processed")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update edit request")
	}

	request.Status = req.Status
	request.ReviewedBy = &reviewerID
	request.ReviewedAt = &now
	request.Note = params.Note
	s.logger.Info("edit request reviewed",
		zap.Int64("request_id", request.ID),
		zap.String("status", string(request.Status)),
		zap.String("reviewed_by", reviewerID),
	)
	return request, nil
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
