package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Kasms254/KASMS-sub002/internal/models"
	appErrors "github.com/Kasms254/KASMS-sub002/pkg/errors"
)

type resultRepo interface {
	ListByExam(ctx context.Context, examID int64) ([]models.ResultRecord, error)
	CountsByExam(ctx context.Context, examID int64) (models.RosterCounts, error)
	UpdateMarks(ctx context.Context, id, studentID int64, marks float64, remarks string) error
}

type examReader interface {
	FindByID(ctx context.Context, id int64) (*models.Exam, error)
}

// ExamRosterResponse is the load payload for the mark-entry screen. Counts
// are computed server-side and should be trusted over a client recount.
type ExamRosterResponse struct {
	Exam    models.Exam           `json:"exam"`
	Results []models.ResultRecord `json:"results"`
	Counts  models.RosterCounts   `json:"counts"`
}

// BulkSaveRequest carries only the changed rows of a roster, never the full
// set, so a save cannot clobber rows graded concurrently outside the diff.
type BulkSaveRequest struct {
	Results []models.ResultUpdate `json:"results" validate:"required,min=1,dive"`
}

// BulkSaveResult summarises a bulk save. Updated>0 together with a non-empty
// Errors slice is a valid partial outcome; each error string references the
// failed row id textually ("Row <id>: message").
type BulkSaveResult struct {
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

// ResultService loads exam rosters and applies validated bulk saves.
type ResultService struct {
	results   resultRepo
	exams     examReader
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResultService constructs ResultService.
func NewResultService(results resultRepo, exams examReader, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ResultService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{results: results, exams: exams, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// LoadExamResults returns the exam, its roster and server-side counts.
func (s *ResultService) LoadExamResults(ctx context.Context, examID int64) (*ExamRosterResponse, error) {
	exam, err := s.exams.FindByID(ctx, examID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	start := time.Now()
	results, err := s.results.ListByExam(ctx, examID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results")
	}
	counts, err := s.results.CountsByExam(ctx, examID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count results")
	}
	s.metrics.ObserveDBQuery("results_load", time.Since(start))
	return &ExamRosterResponse{Exam: *exam, Results: results, Counts: counts}, nil
}

// BulkSave applies changed rows one by one. Every row is re-validated against
// the exam total and the lock flag; a failing row is reported in Errors while
// the remaining rows still save. Locked rows are rejected here as well, not
// just client-side, because the lock routes edits into the edit-request
// workflow.
func (s *ResultService) BulkSave(ctx context.Context, examID int64, req BulkSaveRequest) (*BulkSaveResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk save payload")
	}
	exam, err := s.exams.FindByID(ctx, examID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	roster, err := s.results.ListByExam(ctx, examID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results")
	}
	byID := make(map[int64]models.ResultRecord, len(roster))
	for _, r := range roster {
		byID[r.ID] = r
	}

	result := &BulkSaveResult{Errors: []string{}}
	for _, update := range req.Results {
		row, ok := byID[update.ID]
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: not part of this exam", update.ID))
			continue
		}
		if row.IsLocked {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: result is locked", update.ID))
			continue
		}
		if update.MarksObtained < 0 || update.MarksObtained > exam.TotalMarks {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: marks must be between 0 and %g", update.ID, exam.TotalMarks))
			continue
		}
		if err := s.results.UpdateMarks(ctx, update.ID, update.StudentID, update.MarksObtained, update.Remarks); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: result is locked or student mismatch", update.ID))
				continue
			}
			s.logger.Error("bulk save row failed", zap.Int64("result_id", update.ID), zap.Error(err))
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: save failed", update.ID))
			continue
		}
		result.Updated++
	}

	if result.Updated > 0 {
		if err := s.cache.Invalidate(ctx, "statistics:*"); err != nil {
			s.logger.Warn("statistics cache invalidation failed", zap.Error(err))
		}
	}
	return result, nil
}
