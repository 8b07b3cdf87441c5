package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Kasms254/KASMS-sub002/internal/grading"
	"github.com/Kasms254/KASMS-sub002/internal/models"
	appErrors "github.com/Kasms254/KASMS-sub002/pkg/errors"
)

type statisticsRepo interface {
	ClassResults(ctx context.Context, classID int64) ([]models.ScoredResult, error)
	StudentHistory(ctx context.Context, studentID int64) ([]models.StudentTrendPoint, error)
	AttendancePerformance(ctx context.Context, classID int64) ([]models.AttendancePerformancePoint, error)
}

type examResultsReader interface {
	ListByExam(ctx context.Context, examID int64) ([]models.ResultRecord, error)
}

// StatisticsConfig tunes aggregation defaults.
type StatisticsConfig struct {
	DefaultScale string
	CacheTTL     time.Duration
}

// StatisticsService aggregates exam and class performance. Reads follow a
// cache-aside pattern keyed under "statistics:"; every write path that changes
// results invalidates that keyspace.
type StatisticsService struct {
	stats   statisticsRepo
	results examResultsReader
	exams   examReader
	cache   *CacheService
	metrics *MetricsService
	cfg     StatisticsConfig
	logger  *zap.Logger
}

// NewStatisticsService constructs StatisticsService.
func NewStatisticsService(stats statisticsRepo, results examResultsReader, exams examReader, cache *CacheService, metrics *MetricsService, cfg StatisticsConfig, logger *zap.Logger) *StatisticsService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{stats: stats, results: results, exams: exams, cache: cache, metrics: metrics, cfg: cfg, logger: logger}
}

func (s *StatisticsService) resolveScale(name string) (grading.Scale, error) {
	if name == "" {
		name = s.cfg.DefaultScale
	}
	scale, err := grading.ScaleByName(name)
	if err != nil {
		return grading.Scale{}, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return scale, nil
}

// ExamStatistics summarises one exam's roster: submission counts, extremes,
// full-precision average, pass rate and a zero-filled grade histogram.
func (s *StatisticsService) ExamStatistics(ctx context.Context, examID int64, scaleName string) (*models.ExamStatistics, error) {
	scale, err := s.resolveScale(scaleName)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("statistics:exam:%d:%s", examID, scale.Name())
	var cached models.ExamStatistics
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	start := time.Now()
	exam, err := s.exams.FindByID(ctx, examID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
	}
	results, err := s.results.ListByExam(ctx, examID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam results")
	}
	s.metrics.ObserveDBQuery("exam_statistics", time.Since(start))

	stats := grading.Summarize(results, exam.TotalMarks, scale)
	stats.ExamID = exam.ID

	if err := s.cache.Set(ctx, cacheKey, stats, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache exam statistics", zap.Error(err))
	}
	return &stats, nil
}

// ClassStatistics pools every exam of a class into one summary. Rows are
// scored as percentages against their own exam total so that exams with
// different totals remain comparable.
func (s *StatisticsService) ClassStatistics(ctx context.Context, classID int64, scaleName string) (*models.ClassStatistics, error) {
	scale, err := s.resolveScale(scaleName)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("statistics:class:%d:%s", classID, scale.Name())
	var cached models.ClassStatistics
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	start := time.Now()
	rows, err := s.stats.ClassResults(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class results")
	}
	s.metrics.ObserveDBQuery("class_statistics", time.Since(start))

	stats := grading.SummarizeScored(rows, scale)
	stats.ClassID = classID

	if err := s.cache.Set(ctx, cacheKey, stats, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache class statistics", zap.Error(err))
	}
	return &stats, nil
}

// AttendanceCorrelation estimates the Pearson correlation between attendance
// rates and mean exam percentages across a class. Students missing either
// series are dropped from the sample.
func (s *StatisticsService) AttendanceCorrelation(ctx context.Context, classID int64) (*models.CorrelationResult, error) {
	cacheKey := fmt.Sprintf("statistics:attendance:%d", classID)
	var cached models.CorrelationResult
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	start := time.Now()
	points, err := s.stats.AttendancePerformance(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance data")
	}
	s.metrics.ObserveDBQuery("attendance_correlation", time.Since(start))

	attendance := make([]*float64, len(points))
	performance := make([]*float64, len(points))
	for i, p := range points {
		attendance[i] = p.AttendanceRate
		performance[i] = p.MeanPercentage
	}
	result := grading.Correlate(attendance, performance)

	if err := s.cache.Set(ctx, cacheKey, result, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache attendance correlation", zap.Error(err))
	}
	return &result, nil
}

// StudentTrend classifies a student's performance trajectory by comparing the
// mean of the earlier half of their graded history with the later half.
func (s *StatisticsService) StudentTrend(ctx context.Context, studentID int64) (*models.TrendResult, error) {
	cacheKey := fmt.Sprintf("statistics:trend:%d", studentID)
	var cached models.TrendResult
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	start := time.Now()
	history, err := s.stats.StudentHistory(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student history")
	}
	s.metrics.ObserveDBQuery("student_trend", time.Since(start))

	result := grading.Segment(history)

	if err := s.cache.Set(ctx, cacheKey, result, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache student trend", zap.Error(err))
	}
	return &result, nil
}
