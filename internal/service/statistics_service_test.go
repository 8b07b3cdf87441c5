package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kasms254/KASMS-sub002/internal/models"
	appErrors "github.com/Kasms254/KASMS-sub002/pkg/errors"
)

type statisticsRepoStub struct {
	classRows   []models.ScoredResult
	history     []models.StudentTrendPoint
	attendance  []models.AttendancePerformancePoint
	historyHits int
}

func (s *statisticsRepoStub) ClassResults(ctx context.Context, classID int64) ([]models.ScoredResult, error) {
	return s.classRows, nil
}

func (s *statisticsRepoStub) StudentHistory(ctx context.Context, studentID int64) ([]models.StudentTrendPoint, error) {
	s.historyHits++
	return s.history, nil
}

func (s *statisticsRepoStub) AttendancePerformance(ctx context.Context, classID int64) ([]models.AttendancePerformancePoint, error) {
	return s.attendance, nil
}

func statisticsFixture(stats *statisticsRepoStub, results *resultRepoStub) *StatisticsService {
	return NewStatisticsService(stats, results, &examReaderStub{exam: testExam()}, nil, nil,
		StatisticsConfig{DefaultScale: "nine_band"}, nil)
}

func TestExamStatistics(t *testing.T) {
	results := &resultRepoStub{roster: []models.ResultRecord{
		{ID: 1, StudentID: 11, MarksObtained: f64(95)},
		{ID: 2, StudentID: 12, MarksObtained: f64(78)},
		{ID: 3, StudentID: 13, MarksObtained: f64(52)},
		{ID: 4, StudentID: 14, MarksObtained: f64(40)},
		{ID: 5, StudentID: 15},
	}}
	svc := statisticsFixture(&statisticsRepoStub{}, results)

	stats, err := svc.ExamStatistics(context.Background(), 7, "")
	require.NoError(t, err)

	assert.Equal(t, int64(7), stats.ExamID)
	assert.Equal(t, "nine_band", stats.Scale)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 4, stats.Submitted)
	assert.Equal(t, 1, stats.Pending)
	require.NotNil(t, stats.Average)
	assert.Equal(t, 66.25, *stats.Average)
	require.NotNil(t, stats.PassRate)
	assert.Equal(t, 75.0, *stats.PassRate)
}

func TestExamStatisticsUnknownScale(t *testing.T) {
	svc := statisticsFixture(&statisticsRepoStub{}, &resultRepoStub{})

	_, err := svc.ExamStatistics(context.Background(), 7, "letters")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestClassStatistics(t *testing.T) {
	stats := &statisticsRepoStub{classRows: []models.ScoredResult{
		{ResultID: 1, StudentID: 11, Percentage: f64(85)},
		{ResultID: 2, StudentID: 12, Percentage: f64(45)},
		{ResultID: 3, StudentID: 13},
	}}
	svc := statisticsFixture(stats, &resultRepoStub{})

	summary, err := svc.ClassStatistics(context.Background(), 3, "five_band")
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.ClassID)
	assert.Equal(t, "five_band", summary.Scale)
	assert.Equal(t, 2, summary.Submitted)
	assert.Equal(t, 1, summary.Pending)
	assert.Equal(t, 1, summary.GradeHistogram["A"])
	assert.Equal(t, 1, summary.GradeHistogram["F"])
}

func TestAttendanceCorrelationDropsIncompletePairs(t *testing.T) {
	stats := &statisticsRepoStub{attendance: []models.AttendancePerformancePoint{
		{StudentID: 1, AttendanceRate: f64(95), MeanPercentage: f64(88)},
		{StudentID: 2, AttendanceRate: f64(70), MeanPercentage: f64(61)},
		{StudentID: 3, AttendanceRate: f64(50), MeanPercentage: f64(42)},
		{StudentID: 4, AttendanceRate: nil, MeanPercentage: f64(77)},
		{StudentID: 5, AttendanceRate: f64(80), MeanPercentage: nil},
	}}
	svc := statisticsFixture(stats, &resultRepoStub{})

	result, err := svc.AttendanceCorrelation(context.Background(), 3)
	require.NoError(t, err)

	require.True(t, result.Valid)
	assert.Equal(t, 3, result.Samples)
	assert.Equal(t, models.CorrelationPositive, result.Direction)
	assert.Equal(t, models.CorrelationStrong, result.Strength)
}

func TestAttendanceCorrelationTooFewStudents(t *testing.T) {
	stats := &statisticsRepoStub{attendance: []models.AttendancePerformancePoint{
		{StudentID: 1, AttendanceRate: f64(95), MeanPercentage: f64(88)},
	}}
	svc := statisticsFixture(stats, &resultRepoStub{})

	result, err := svc.AttendanceCorrelation(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestStudentTrend(t *testing.T) {
	base := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	stats := &statisticsRepoStub{history: []models.StudentTrendPoint{
		{Percentage: f64(50), GradedAt: base},
		{Percentage: f64(55), GradedAt: base.AddDate(0, 0, 7)},
		{Percentage: f64(72), GradedAt: base.AddDate(0, 0, 14)},
		{Percentage: f64(78), GradedAt: base.AddDate(0, 0, 21)},
	}}
	svc := statisticsFixture(stats, &resultRepoStub{})

	result, err := svc.StudentTrend(context.Background(), 21)
	require.NoError(t, err)

	assert.Equal(t, models.TrendImproving, result.Trend)
	assert.Equal(t, 4, result.Samples)
	assert.Equal(t, 1, stats.historyHits)
}

func TestStudentTrendNoHistory(t *testing.T) {
	svc := statisticsFixture(&statisticsRepoStub{}, &resultRepoStub{})

	result, err := svc.StudentTrend(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, models.TrendNone, result.Trend)
	assert.Zero(t, result.Samples)
}
