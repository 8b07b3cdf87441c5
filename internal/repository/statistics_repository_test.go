package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestStatisticsRepositoryClassResults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStatisticsRepository(db)
	rows := sqlmock.NewRows([]string{"result_id", "student_id", "percentage"}).
		AddRow(int64(1), int64(11), 85.0).
		AddRow(int64(2), int64(12), nil)
	mock.ExpectQuery(regexp.QuoteMeta("JOIN exams e ON e.id = res.exam_id")).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	results, err := repo.ClassResults(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.NotNil(t, results[0].Percentage)
	require.Equal(t, 85.0, *results[0].Percentage)
	require.Nil(t, results[1].Percentage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatisticsRepositoryStudentHistory(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStatisticsRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"percentage", "graded_at"}).
		AddRow(55.0, now.AddDate(0, -1, 0)).
		AddRow(72.0, now)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY COALESCE(res.graded_at, e.scheduled_at) ASC")).
		WithArgs(int64(21)).
		WillReturnRows(rows)

	history, err := repo.StudentHistory(context.Background(), 21)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.True(t, history[0].GradedAt.Before(history[1].GradedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatisticsRepositoryAttendancePerformance(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStatisticsRepository(db)
	rows := sqlmock.NewRows([]string{"student_id", "attendance_rate", "mean_percentage"}).
		AddRow(int64(1), 95.0, 88.0).
		AddRow(int64(2), nil, 61.0)
	mock.ExpectQuery(regexp.QuoteMeta("FROM students s")).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	points, err := repo.AttendancePerformance(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Nil(t, points[1].AttendanceRate)
	require.NoError(t, mock.ExpectationsWereMet())
}
