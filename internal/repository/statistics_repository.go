package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Kasms254/KASMS-sub002/internal/models"
)

// StatisticsRepository reads the pre-scored datasets behind report views.
// Percentages are computed in SQL against each row's own exam total so that
// cross-exam pools stay comparable.
type StatisticsRepository struct {
	db *sqlx.DB
}

// NewStatisticsRepository creates a new statistics repository.
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// ClassResults returns every result row for a class across all of its exams,
// scored as a percentage. Ungraded rows come back with a NULL percentage and
// still count toward the roster total.
func (r *StatisticsRepository) ClassResults(ctx context.Context, classID int64) ([]models.ScoredResult, error) {
	const query = `SELECT res.id AS result_id, res.student_id,
        CASE WHEN res.marks_obtained IS NULL OR e.total_marks <= 0 THEN NULL
             ELSE 100.0 * res.marks_obtained / e.total_marks END AS percentage
        FROM exam_results res
        JOIN exams e ON e.id = res.exam_id
        WHERE e.class_id = $1`
	var rows []models.ScoredResult
	if err := r.db.SelectContext(ctx, &rows, query, classID); err != nil {
		return nil, fmt.Errorf("class results: %w", err)
	}
	return rows, nil
}

// StudentHistory returns a student's graded percentages in grading order for
// trend estimation.
func (r *StatisticsRepository) StudentHistory(ctx context.Context, studentID int64) ([]models.StudentTrendPoint, error) {
	const query = `SELECT
        CASE WHEN res.marks_obtained IS NULL OR e.total_marks <= 0 THEN NULL
             ELSE 100.0 * res.marks_obtained / e.total_marks END AS percentage,
        COALESCE(res.graded_at, e.scheduled_at) AS graded_at
        FROM exam_results res
        JOIN exams e ON e.id = res.exam_id
        WHERE res.student_id = $1
        ORDER BY COALESCE(res.graded_at, e.scheduled_at) ASC`
	var points []models.StudentTrendPoint
	if err := r.db.SelectContext(ctx, &points, query, studentID); err != nil {
		return nil, fmt.Errorf("student history: %w", err)
	}
	return points, nil
}

// AttendancePerformance pairs each student's attendance rate with their mean
// exam percentage for the class. Either side may be NULL when the student has
// no attendance records or no graded results.
func (r *StatisticsRepository) AttendancePerformance(ctx context.Context, classID int64) ([]models.AttendancePerformancePoint, error) {
	const query = `SELECT s.id AS student_id,
        att.rate AS attendance_rate,
        perf.mean AS mean_percentage
        FROM students s
        LEFT JOIN (
            SELECT student_id, 100.0 * COUNT(*) FILTER (WHERE present) / COUNT(*) AS rate
            FROM attendance_records
            GROUP BY student_id
        ) att ON att.student_id = s.id
        LEFT JOIN (
            SELECT res.student_id, AVG(100.0 * res.marks_obtained / e.total_marks) AS mean
            FROM exam_results res
            JOIN exams e ON e.id = res.exam_id AND e.total_marks > 0
            WHERE res.marks_obtained IS NOT NULL
            GROUP BY res.student_id
        ) perf ON perf.student_id = s.id
        WHERE s.class_id = $1
        ORDER BY s.id ASC`
	var points []models.AttendancePerformancePoint
	if err := r.db.SelectContext(ctx, &points, query, classID); err != nil {
		return nil, fmt.Errorf("attendance performance: %w", err)
	}
	return points, nil
}
