package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Kasms254/KASMS-sub002/internal/models"
)

// ResultRepository handles result record persistence. Rows are created when
// an exam's roster is generated; this repository only reads and updates them.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new result repository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// ListByExam returns the full roster for an exam ordered by student.
func (r *ResultRepository) ListByExam(ctx context.Context, examID int64) ([]models.ResultRecord, error) {
	const query = `SELECT id, student_id, exam_id, marks_obtained, remarks, is_locked, graded_at, created_at, updated_at
        FROM exam_results WHERE exam_id = $1 ORDER BY student_id ASC`
	var results []models.ResultRecord
	if err := r.db.SelectContext(ctx, &results, query, examID); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

// GetByID returns a single result record.
func (r *ResultRepository) GetByID(ctx context.Context, id int64) (*models.ResultRecord, error) {
	const query = `SELECT id, student_id, exam_id, marks_obtained, remarks, is_locked, graded_at, created_at, updated_at
        FROM exam_results WHERE id = $1`
	var result models.ResultRecord
	if err := r.db.GetContext(ctx, &result, query, id); err != nil {
		return nil, err
	}
	return &result, nil
}

// CountsByExam computes roster progress server-side so clients can trust the
// counts instead of recounting rows.
func (r *ResultRepository) CountsByExam(ctx context.Context, examID int64) (models.RosterCounts, error) {
	const query = `SELECT COUNT(*) AS total,
        COUNT(marks_obtained) AS submitted,
        COUNT(*) - COUNT(marks_obtained) AS pending
        FROM exam_results WHERE exam_id = $1`
	var counts models.RosterCounts
	if err := r.db.GetContext(ctx, &counts, query, examID); err != nil {
		return models.RosterCounts{}, fmt.Errorf("count results: %w", err)
	}
	return counts, nil
}

// UpdateMarks writes one changed row. Locked rows are never touched; the
// student id guards against an id/student mismatch in the payload. Returns
// sql.ErrNoRows when nothing matched.
func (r *ResultRepository) UpdateMarks(ctx context.Context, id, studentID int64, marks float64, remarks string) error {
	const query = `UPDATE exam_results
        SET marks_obtained = $3, remarks = $4, graded_at = $5, updated_at = $5
        WHERE id = $1 AND student_id = $2 AND is_locked = FALSE`
	res, err := r.db.ExecContext(ctx, query, id, studentID, marks, remarks, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update result %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update result %d: %w", id, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ApplyApprovedEdit writes reviewer-approved changes to a locked row. This is
// the only write path that bypasses the lock.
func (r *ResultRepository) ApplyApprovedEdit(ctx context.Context, id int64, marks *float64, remarks *string) error {
	const query = `UPDATE exam_results
        SET marks_obtained = COALESCE($2, marks_obtained),
            remarks = COALESCE($3, remarks),
            updated_at = $4
        WHERE id = $1 AND is_locked = TRUE`
	res, err := r.db.ExecContext(ctx, query, id, marks, remarks, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("apply approved edit %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("apply approved edit %d: %w", id, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
