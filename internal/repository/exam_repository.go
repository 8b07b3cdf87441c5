package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Kasms254/KASMS-sub002/internal/models"
)

// ExamRepository handles exam lookups. Exams are created by the roster
// management service; this API only reads them.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository creates a new exam repository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// FindByID returns a single exam.
func (r *ExamRepository) FindByID(ctx context.Context, id int64) (*models.Exam, error) {
	const query = `SELECT id, class_id, name, subject, total_marks, scheduled_at, created_at, updated_at
        FROM exams WHERE id = $1`
	var exam models.Exam
	if err := r.db.GetContext(ctx, &exam, query, id); err != nil {
		return nil, err
	}
	return &exam, nil
}

// ListByClass returns every exam for a class ordered by schedule.
func (r *ExamRepository) ListByClass(ctx context.Context, classID int64) ([]models.Exam, error) {
	const query = `SELECT id, class_id, name, subject, total_marks, scheduled_at, created_at, updated_at
        FROM exams WHERE class_id = $1 ORDER BY scheduled_at ASC`
	var exams []models.Exam
	if err := r.db.SelectContext(ctx, &exams, query, classID); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}
