package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Kasms254/KASMS-sub002/internal/models"
)

// EditRequestRepository persists locked-record edit requests.
type EditRequestRepository struct {
	db *sqlx.DB
}

// NewEditRequestRepository creates a new edit request repository.
func NewEditRequestRepository(db *sqlx.DB) *EditRequestRepository {
	return &EditRequestRepository{db: db}
}

// Create inserts a new request in PENDING state and fills in the generated id.
func (r *EditRequestRepository) Create(ctx context.Context, request *models.EditRequest) error {
	request.Status = models.EditRequestStatusPending
	if request.RequestedAt.IsZero() {
		request.RequestedAt = time.Now().UTC()
	}
	const query = `INSERT INTO result_edit_requests
        (result_id, reason, proposed_marks, proposed_remarks, status, requested_by, requested_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		request.ResultID,
		request.Reason,
		request.ProposedMarks,
		request.ProposedRemarks,
		request.Status,
		request.RequestedBy,
		request.RequestedAt,
	).Scan(&request.ID); err != nil {
		return fmt.Errorf("create edit request: %w", err)
	}
	return nil
}

// GetByID returns a single edit request.
func (r *EditRequestRepository) GetByID(ctx context.Context, id int64) (*models.EditRequest, error) {
	const query = `SELECT id, result_id, reason, proposed_marks, proposed_remarks, status,
        requested_by, reviewed_by, requested_at, reviewed_at, note
        FROM result_edit_requests WHERE id = $1`
	var request models.EditRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// List returns edit requests matching the filter, newest first.
func (r *EditRequestRepository) List(ctx context.Context, filter models.EditRequestFilter) ([]models.EditRequest, error) {
	query := `SELECT er.id, er.result_id, er.reason, er.proposed_marks, er.proposed_remarks, er.status,
        er.requested_by, er.reviewed_by, er.requested_at, er.reviewed_at, er.note
        FROM result_edit_requests er`
	var conditions []string
	var args []interface{}
	if filter.ExamID != 0 {
		query += " JOIN exam_results res ON res.id = er.result_id"
		conditions = append(conditions, fmt.Sprintf("res.exam_id = $%d", len(args)+1))
		args = append(args, filter.ExamID)
	}
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			placeholders[i] = fmt.Sprintf("$%d", len(args)+1)
			args = append(args, status)
		}
		conditions = append(conditions, fmt.Sprintf("er.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.ResultID != 0 {
		conditions = append(conditions, fmt.Sprintf("er.result_id = $%d", len(args)+1))
		args = append(args, filter.ResultID)
	}
	if filter.RequestedBy != "" {
		conditions = append(conditions, fmt.Sprintf("er.requested_by = $%d", len(args)+1))
		args = append(args, filter.RequestedBy)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY er.requested_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, filter.Offset)
	}
	var requests []models.EditRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("list edit requests: %w", err)
	}
	return requests, nil
}

// HasPending reports whether an unresolved request already targets the result.
func (r *EditRequestRepository) HasPending(ctx context.Context, resultID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM result_edit_requests WHERE result_id = $1 AND status = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, resultID, models.EditRequestStatusPending); err != nil {
		return false, fmt.Errorf("check pending edit request: %w", err)
	}
	return exists, nil
}

// UpdateEditRequestParams carries a reviewer decision.
type UpdateEditRequestParams struct {
	ID         int64
	Status     models.EditRequestStatus
	ReviewedBy string
	ReviewedAt time.Time
	Note       *string
}

// UpdateStatus resolves a pending request. The status guard in the WHERE
// clause makes concurrent reviews lose cleanly: the second reviewer sees
// sql.ErrNoRows.
func (r *EditRequestRepository) UpdateStatus(ctx context.Context, params UpdateEditRequestParams) error {
	const query = `UPDATE result_edit_requests
        SET status = $2, reviewed_by = $3, reviewed_at = $4, note = $5
        WHERE id = $1 AND status = $6`
	res, err := r.db.ExecContext(ctx, query,
		params.ID,
		params.Status,
		params.ReviewedBy,
		params.ReviewedAt,
		params.Note,
		models.EditRequestStatusPending,
	)
	if err != nil {
		return fmt.Errorf("update edit request %d: %w", params.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update edit request %d: %w", params.ID, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
