package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/Kasms254/KASMS-sub002/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEditRequestRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEditRequestRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO result_edit_requests")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))

	marks := 62.0
	request := &models.EditRequest{
		ResultID:      10,
		Reason:        "recount",
		ProposedMarks: &marks,
		RequestedBy:   "teacher-1",
	}
	require.NoError(t, repo.Create(context.Background(), request))
	require.Equal(t, int64(12), request.ID)
	require.Equal(t, models.EditRequestStatusPending, request.Status)
	require.False(t, request.RequestedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEditRequestRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEditRequestRepository(db)
	rows := sqlmock.NewRows([]string{"id", "result_id", "reason", "proposed_marks", "proposed_remarks", "status", "requested_by", "reviewed_by", "requested_at", "reviewed_at", "note"}).
		AddRow(int64(12), int64(10), "recount", 62.0, nil, "PENDING", "teacher-1", nil, time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, result_id, reason")).
		WithArgs(int64(12)).
		WillReturnRows(rows)

	found, err := repo.GetByID(context.Background(), 12)
	require.NoError(t, err)
	require.Equal(t, int64(10), found.ResultID)
	require.Equal(t, models.EditRequestStatusPending, found.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEditRequestRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEditRequestRepository(db)
	rows := sqlmock.NewRows([]string{"id", "result_id", "reason", "proposed_marks", "proposed_remarks", "status", "requested_by", "reviewed_by", "requested_at", "reviewed_at", "note"}).
		AddRow(int64(12), int64(10), "recount", nil, nil, "PENDING", "teacher-1", nil, time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("JOIN exam_results res ON res.id = er.result_id")).
		WithArgs(int64(7), models.EditRequestStatusPending, "teacher-1").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.EditRequestFilter{
		Status:      []models.EditRequestStatus{models.EditRequestStatusPending},
		ExamID:      7,
		RequestedBy: "teacher-1",
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, int64(12), list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEditRequestRepositoryHasPending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEditRequestRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(10), models.EditRequestStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	pending, err := repo.HasPending(context.Background(), 10)
	require.NoError(t, err)
	require.True(t, pending)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEditRequestRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEditRequestRepository(db)
	now := time.Now()
	note := "verified"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE result_edit_requests")).
		WithArgs(int64(12), models.EditRequestStatusApproved, "admin-1", now, &note, models.EditRequestStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), UpdateEditRequestParams{
		ID:         12,
		Status:     models.EditRequestStatusApproved,
		ReviewedBy: "admin-1",
		ReviewedAt: now,
		Note:       &note,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEditRequestRepositoryUpdateStatusAlreadyResolved(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEditRequestRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE result_edit_requests")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), UpdateEditRequestParams{
		ID:         12,
		Status:     models.EditRequestStatusRejected,
		ReviewedBy: "admin-1",
		ReviewedAt: time.Now(),
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
