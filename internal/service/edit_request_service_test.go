package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kasms254/KASMS-sub002/internal/models"
	"github.com/Kasms254/KASMS-sub002/internal/repository"
	appErrors "github.com/Kasms254/KASMS-sub002/pkg/errors"
)

type editRequestRepoStub struct {
	requests map[int64]*models.EditRequest
	nextID   int64
	filter   models.EditRequestFilter
}

func newEditRequestRepoStub() *editRequestRepoStub {
	return &editRequestRepoStub{requests: make(map[int64]*models.EditRequest), nextID: 1}
}

func (s *editRequestRepoStub) Create(ctx context.Context, request *models.EditRequest) error {
	request.ID = s.nextID
	request.Status = models.EditRequestStatusPending
	s.nextID++
	copy := *request
	s.requests[request.ID] = &copy
	return nil
}

func (s *editRequestRepoStub) GetByID(ctx context.Context, id int64) (*models.EditRequest, error) {
	if req, ok := s.requests[id]; ok {
		copy := *req
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *editRequestRepoStub) List(ctx context.Context, filter models.EditRequestFilter) ([]models.EditRequest, error) {
	s.filter = filter
	out := make([]models.EditRequest, 0, len(s.requests))
	for _, req := range s.requests {
		out = append(out, *req)
	}
	return out, nil
}

func (s *editRequestRepoStub) HasPending(ctx context.Context, resultID int64) (bool, error) {
	for _, req := range s.requests {
		if req.ResultID == resultID && req.Status == models.EditRequestStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (s *editRequestRepoStub) UpdateStatus(ctx context.Context, params repository.UpdateEditRequestParams) error {
	req, ok := s.requests[params.ID]
	if !ok || req.Status != models.EditRequestStatusPending {
		return sql.ErrNoRows
	}
	req.Status = params.Status
	req.ReviewedBy = &params.ReviewedBy
	req.ReviewedAt = &params.ReviewedAt
	req.Note = params.Note
	return nil
}

type lockedResultStoreStub struct {
	results map[int64]*models.ResultRecord
	applied []int64
}

func (s *lockedResultStoreStub) GetByID(ctx context.Context, id int64) (*models.ResultRecord, error) {
	if r, ok := s.results[id]; ok {
		copy := *r
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *lockedResultStoreStub) ApplyApprovedEdit(ctx context.Context, id int64, marks *float64, remarks *string) error {
	r, ok := s.results[id]
	if !ok || !r.IsLocked {
		return sql.ErrNoRows
	}
	if marks != nil {
		r.MarksObtained = marks
	}
	if remarks != nil {
		r.Remarks = *remarks
	}
	s.applied = append(s.applied, id)
	return nil
}

func editRequestFixture() (*EditRequestService, *editRequestRepoStub, *lockedResultStoreStub) {
	requests := newEditRequestRepoStub()
	results := &lockedResultStoreStub{results: map[int64]*models.ResultRecord{
		10: {ID: 10, StudentID: 21, ExamID: 7, MarksObtained: f64(55), IsLocked: true},
		11: {ID: 11, StudentID: 22, ExamID: 7, MarksObtained: f64(70)},
	}}
	exams := &examReaderStub{exam: testExam()}
	svc := NewEditRequestService(requests, results, exams, EditRequestConfig{MaxReasonLength: 500}, nil)
	return svc, requests, results
}

func TestSubmitEditRequest(t *testing.T) {
	svc, requests, results := editRequestFixture()

	request, err := svc.Submit(context.Background(), SubmitEditRequest{
		ResultID:      10,
		Reason:        "transcription error on the mark sheet",
		ProposedMarks: f64(65),
	}, "teacher-1")
	require.NoError(t, err)

	assert.Equal(t, models.EditRequestStatusPending, request.Status)
	assert.Equal(t, "teacher-1", request.RequestedBy)
	require.Len(t, requests.requests, 1)
	// Submission never touches the result itself.
	assert.Equal(t, 55.0, *results.results[10].MarksObtained)
	assert.Empty(t, results.applied)
}

func TestSubmitRequiresReason(t *testing.T) {
	svc, requests, _ := editRequestFixture()

	_, err := svc.Submit(context.Background(), SubmitEditRequest{ResultID: 10, Reason: "   "}, "teacher-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "reason is required", appErr.Fields["reason"])
	// Fail-fast: nothing reached the repository.
	assert.Empty(t, requests.requests)
}

func TestSubmitBoundsReasonLength(t *testing.T) {
	svc, _, _ := editRequestFixture()

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'x'
	}
	_, err := svc.Submit(context.Background(), SubmitEditRequest{ResultID: 10, Reason: string(long)}, "teacher-1")
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields["reason"], "at most 500")
}

func TestSubmitRejectsOutOfRangeProposedMarks(t *testing.T) {
	svc, _, _ := editRequestFixture()

	_, err := svc.Submit(context.Background(), SubmitEditRequest{
		ResultID:      10,
		Reason:        "late grading",
		ProposedMarks: f64(140),
	}, "teacher-1")
	require.Error(t, err)
	assert.Equal(t, "marks must be between 0 and 100", appErrors.FromError(err).Fields["proposed_marks"])
}

func TestSubmitRejectsUnlockedResult(t *testing.T) {
	svc, _, _ := editRequestFixture()

	_, err := svc.Submit(context.Background(), SubmitEditRequest{ResultID: 11, Reason: "typo"}, "teacher-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSubmitRejectsDuplicatePending(t *testing.T) {
	svc, _, _ := editRequestFixture()

	_, err := svc.Submit(context.Background(), SubmitEditRequest{ResultID: 10, Reason: "first"}, "teacher-1")
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), SubmitEditRequest{ResultID: 10, Reason: "second"}, "teacher-2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateRequest.Code, appErrors.FromError(err).Code)
}

func TestReviewApprovalAppliesEdit(t *testing.T) {
	svc, _, results := editRequestFixture()

	submitted, err := svc.Submit(context.Background(), SubmitEditRequest{
		ResultID:      10,
		Reason:        "recount",
		ProposedMarks: f64(62),
	}, "teacher-1")
	require.NoError(t, err)

	reviewed, err := svc.Review(context.Background(), submitted.ID, ReviewEditRequest{
		Status: models.EditRequestStatusApproved,
		Note:   "verified against the paper script",
	}, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, models.EditRequestStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, "admin-1", *reviewed.ReviewedBy)
	assert.Equal(t, 62.0, *results.results[10].MarksObtained)
	assert.Equal(t, []int64{10}, results.applied)
}

func TestReviewRejectionLeavesResultUntouched(t *testing.T) {
	svc, _, results := editRequestFixture()

	submitted, err := svc.Submit(context.Background(), SubmitEditRequest{
		ResultID:      10,
		Reason:        "recount",
		ProposedMarks: f64(62),
	}, "teacher-1")
	require.NoError(t, err)

	reviewed, err := svc.Review(context.Background(), submitted.ID, ReviewEditRequest{
		Status: models.EditRequestStatusRejected,
	}, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, models.EditRequestStatusRejected, reviewed.Status)
	assert.Equal(t, 55.0, *results.results[10].MarksObtained)
	assert.Empty(t, results.applied)
}

func TestReviewTerminalRequestConflicts(t *testing.T) {
	svc, _, _ := editRequestFixture()

	submitted, err := svc.Submit(context.Background(), SubmitEditRequest{ResultID: 10, Reason: "recount"}, "teacher-1")
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), submitted.ID, ReviewEditRequest{Status: models.EditRequestStatusRejected}, "admin-1")
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), submitted.ID, ReviewEditRequest{Status: models.EditRequestStatusApproved}, "admin-2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestReviewRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := editRequestFixture()

	submitted, err := svc.Submit(context.Background(), SubmitEditRequest{ResultID: 10, Reason: "recount"}, "teacher-1")
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), submitted.ID, ReviewEditRequest{Status: "MAYBE"}, "admin-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestListScopesTeachersToOwnRequests(t *testing.T) {
	svc, requests, _ := editRequestFixture()

	_, err := svc.List(context.Background(), models.EditRequestFilter{}, &models.JWTClaims{UserID: "teacher-1", Role: models.RoleTeacher})
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", requests.filter.RequestedBy)

	_, err = svc.List(context.Background(), models.EditRequestFilter{}, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Empty(t, requests.filter.RequestedBy)
}

func TestListRejectsUnknownRole(t *testing.T) {
	svc, _, _ := editRequestFixture()

	_, err := svc.List(context.Background(), models.EditRequestFilter{}, &models.JWTClaims{UserID: "x", Role: "STUDENT"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
