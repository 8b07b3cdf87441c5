package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Kasms254/KASMS-sub002/internal/middleware"
	"github.com/Kasms254/KASMS-sub002/internal/models"
	"github.com/Kasms254/KASMS-sub002/internal/service"
	appErrors "github.com/Kasms254/KASMS-sub002/pkg/errors"
)

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// testAuth injects claims from a header so routes can exercise RBAC without
// minting real tokens.
func testAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role := c.GetHeader("X-Test-Role"); role != "" {
			c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.UserRole(role)})
		}
		c.Next()
	}
}

type resultServiceStub struct {
	roster  *service.ExamRosterResponse
	outcome *service.BulkSaveResult
	err     error
}

func (s *resultServiceStub) LoadExamResults(ctx context.Context, examID int64) (*service.ExamRosterResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.roster, nil
}

func (s *resultServiceStub) BulkSave(ctx context.Context, examID int64, req service.BulkSaveRequest) (*service.BulkSaveResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.outcome, nil
}

func resultRouter(stub *resultServiceStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(testAuth())
	h := NewResultHandler(stub)
	router.GET("/exams/:id/results", h.List)
	router.POST("/exams/:id/results/bulk", h.BulkSave)
	return router
}

func TestResultHandlerList(t *testing.T) {
	marks := 80.0
	stub := &resultServiceStub{roster: &service.ExamRosterResponse{
		Exam: models.Exam{ID: 7, Name: "Midterm", TotalMarks: 100},
		Results: []models.ResultRecord{
			{ID: 1, StudentID: 11, MarksObtained: &marks},
		},
		Counts: models.RosterCounts{Total: 1, Submitted: 1},
	}}
	router := resultRouter(stub)

	req, _ := http.NewRequest(http.MethodGet, "/exams/7/results", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"submittedCount":1`)
}

func TestResultHandlerListInvalidID(t *testing.T) {
	router := resultRouter(&resultServiceStub{})

	req, _ := http.NewRequest(http.MethodGet, "/exams/abc/results", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestResultHandlerListNotFound(t *testing.T) {
	router := resultRouter(&resultServiceStub{err: appErrors.Clone(appErrors.ErrNotFound, "exam not found")})

	req, _ := http.NewRequest(http.MethodGet, "/exams/99/results", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
	require.Contains(t, resp.Body.String(), "exam not found")
}

func TestResultHandlerBulkSave(t *testing.T) {
	stub := &resultServiceStub{outcome: &service.BulkSaveResult{
		Updated: 2,
		Errors:  []string{"Row 5: result is locked"},
	}}
	router := resultRouter(stub)

	payload := `{"results":[{"id":1,"studentId":11,"marksObtained":85},{"id":2,"studentId":12,"marksObtained":61}]}`
	req, _ := http.NewRequest(http.MethodPost, "/exams/7/results/bulk", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"updated":2`)
	require.Contains(t, resp.Body.String(), "Row 5: result is locked")
}

func TestResultHandlerBulkSaveMalformedBody(t *testing.T) {
	router := resultRouter(&resultServiceStub{})

	req, _ := http.NewRequest(http.MethodPost, "/exams/7/results/bulk", bytes.NewBufferString(`{"results":`))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}
