package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testToken = "valid-token"

type routerFixture struct {
	router      *gin.Engine
	auth        *MockAuthService
	exam        *MockExamService
	studentExam *MockStudentExamService
}

func newRouterFixture(t *testing.T, user *models.User) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &routerFixture{
		router:      gin.New(),
		auth:        new(MockAuthService),
		exam:        new(MockExamService),
		studentExam: new(MockStudentExamService),
	}
	if user != nil {
		f.auth.On("Authenticate", mock.Anything, testToken).Return(user, nil)
	}

	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	manager := &mockServiceManager{auth: f.auth, exam: f.exam, studentExam: f.studentExam}
	NewHandlerManager(manager, logger).SetupRoutes(f.router)
	return f
}

func (f *routerFixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func professor() *models.User {
	return &models.User{ID: 1, Username: "prof", Role: models.RoleProfessor}
}

func TestHealthCheck(t *testing.T) {
	f := newRouterFixture(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"exam-service"}`, w.Body.String())
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		f := newRouterFixture(t, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/exams", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Authentication credentials were not provided", decodeError(t, w).Message)
		f.auth.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		f := newRouterFixture(t, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/exams", nil)
		req.Header.Set("Authorization", "Token "+testToken)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		f := newRouterFixture(t, nil)
		f.auth.On("Authenticate", mock.Anything, testToken).Return(nil, services.ErrInvalidToken)

		w := f.do(http.MethodGet, "/api/v1/exams", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid or expired token", decodeError(t, w).Message)
		f.exam.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("valid token reaches handler", func(t *testing.T) {
		user := professor()
		f := newRouterFixture(t, user)
		f.exam.On("List", mock.Anything, user).Return([]*services.ExamResponse{{ID: 3, Title: "Algebra"}}, nil)

		w := f.do(http.MethodGet, "/api/v1/exams", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var exams []services.ExamResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exams))
		require.Len(t, exams, 1)
		assert.Equal(t, "Algebra", exams[0].Title)
		f.exam.AssertExpectations(t)
	})
}

func TestHandleServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", services.NewValidationError("title", "is required", ""), http.StatusBadRequest, "Validation failed"},
		{"permission", services.NewPermissionError(1, 7, "exam", "get", "nope"), http.StatusForbidden, "Access denied"},
		{"unauthorized", services.ErrUnauthorized, http.StatusUnauthorized, "User not authenticated"},
		{"not submitted", services.ErrSessionNotSubmitted, http.StatusConflict, "Exam has not been submitted"},
		{"not found", services.ErrExamNotFound, http.StatusNotFound, "Exam not found"},
		{"conflict", services.ErrSessionAlreadySubmitted, http.StatusConflict, "Exam already submitted"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := professor()
			f := newRouterFixture(t, user)
			f.exam.On("Get", mock.Anything, user, uint(7)).Return(nil, tt.err)

			w := f.do(http.MethodGet, "/api/v1/exams/7", nil)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decodeError(t, w).Message)
		})
	}
}

func TestExamHandler_InvalidID(t *testing.T) {
	f := newRouterFixture(t, professor())

	for _, path := range []string{"/api/v1/exams/abc", "/api/v1/exams/0"} {
		w := f.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "Invalid id", decodeError(t, w).Message)
	}
	f.exam.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestExamHandler_PublishAndUnpublish(t *testing.T) {
	user := professor()
	f := newRouterFixture(t, user)
	f.exam.On("Publish", mock.Anything, user, uint(4)).Return(nil)
	f.exam.On("Unpublish", mock.Anything, user, uint(4)).Return(nil)

	w := f.do(http.MethodPost, "/api/v1/exams/4/publish", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"Exam published"}`, w.Body.String())

	w = f.do(http.MethodPost, "/api/v1/exams/4/unpublish", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"Exam unpublished"}`, w.Body.String())

	f.exam.AssertExpectations(t)
}

func TestExamHandler_CreateAndDelete(t *testing.T) {
	user := professor()
	f := newRouterFixture(t, user)
	f.exam.On("Create", mock.Anything, user, mock.MatchedBy(func(req *services.CreateExamRequest) bool {
		return req.Title == "Physics"
	})).Return(&services.ExamResponse{ID: 9, Title: "Physics"}, nil)
	f.exam.On("Delete", mock.Anything, user, uint(9)).Return(nil)

	w := f.do(http.MethodPost, "/api/v1/exams", map[string]interface{}{"title": "Physics"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = f.do(http.MethodDelete, "/api/v1/exams/9", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	f.exam.AssertExpectations(t)
}

func TestExamHandler_MalformedBody(t *testing.T) {
	f := newRouterFixture(t, professor())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/exams", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request payload", decodeError(t, w).Message)
	f.exam.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestStudentExamHandler_SubmitAnswer(t *testing.T) {
	student := &models.User{ID: 2, Username: "stu", Role: models.RoleStudent}
	f := newRouterFixture(t, student)
	f.studentExam.On("SubmitAnswer", mock.Anything, student, uint(5), mock.MatchedBy(func(req *services.SubmitAnswerRequest) bool {
		return req.QuestionID == 11 && len(req.SelectedChoices) == 1 && req.SelectedChoices[0] == 21
	})).Return(nil)

	w := f.do(http.MethodPost, "/api/v1/student-exams/5/submit_answer", map[string]interface{}{
		"question_id":      11,
		"selected_choices": []uint{21},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"Answer saved"}`, w.Body.String())
	f.studentExam.AssertExpectations(t)
}

func TestStudentExamHandler_SubmitExamConflict(t *testing.T) {
	student := &models.User{ID: 2, Username: "stu", Role: models.RoleStudent}
	f := newRouterFixture(t, student)
	f.studentExam.On("SubmitExam", mock.Anything, student, uint(5)).Return(nil, services.ErrSessionAlreadySubmitted)

	w := f.do(http.MethodPost, "/api/v1/student-exams/5/submit_exam", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Exam already submitted", decodeError(t, w).Message)
}
