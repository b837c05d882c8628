package handlers

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockAuthService is a mock implementation of services.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, req *services.SignupRequest) (*services.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *services.LoginRequest, role models.UserRole) (*services.AuthResponse, error) {
	args := m.Called(ctx, req, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, req *services.RefreshRequest) (*services.AccessTokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AccessTokenResponse), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) CreateUser(ctx context.Context, req *services.CreateUserRequest) (*services.UserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.UserResponse), args.Error(1)
}

// MockExamService is a mock implementation of services.ExamService
type MockExamService struct {
	mock.Mock
}

func (m *MockExamService) Create(ctx context.Context, actor *models.User, req *services.CreateExamRequest) (*services.ExamResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ExamResponse), args.Error(1)
}

func (m *MockExamService) List(ctx context.Context, actor *models.User) ([]*services.ExamResponse, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*services.ExamResponse), args.Error(1)
}

func (m *MockExamService) Get(ctx context.Context, actor *models.User, id uint) (*services.ExamResponse, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ExamResponse), args.Error(1)
}

func (m *MockExamService) Update(ctx context.Context, actor *models.User, id uint, req *services.UpdateExamRequest) (*services.ExamResponse, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ExamResponse), args.Error(1)
}

func (m *MockExamService) Delete(ctx context.Context, actor *models.User, id uint) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockExamService) Publish(ctx context.Context, actor *models.User, id uint) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockExamService) Unpublish(ctx context.Context, actor *models.User, id uint) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockExamService) AddQuestion(ctx context.Context, actor *models.User, examID uint, req *services.QuestionRequest) (*services.QuestionResponse, error) {
	args := m.Called(ctx, actor, examID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.QuestionResponse), args.Error(1)
}

func (m *MockExamService) DeleteQuestion(ctx context.Context, actor *models.User, examID, questionID uint) error {
	return m.Called(ctx, actor, examID, questionID).Error(0)
}

func (m *MockExamService) Activity(ctx context.Context, actor *models.User, examID uint) ([]*models.AuditLog, error) {
	args := m.Called(ctx, actor, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

// MockStudentExamService is a mock implementation of services.StudentExamService
type MockStudentExamService struct {
	mock.Mock
}

func (m *MockStudentExamService) Start(ctx context.Context, actor *models.User, req *services.StartExamRequest) (*services.SessionResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SessionResponse), args.Error(1)
}

func (m *MockStudentExamService) SubmitAnswer(ctx context.Context, actor *models.User, sessionID uint, req *services.SubmitAnswerRequest) error {
	return m.Called(ctx, actor, sessionID, req).Error(0)
}

func (m *MockStudentExamService) SubmitExam(ctx context.Context, actor *models.User, sessionID uint) (*services.SubmitExamResponse, error) {
	args := m.Called(ctx, actor, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SubmitExamResponse), args.Error(1)
}

func (m *MockStudentExamService) Grade(ctx context.Context, actor *models.User, sessionID uint, req *services.GradeSessionRequest) (*services.SessionResponse, error) {
	args := m.Called(ctx, actor, sessionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SessionResponse), args.Error(1)
}

func (m *MockStudentExamService) List(ctx context.Context, actor *models.User) ([]*services.SessionResponse, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*services.SessionResponse), args.Error(1)
}

func (m *MockStudentExamService) Get(ctx context.Context, actor *models.User, id uint) (*services.SessionResponse, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SessionResponse), args.Error(1)
}

// mockServiceManager hands out the mocks above; services a test does not
// exercise stay nil.
type mockServiceManager struct {
	auth        *MockAuthService
	exam        *MockExamService
	studentExam *MockStudentExamService
}

func (m *mockServiceManager) Auth() services.AuthService               { return m.auth }
func (m *mockServiceManager) User() services.UserService               { return nil }
func (m *mockServiceManager) Exam() services.ExamService               { return m.exam }
func (m *mockServiceManager) StudentExam() services.StudentExamService { return m.studentExam }
func (m *mockServiceManager) Message() services.MessageService         { return nil }
func (m *mockServiceManager) SWOT() services.SWOTService               { return nil }
func (m *mockServiceManager) Report() services.ReportService           { return nil }
