package services

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// Every operation takes the authenticated caller explicitly as actor.

type AuthService interface {
	Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest, requiredRole models.UserRole) (*AuthResponse, error)
	Refresh(ctx context.Context, req *RefreshRequest) (*AccessTokenResponse, error)
	// Authenticate resolves a bearer access token to its user.
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
	CreateUser(ctx context.Context, req *CreateUserRequest) (*UserResponse, error)
}

type UserService interface {
	Profile(ctx context.Context, actor *models.User) (*UserResponse, error)
	StudentCount(ctx context.Context, actor *models.User) (*CountResponse, error)
	ListStudents(ctx context.Context, actor *models.User) ([]*StudentSummary, error)
}

type ExamService interface {
	Create(ctx context.Context, actor *models.User, req *CreateExamRequest) (*ExamResponse, error)
	List(ctx context.Context, actor *models.User) ([]*ExamResponse, error)
	Get(ctx context.Context, actor *models.User, id uint) (*ExamResponse, error)
	Update(ctx context.Context, actor *models.User, id uint, req *UpdateExamRequest) (*ExamResponse, error)
	Delete(ctx context.Context, actor *models.User, id uint) error

	Publish(ctx context.Context, actor *models.User, id uint) error
	Unpublish(ctx context.Context, actor *models.User, id uint) error

	AddQuestion(ctx context.Context, actor *models.User, examID uint, req *QuestionRequest) (*QuestionResponse, error)
	DeleteQuestion(ctx context.Context, actor *models.User, examID, questionID uint) error

	Activity(ctx context.Context, actor *models.User, examID uint) ([]*models.AuditLog, error)
}

type StudentExamService interface {
	Start(ctx context.Context, actor *models.User, req *StartExamRequest) (*SessionResponse, error)
	SubmitAnswer(ctx context.Context, actor *models.User, sessionID uint, req *SubmitAnswerRequest) error
	SubmitExam(ctx context.Context, actor *models.User, sessionID uint) (*SubmitExamResponse, error)
	Grade(ctx context.Context, actor *models.User, sessionID uint, req *GradeSessionRequest) (*SessionResponse, error)

	List(ctx context.Context, actor *models.User) ([]*SessionResponse, error)
	Get(ctx context.Context, actor *models.User, id uint) (*SessionResponse, error)
}

type MessageService interface {
	Send(ctx context.Context, actor *models.User, req *SendMessageRequest) (*MessageResponse, error)
	List(ctx context.Context, actor *models.User) ([]*MessageResponse, error)
	Get(ctx context.Context, actor *models.User, id uint) (*MessageResponse, error)
	MarkRead(ctx context.Context, actor *models.User, id uint) error
	UnreadCount(ctx context.Context, actor *models.User) (*CountResponse, error)
}

type SWOTService interface {
	ListQuestions(ctx context.Context, actor *models.User) ([]SWOTQuestionResponse, error)
	Submit(ctx context.Context, actor *models.User, req *SubmitSWOTRequest) (*SWOTAnalysisResponse, error)
	MyAnalyses(ctx context.Context, actor *models.User) ([]*SWOTAnalysisResponse, error)
	ListAnalyses(ctx context.Context, actor *models.User) ([]*SWOTAnalysisResponse, error)
	GetAnalysis(ctx context.Context, actor *models.User, id uint) (*SWOTAnalysisResponse, error)

	// SeedQuestions installs the default prompts that are missing and
	// returns how many were added.
	SeedQuestions(ctx context.Context) (int, error)
}

type ReportService interface {
	ExportStudents(ctx context.Context, actor *models.User) (*ExportFile, error)
	ExportResults(ctx context.Context, actor *models.User, examID uint) (*ExportFile, error)
}
