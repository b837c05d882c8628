package services

import (
	"log/slog"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/auth"
	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"gorm.io/gorm"
)

// ServiceManager gives the transport layer access to every service.
type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Exam() ExamService
	StudentExam() StudentExamService
	Message() MessageService
	SWOT() SWOTService
	Report() ReportService
}

type Dependencies struct {
	Repo      repositories.Repository
	DB        *gorm.DB
	Tokens    *auth.TokenManager
	Cache     cache.CacheService
	CacheTTL  time.Duration
	Publisher events.EventPublisher
	Logger    *slog.Logger
	Validator *validator.Validator
}

type serviceManager struct {
	auth        AuthService
	user        UserService
	exam        ExamService
	studentExam StudentExamService
	message     MessageService
	swot        SWOTService
	report      ReportService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	users := NewUserService(deps.Repo, deps.Logger)
	return &serviceManager{
		auth:        NewAuthService(deps.Repo, deps.Tokens, deps.Logger, deps.Validator),
		user:        users,
		exam:        NewExamService(deps.Repo, deps.DB, deps.Publisher, deps.Logger, deps.Validator),
		studentExam: NewStudentExamService(deps.Repo, deps.DB, deps.Publisher, deps.Logger, deps.Validator),
		message:     NewMessageService(deps.Repo, deps.Publisher, deps.Logger, deps.Validator),
		swot:        NewSWOTService(deps.Repo, deps.DB, deps.Cache, deps.CacheTTL, deps.Publisher, deps.Logger, deps.Validator),
		report:      NewReportService(deps.Repo, users, deps.Logger),
	}
}

func (m *serviceManager) Auth() AuthService               { return m.auth }
func (m *serviceManager) User() UserService               { return m.user }
func (m *serviceManager) Exam() ExamService               { return m.exam }
func (m *serviceManager) StudentExam() StudentExamService { return m.studentExam }
func (m *serviceManager) Message() MessageService         { return m.message }
func (m *serviceManager) SWOT() SWOTService               { return m.swot }
func (m *serviceManager) Report() ReportService           { return m.report }
