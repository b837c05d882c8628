package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"gorm.io/gorm"
)

// Repository aggregates the per-aggregate repositories. Every method takes
// an optional tx; nil means "use the root connection".
type Repository interface {
	User() UserRepository
	Exam() ExamRepository
	StudentExam() StudentExamRepository
	Message() MessageRepository
	SWOT() SWOTRepository
	Audit() AuditRepository

	Ping(ctx context.Context) error
}

// ===== SHARED FILTER STRUCTS =====

type ExamFilters struct {
	ProfessorID   *uint `json:"professor_id"`
	PublishedOnly bool  `json:"published_only"`
}

type StudentExamFilters struct {
	StudentID   *uint `json:"student_id"`
	ProfessorID *uint `json:"professor_id"` // sessions of exams owned by this professor
	ExamID      *uint `json:"exam_id"`
}

type MessageFilters struct {
	StudentID *uint `json:"student_id"`
	InboxOf   *uint `json:"inbox_of"` // addressed to this professor, plus broadcasts
}

type SWOTAnalysisFilters struct {
	StudentID     *uint `json:"student_id"`
	CompletedOnly bool  `json:"completed_only"`
}

// ===== SHARED STATISTICS STRUCTS =====

// StudentResultStats aggregates a student's evaluated sessions: those with
// status submitted or graded and a recorded score.
type StudentResultStats struct {
	StudentID   uint    `json:"student_id"`
	ExamCount   int64   `json:"exam_count"`
	ScoreSum    float64 `json:"score_sum"`
	PossibleSum float64 `json:"possible_sum"`
}

// AnswerGrade is a professor-supplied mark for one answer.
type AnswerGrade struct {
	ID            uint     `json:"id"`
	MarksObtained *float64 `json:"marks_obtained"`
}

// ===== ERROR HELPERS =====

func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// ===== AGGREGATE REPOSITORIES =====

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	ExistsByUsernameOrStudentID(ctx context.Context, tx *gorm.DB, username, studentID string) (bool, error)
	ListByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) ([]*models.User, error)
	CountByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) (int64, error)
	UpdateLastLogin(ctx context.Context, tx *gorm.DB, id uint) error
}

type ExamRepository interface {
	Create(ctx context.Context, tx *gorm.DB, exam *models.Exam) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error) // questions, choices, professor
	List(ctx context.Context, tx *gorm.DB, filters ExamFilters) ([]*models.Exam, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Question management
	AddQuestion(ctx context.Context, tx *gorm.DB, question *models.Question) error
	GetQuestion(ctx context.Context, tx *gorm.DB, examID, questionID uint) (*models.Question, error)
	DeleteQuestion(ctx context.Context, tx *gorm.DB, questionID uint) error
	MaxQuestionOrder(ctx context.Context, tx *gorm.DB, examID uint) (int, error)
	RecalculateTotalMarks(ctx context.Context, tx *gorm.DB, examID uint) (float64, error)
	GetChoices(ctx context.Context, tx *gorm.DB, questionID uint, ids []uint) ([]models.Choice, error)
}

type StudentExamRepository interface {
	// CreateIfAbsent inserts the session unless one already exists for the
	// (student, exam) pair and reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, session *models.StudentExam) (bool, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentExam, error) // exam preloaded
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentExam, error)
	GetByStudentAndExam(ctx context.Context, tx *gorm.DB, studentID, examID uint) (*models.StudentExam, error)
	List(ctx context.Context, tx *gorm.DB, filters StudentExamFilters) ([]*models.StudentExam, error)
	Update(ctx context.Context, tx *gorm.DB, session *models.StudentExam) error
	// MarkSubmitted closes an open session and reports false when it was
	// already submitted or graded.
	MarkSubmitted(ctx context.Context, tx *gorm.DB, id uint, submittedAt time.Time) (bool, error)
	// LockOpen holds the session row until tx ends and reports false when
	// the session is closed.
	LockOpen(ctx context.Context, tx *gorm.DB, id uint) (bool, error)

	// Answers
	UpsertAnswer(ctx context.Context, tx *gorm.DB, answer *models.Answer, choices []models.Choice) error
	GetAnswers(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.Answer, error) // choices and question choices preloaded
	UpdateAnswerMarks(ctx context.Context, tx *gorm.DB, answerID uint, marks *float64) error

	// Aggregations
	GetStudentResultStats(ctx context.Context, tx *gorm.DB) (map[uint]*StudentResultStats, error)
}

type MessageRepository interface {
	Create(ctx context.Context, tx *gorm.DB, message *models.Message) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Message, error)
	List(ctx context.Context, tx *gorm.DB, filters MessageFilters) ([]*models.Message, error)
	MarkRead(ctx context.Context, tx *gorm.DB, id uint) error
	CountUnread(ctx context.Context, tx *gorm.DB, professorID uint) (int64, error)
}

type SWOTRepository interface {
	ListQuestions(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*models.SWOTQuestion, error)
	GetQuestionsByIDs(ctx context.Context, tx *gorm.DB, ids []uint) (map[uint]*models.SWOTQuestion, error)
	CreateQuestionIfMissing(ctx context.Context, tx *gorm.DB, question *models.SWOTQuestion) (bool, error)

	CreateAnalysis(ctx context.Context, tx *gorm.DB, analysis *models.SWOTAnalysis) error
	GetAnalysis(ctx context.Context, tx *gorm.DB, id uint) (*models.SWOTAnalysis, error)
	ListAnalyses(ctx context.Context, tx *gorm.DB, filters SWOTAnalysisFilters) ([]*models.SWOTAnalysis, error)
	StudentsWithCompletedAnalysis(ctx context.Context, tx *gorm.DB) (map[uint]bool, error)
}

type AuditRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *models.AuditLog) error
	ListByExam(ctx context.Context, tx *gorm.DB, examID uint) ([]*models.AuditLog, error)
}
