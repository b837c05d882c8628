package services

import (
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/dustin/go-humanize"
)

// ===== IDENTITY RESPONSES =====

type UserResponse struct {
	ID        uint            `json:"id"`
	Username  string          `json:"username"`
	Role      models.UserRole `json:"role"`
	StudentID *string         `json:"student_id"`
	FullName  string          `json:"full_name"`
	Email     string          `json:"email"`
}

type AuthResponse struct {
	User    *UserResponse `json:"user"`
	Refresh string        `json:"refresh"`
	Access  string        `json:"access"`
}

type AccessTokenResponse struct {
	Access string `json:"access"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

// StudentSummary is one row of the professor's student roster. Average is
// on a 0-20 scale and nil when the student has no evaluated exam.
type StudentSummary struct {
	ID        uint     `json:"id"`
	Name      string   `json:"name"`
	StudentID string   `json:"student_id"`
	Average   *float64 `json:"average"`
	HasSWOT   bool     `json:"has_swot"`
	ExamCount int64    `json:"exam_count"`
}

func NewUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		StudentID: user.StudentID,
		FullName:  user.FullName,
		Email:     user.Email,
	}
}

// ===== EXAM RESPONSES =====

type ChoiceResponse struct {
	ID         uint   `json:"id"`
	ChoiceText string `json:"choice_text"`
	IsCorrect  *bool  `json:"is_correct,omitempty"`
}

type QuestionResponse struct {
	ID           uint                `json:"id"`
	QuestionType models.QuestionType `json:"question_type"`
	QuestionText string              `json:"question_text"`
	Marks        float64             `json:"marks"`
	Order        int                 `json:"order"`
	Choices      []ChoiceResponse    `json:"choices"`
}

type ExamResponse struct {
	ID              uint               `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Professor       uint               `json:"professor"`
	ProfessorName   string             `json:"professor_name"`
	DurationMinutes int                `json:"duration_minutes"`
	TotalMarks      float64            `json:"total_marks"`
	IsPublished     bool               `json:"is_published"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Questions       []QuestionResponse `json:"questions"`
}

// NewQuestionResponse drops choice correctness for students.
func NewQuestionResponse(q *models.Question, viewer models.UserRole) QuestionResponse {
	revealAnswers := viewer != models.RoleStudent

	choices := make([]ChoiceResponse, 0, len(q.Choices))
	for _, c := range q.Choices {
		choice := ChoiceResponse{ID: c.ID, ChoiceText: c.ChoiceText}
		if revealAnswers {
			isCorrect := c.IsCorrect
			choice.IsCorrect = &isCorrect
		}
		choices = append(choices, choice)
	}

	return QuestionResponse{
		ID:           q.ID,
		QuestionType: q.QuestionType,
		QuestionText: q.QuestionText,
		Marks:        q.Marks,
		Order:        q.Order,
		Choices:      choices,
	}
}

func NewExamResponse(exam *models.Exam, viewer models.UserRole) *ExamResponse {
	questions := make([]QuestionResponse, 0, len(exam.Questions))
	for i := range exam.Questions {
		questions = append(questions, NewQuestionResponse(&exam.Questions[i], viewer))
	}

	return &ExamResponse{
		ID:              exam.ID,
		Title:           exam.Title,
		Description:     exam.Description,
		Professor:       exam.ProfessorID,
		ProfessorName:   exam.Professor.Username,
		DurationMinutes: exam.DurationMinutes,
		TotalMarks:      exam.TotalMarks,
		IsPublished:     exam.IsPublished,
		CreatedAt:       exam.CreatedAt,
		UpdatedAt:       exam.UpdatedAt,
		Questions:       questions,
	}
}

// ===== SESSION RESPONSES =====

type StatusResponse struct {
	Status string `json:"status"`
}

type SubmitExamResponse struct {
	Status string   `json:"status"`
	Score  *float64 `json:"score"`
}

type AnswerResponse struct {
	ID              uint     `json:"id"`
	Question        uint     `json:"question"`
	SelectedChoices []uint   `json:"selected_choices"`
	TextAnswer      string   `json:"text_answer"`
	MarksObtained   *float64 `json:"marks_obtained"`
}

type SessionResponse struct {
	ID          uint                 `json:"id"`
	Student     uint                 `json:"student"`
	StudentName string               `json:"student_name"`
	Exam        uint                 `json:"exam"`
	ExamTitle   string               `json:"exam_title"`
	Status      models.SessionStatus `json:"status"`
	StartedAt   *time.Time           `json:"started_at"`
	SubmittedAt *time.Time           `json:"submitted_at"`
	Score       *float64             `json:"score"`
	Answers     []AnswerResponse     `json:"answers"`
}

func NewSessionResponse(session *models.StudentExam) *SessionResponse {
	answers := make([]AnswerResponse, 0, len(session.Answers))
	for i := range session.Answers {
		a := &session.Answers[i]
		answers = append(answers, AnswerResponse{
			ID:              a.ID,
			Question:        a.QuestionID,
			SelectedChoices: a.SelectedChoiceIDs(),
			TextAnswer:      a.TextAnswer,
			MarksObtained:   a.MarksObtained,
		})
	}

	return &SessionResponse{
		ID:          session.ID,
		Student:     session.StudentID,
		StudentName: session.Student.DisplayName(),
		Exam:        session.ExamID,
		ExamTitle:   session.Exam.Title,
		Status:      session.Status,
		StartedAt:   session.StartedAt,
		SubmittedAt: session.SubmittedAt,
		Score:       session.Score,
		Answers:     answers,
	}
}

// ===== MESSAGE RESPONSES =====

type MessageResponse struct {
	ID          uint      `json:"id"`
	Student     uint      `json:"student"`
	StudentName string    `json:"student_name"`
	Professor   *uint     `json:"professor"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
	TimeAgo     string    `json:"time_ago"`
}

func NewMessageResponse(message *models.Message, now time.Time) *MessageResponse {
	return &MessageResponse{
		ID:          message.ID,
		Student:     message.StudentID,
		StudentName: message.Student.DisplayName(),
		Professor:   message.ProfessorID,
		Title:       message.Title,
		Message:     message.Body,
		IsRead:      message.IsRead,
		CreatedAt:   message.CreatedAt,
		TimeAgo:     humanize.RelTime(message.CreatedAt, now, "ago", "from now"),
	}
}

// ===== SWOT RESPONSES =====

type SWOTQuestionResponse struct {
	ID           uint                `json:"id"`
	QuestionText string              `json:"question_text"`
	Category     models.SWOTCategory `json:"category"`
	Order        int                 `json:"order"`
}

type SWOTAnswerResponse struct {
	ID         uint                 `json:"id"`
	Question   SWOTQuestionResponse `json:"question"`
	AnswerText string               `json:"answer_text"`
	CreatedAt  time.Time            `json:"created_at"`
}

type SWOTAnalysisResponse struct {
	ID          uint                 `json:"id"`
	Student     uint                 `json:"student"`
	StudentName string               `json:"student_name"`
	CreatedAt   time.Time            `json:"created_at"`
	CompletedAt *time.Time           `json:"completed_at"`
	IsCompleted bool                 `json:"is_completed"`
	Answers     []SWOTAnswerResponse `json:"answers"`
}

func NewSWOTQuestionResponse(q *models.SWOTQuestion) SWOTQuestionResponse {
	return SWOTQuestionResponse{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		Category:     q.Category,
		Order:        q.Order,
	}
}

func NewSWOTAnalysisResponse(analysis *models.SWOTAnalysis) *SWOTAnalysisResponse {
	answers := make([]SWOTAnswerResponse, 0, len(analysis.Answers))
	for i := range analysis.Answers {
		a := &analysis.Answers[i]
		answers = append(answers, SWOTAnswerResponse{
			ID:         a.ID,
			Question:   NewSWOTQuestionResponse(&a.Question),
			AnswerText: a.AnswerText,
			CreatedAt:  a.CreatedAt,
		})
	}

	return &SWOTAnalysisResponse{
		ID:          analysis.ID,
		Student:     analysis.StudentID,
		StudentName: analysis.Student.DisplayName(),
		CreatedAt:   analysis.CreatedAt,
		CompletedAt: analysis.CompletedAt,
		IsCompleted: analysis.IsCompleted,
		Answers:     answers,
	}
}

// ===== EXPORTS =====

// ExportFile is a generated download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
