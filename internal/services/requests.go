package services

import (
	"github.com/SAP-F-2025/exam-service/internal/models"
)

// ===== AUTH REQUESTS =====

type SignupRequest struct {
	StudentID string `json:"student_id" validate:"required,not_blank,max=50"`
	FullName  string `json:"full_name" validate:"required,not_blank,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=128"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,not_blank,max=150"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// CreateUserRequest is used by the command line to provision staff accounts.
type CreateUserRequest struct {
	Username  string  `json:"username" validate:"required,not_blank,max=150"`
	Password  string  `json:"password" validate:"required,min=6,max=128"`
	Role      string  `json:"role" validate:"required,user_role"`
	FullName  string  `json:"full_name" validate:"max=255"`
	Email     string  `json:"email" validate:"omitempty,email,max=255"`
	StudentID *string `json:"student_id" validate:"omitempty,not_blank,max=50"`
}

// ===== EXAM REQUESTS =====

type ChoiceRequest struct {
	ChoiceText string `json:"choice_text" validate:"required,not_blank,max=500"`
	IsCorrect  bool   `json:"is_correct"`
}

type QuestionRequest struct {
	QuestionType models.QuestionType `json:"question_type" validate:"required,question_type"`
	QuestionText string              `json:"question_text" validate:"required,not_blank"`
	Marks        float64             `json:"marks" validate:"gt=0,max=1000"`
	Choices      []ChoiceRequest     `json:"choices" validate:"omitempty,dive"`
}

type CreateExamRequest struct {
	Title           string            `json:"title" validate:"required,not_blank,max=255"`
	Description     string            `json:"description"`
	DurationMinutes int               `json:"duration_minutes" validate:"required,gt=0,max=1440"`
	IsPublished     bool              `json:"is_published"`
	Questions       []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// UpdateExamRequest is a partial update; nil fields are left alone.
type UpdateExamRequest struct {
	Title           *string `json:"title" validate:"omitempty,not_blank,max=255"`
	Description     *string `json:"description"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,gt=0,max=1440"`
}

// ===== SESSION REQUESTS =====

type StartExamRequest struct {
	ExamID uint `json:"exam_id" validate:"required"`
}

type SubmitAnswerRequest struct {
	QuestionID      uint   `json:"question_id" validate:"required"`
	SelectedChoices []uint `json:"selected_choices"`
	TextAnswer      string `json:"text_answer"`
}

type AnswerGradeRequest struct {
	ID            uint     `json:"id"`
	MarksObtained *float64 `json:"marks_obtained"`
}

type GradeSessionRequest struct {
	Answers []AnswerGradeRequest `json:"answers"`
}

// ===== MESSAGE REQUESTS =====

type SendMessageRequest struct {
	Title       string `json:"title" validate:"required,not_blank,max=255"`
	Message     string `json:"message" validate:"required,not_blank"`
	ProfessorID *uint  `json:"professor"`
}

// ===== SWOT REQUESTS =====

// SWOTAnswerRequest uses pointers so a missing key is told apart from a
// zero value.
type SWOTAnswerRequest struct {
	QuestionID *uint   `json:"question_id" validate:"required"`
	AnswerText *string `json:"answer_text" validate:"required,not_blank"`
}

type SubmitSWOTRequest struct {
	Answers []SWOTAnswerRequest `json:"answers" validate:"required,min=1,dive"`
}
