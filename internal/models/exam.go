package models

import (
	"time"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionSingleChoice   QuestionType = "single_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionLongAnswer     QuestionType = "long_answer"
)

// HasChoices is false only for free-text questions.
func (t QuestionType) HasChoices() bool {
	switch t {
	case QuestionMultipleChoice, QuestionSingleChoice, QuestionTrueFalse:
		return true
	case QuestionLongAnswer:
		return false
	default:
		return false
	}
}

func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionMultipleChoice, QuestionSingleChoice, QuestionTrueFalse, QuestionLongAnswer:
		return true
	default:
		return false
	}
}

type Exam struct {
	ID              uint    `json:"id" gorm:"primaryKey"`
	Title           string  `json:"title" gorm:"not null;size:255"`
	Description     string  `json:"description" gorm:"type:text"`
	ProfessorID     uint    `json:"professor" gorm:"not null;index"`
	DurationMinutes int     `json:"duration_minutes" gorm:"not null"`
	TotalMarks      float64 `json:"total_marks" gorm:"type:decimal(8,2);not null;default:0"`
	IsPublished     bool    `json:"is_published" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Professor User       `json:"-" gorm:"foreignKey:ProfessorID"`
	Questions []Question `json:"questions" gorm:"foreignKey:ExamID"`
}

func (Exam) TableName() string {
	return "exams"
}

// SumMarks adds up the marks of the loaded questions.
func (e *Exam) SumMarks() float64 {
	var total float64
	for _, q := range e.Questions {
		total += q.Marks
	}
	return total
}

type Question struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	ExamID       uint         `json:"exam" gorm:"not null;index"`
	QuestionType QuestionType `json:"question_type" gorm:"not null;size:20"`
	QuestionText string       `json:"question_text" gorm:"not null;type:text"`
	Marks        float64      `json:"marks" gorm:"type:decimal(6,2);not null"`
	Order        int          `json:"order" gorm:"column:sort_order;not null"`

	Choices []Choice `json:"choices" gorm:"foreignKey:QuestionID"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectChoiceIDs returns the ids of the loaded choices marked correct.
func (q *Question) CorrectChoiceIDs() []uint {
	ids := make([]uint, 0, len(q.Choices))
	for _, c := range q.Choices {
		if c.IsCorrect {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

type Choice struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question" gorm:"not null;index"`
	ChoiceText string `json:"choice_text" gorm:"not null;size:500"`
	IsCorrect  bool   `json:"is_correct" gorm:"not null"`
}

func (Choice) TableName() string {
	return "choices"
}
