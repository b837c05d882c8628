package models

import (
	"time"
)

type SessionStatus string

const (
	SessionNotStarted SessionStatus = "not_started"
	SessionInProgress SessionStatus = "in_progress"
	SessionSubmitted  SessionStatus = "submitted"
	SessionGraded     SessionStatus = "graded"
)

// IsClosed is true once the student has handed the exam in.
func (s SessionStatus) IsClosed() bool {
	switch s {
	case SessionSubmitted, SessionGraded:
		return true
	case SessionNotStarted, SessionInProgress:
		return false
	default:
		return false
	}
}

// StudentExam is one student's sitting of one exam.
type StudentExam struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	StudentID   uint          `json:"student" gorm:"not null;uniqueIndex:idx_student_exam"`
	ExamID      uint          `json:"exam" gorm:"not null;uniqueIndex:idx_student_exam;index"`
	Status      SessionStatus `json:"status" gorm:"not null;size:20;index"`
	StartedAt   *time.Time    `json:"started_at" gorm:"index"`
	SubmittedAt *time.Time    `json:"submitted_at"`
	Score       *float64      `json:"score" gorm:"type:decimal(8,2)"`

	// Relations
	Student User     `json:"-" gorm:"foreignKey:StudentID"`
	Exam    Exam     `json:"-" gorm:"foreignKey:ExamID"`
	Answers []Answer `json:"answers" gorm:"foreignKey:StudentExamID"`
}

func (StudentExam) TableName() string {
	return "student_exams"
}

type Answer struct {
	ID            uint     `json:"id" gorm:"primaryKey"`
	StudentExamID uint     `json:"student_exam" gorm:"not null;uniqueIndex:idx_session_question"`
	QuestionID    uint     `json:"question" gorm:"not null;uniqueIndex:idx_session_question"`
	TextAnswer    string   `json:"text_answer" gorm:"type:text"`
	MarksObtained *float64 `json:"marks_obtained" gorm:"type:decimal(6,2)"`

	SelectedChoices []Choice `json:"selected_choices" gorm:"many2many:answer_selected_choices;"`
	Question        Question `json:"-" gorm:"foreignKey:QuestionID"`
}

func (Answer) TableName() string {
	return "answers"
}

// SelectedChoiceIDs returns the ids of the loaded selected choices.
func (a *Answer) SelectedChoiceIDs() []uint {
	ids := make([]uint, 0, len(a.SelectedChoices))
	for _, c := range a.SelectedChoices {
		ids = append(ids, c.ID)
	}
	return ids
}
