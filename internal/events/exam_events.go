package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of domain events
type EventType string

const (
	EventExamPublished EventType = "exam.published"
	EventExamSubmitted EventType = "exam.submitted"
	EventExamGraded    EventType = "exam.graded"
	EventMessageSent   EventType = "message.sent"
	EventSWOTSubmitted EventType = "swot.submitted"
)

const (
	eventSource  = "exam-service"
	eventVersion = "1.0"
)

// DomainEvent is the envelope for every published event
type DomainEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type ExamPublishedEvent struct {
	ExamID          uint    `json:"exam_id"`
	ExamTitle       string  `json:"exam_title"`
	ProfessorID     uint    `json:"professor_id"`
	DurationMinutes int     `json:"duration_minutes"`
	TotalMarks      float64 `json:"total_marks"`
}

type ExamSubmittedEvent struct {
	SessionID   uint      `json:"session_id"`
	ExamID      uint      `json:"exam_id"`
	ExamTitle   string    `json:"exam_title"`
	StudentID   uint      `json:"student_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type ExamGradedEvent struct {
	SessionID  uint    `json:"session_id"`
	ExamID     uint    `json:"exam_id"`
	StudentID  uint    `json:"student_id"`
	Score      float64 `json:"score"`
	TotalMarks float64 `json:"total_marks"`
	GradedBy   *uint   `json:"graded_by,omitempty"` // nil when auto-graded
}

type MessageSentEvent struct {
	MessageID   uint   `json:"message_id"`
	StudentID   uint   `json:"student_id"`
	ProfessorID *uint  `json:"professor_id,omitempty"`
	Title       string `json:"title"`
}

type SWOTSubmittedEvent struct {
	AnalysisID  uint `json:"analysis_id"`
	StudentID   uint `json:"student_id"`
	AnswerCount int  `json:"answer_count"`
}

func NewDomainEvent(eventType EventType, data interface{}) *DomainEvent {
	return &DomainEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewExamPublishedEvent(examID uint, title string, professorID uint, duration int, totalMarks float64) *DomainEvent {
	return NewDomainEvent(EventExamPublished, ExamPublishedEvent{
		ExamID:          examID,
		ExamTitle:       title,
		ProfessorID:     professorID,
		DurationMinutes: duration,
		TotalMarks:      totalMarks,
	})
}

func NewExamSubmittedEvent(sessionID, examID uint, title string, studentID uint, submittedAt time.Time) *DomainEvent {
	return NewDomainEvent(EventExamSubmitted, ExamSubmittedEvent{
		SessionID:   sessionID,
		ExamID:      examID,
		ExamTitle:   title,
		StudentID:   studentID,
		SubmittedAt: submittedAt,
	})
}

func NewExamGradedEvent(sessionID, examID, studentID uint, score, totalMarks float64, gradedBy *uint) *DomainEvent {
	return NewDomainEvent(EventExamGraded, ExamGradedEvent{
		SessionID:  sessionID,
		ExamID:     examID,
		StudentID:  studentID,
		Score:      score,
		TotalMarks: totalMarks,
		GradedBy:   gradedBy,
	})
}

func NewMessageSentEvent(messageID, studentID uint, professorID *uint, title string) *DomainEvent {
	return NewDomainEvent(EventMessageSent, MessageSentEvent{
		MessageID:   messageID,
		StudentID:   studentID,
		ProfessorID: professorID,
		Title:       title,
	})
}

func NewSWOTSubmittedEvent(analysisID, studentID uint, answerCount int) *DomainEvent {
	return NewDomainEvent(EventSWOTSubmitted, SWOTSubmittedEvent{
		AnalysisID:  analysisID,
		StudentID:   studentID,
		AnswerCount: answerCount,
	})
}

// GenerateEventID returns a random event id
func GenerateEventID() string {
	return uuid.NewString()
}
