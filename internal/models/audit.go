package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditEventType string

const (
	AuditExamCreated      AuditEventType = "exam_created"
	AuditExamUpdated      AuditEventType = "exam_updated"
	AuditExamPublished    AuditEventType = "exam_published"
	AuditExamUnpublished  AuditEventType = "exam_unpublished"
	AuditQuestionCreated  AuditEventType = "question_created"
	AuditQuestionDeleted  AuditEventType = "question_deleted"
	AuditSessionSubmitted AuditEventType = "session_submitted"
	AuditGradeUpdated     AuditEventType = "grade_updated"
	AuditDataExported     AuditEventType = "data_exported"
)

// AuditLog records a state change on an exam. It is written in the same
// transaction as the change it describes.
type AuditLog struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	EventType AuditEventType `json:"event_type" gorm:"not null;size:40;index"`

	// Actor information
	UserID   uint     `json:"user_id" gorm:"not null;index"`
	UserRole UserRole `json:"user_role" gorm:"not null;size:20"`

	// Target information
	ExamID    uint  `json:"exam_id" gorm:"not null;index"`
	SessionID *uint `json:"session_id" gorm:"index"`

	Description string         `json:"description" gorm:"not null;type:text"`
	Changes     datatypes.JSON `json:"changes"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
