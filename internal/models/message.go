package models

import "time"

// Message is a student note to one professor, or to every professor when
// ProfessorID is nil.
type Message struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	StudentID   uint      `json:"student" gorm:"not null;index"`
	ProfessorID *uint     `json:"professor" gorm:"index"`
	Title       string    `json:"title" gorm:"not null;size:255"`
	Body        string    `json:"message" gorm:"column:message;not null;type:text"`
	IsRead      bool      `json:"is_read" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`

	Student   User  `json:"-" gorm:"foreignKey:StudentID"`
	Professor *User `json:"-" gorm:"foreignKey:ProfessorID"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) IsBroadcast() bool {
	return m.ProfessorID == nil
}
