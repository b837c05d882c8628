package models

import "time"

type SWOTCategory string

const (
	SWOTStrength    SWOTCategory = "strength"
	SWOTWeakness    SWOTCategory = "weakness"
	SWOTOpportunity SWOTCategory = "opportunity"
	SWOTThreat      SWOTCategory = "threat"
)

func (c SWOTCategory) IsValid() bool {
	switch c {
	case SWOTStrength, SWOTWeakness, SWOTOpportunity, SWOTThreat:
		return true
	default:
		return false
	}
}

type SWOTQuestion struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	QuestionText string       `json:"question_text" gorm:"not null;type:text"`
	Category     SWOTCategory `json:"category" gorm:"not null;size:20;index"`
	Order        int          `json:"order" gorm:"column:sort_order;not null;default:0"`
	IsActive     bool         `json:"is_active" gorm:"not null;index"`
}

func (SWOTQuestion) TableName() string {
	return "swot_questions"
}

type SWOTAnalysis struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	StudentID   uint       `json:"student" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	CompletedAt *time.Time `json:"completed_at"`
	IsCompleted bool       `json:"is_completed" gorm:"not null;index"`

	Student User         `json:"-" gorm:"foreignKey:StudentID"`
	Answers []SWOTAnswer `json:"answers" gorm:"foreignKey:AnalysisID"`
}

func (SWOTAnalysis) TableName() string {
	return "swot_analyses"
}

type SWOTAnswer struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	AnalysisID uint      `json:"analysis" gorm:"not null;index"`
	QuestionID uint      `json:"question" gorm:"not null;index"`
	AnswerText string    `json:"answer_text" gorm:"not null;type:text"`
	CreatedAt  time.Time `json:"created_at"`

	Question SWOTQuestion `json:"-" gorm:"foreignKey:QuestionID"`
}

func (SWOTAnswer) TableName() string {
	return "swot_answers"
}

// DefaultSWOTQuestions is the prompt set installed by the seed command.
func DefaultSWOTQuestions() []SWOTQuestion {
	return []SWOTQuestion{
		{QuestionText: "What are your strongest academic subjects?", Category: SWOTStrength, Order: 1, IsActive: true},
		{QuestionText: "What skills do you excel at?", Category: SWOTStrength, Order: 2, IsActive: true},
		{QuestionText: "What do others recognize as your strengths?", Category: SWOTStrength, Order: 3, IsActive: true},
		{QuestionText: "Which subjects do you find most challenging?", Category: SWOTWeakness, Order: 4, IsActive: true},
		{QuestionText: "What study habits would you like to improve?", Category: SWOTWeakness, Order: 5, IsActive: true},
		{QuestionText: "What skills do you need to develop?", Category: SWOTWeakness, Order: 6, IsActive: true},
		{QuestionText: "What learning resources are available to you?", Category: SWOTOpportunity, Order: 7, IsActive: true},
		{QuestionText: "What career opportunities interest you?", Category: SWOTOpportunity, Order: 8, IsActive: true},
		{QuestionText: "How can you take advantage of upcoming courses or programs?", Category: SWOTOpportunity, Order: 9, IsActive: true},
		{QuestionText: "What obstacles might prevent you from achieving your goals?", Category: SWOTThreat, Order: 10, IsActive: true},
		{QuestionText: "What external factors affect your academic performance?", Category: SWOTThreat, Order: 11, IsActive: true},
		{QuestionText: "What competition do you face in your field?", Category: SWOTThreat, Order: 12, IsActive: true},
	}
}
