package models

import (
	"fmt"
	"time"
)

type UserRole string
type Role = UserRole

const (
	RoleSuperuser UserRole = "superuser"
	RoleProfessor UserRole = "professor"
	RoleStudent   UserRole = "student"
)

// ParseRole rejects anything outside the three known roles.
func ParseRole(value string) (UserRole, error) {
	switch UserRole(value) {
	case RoleSuperuser, RoleProfessor, RoleStudent:
		return UserRole(value), nil
	default:
		return "", fmt.Errorf("unknown user role %q", value)
	}
}

func (r UserRole) String() string {
	return string(r)
}

// CanAuthorExams reports whether the role may create and manage exams.
func (r UserRole) CanAuthorExams() bool {
	switch r {
	case RoleProfessor:
		return true
	case RoleStudent, RoleSuperuser:
		return false
	default:
		return false
	}
}

// CanTakeExams reports whether the role may start and answer exam sessions.
func (r UserRole) CanTakeExams() bool {
	switch r {
	case RoleStudent:
		return true
	case RoleProfessor, RoleSuperuser:
		return false
	default:
		return false
	}
}

// CanReadInbox reports whether the role receives student messages.
func (r UserRole) CanReadInbox() bool {
	switch r {
	case RoleProfessor:
		return true
	case RoleStudent, RoleSuperuser:
		return false
	default:
		return false
	}
}

// CanSendMessages reports whether the role may write to professors.
func (r UserRole) CanSendMessages() bool {
	switch r {
	case RoleStudent:
		return true
	case RoleProfessor, RoleSuperuser:
		return false
	default:
		return false
	}
}

// CanSelfAssess reports whether the role fills in SWOT questionnaires.
func (r UserRole) CanSelfAssess() bool {
	switch r {
	case RoleStudent:
		return true
	case RoleProfessor, RoleSuperuser:
		return false
	default:
		return false
	}
}

// CanViewStudents reports whether the role may read the student roster,
// other students' SWOT analyses and the aggregated averages.
func (r UserRole) CanViewStudents() bool {
	switch r {
	case RoleProfessor:
		return true
	case RoleStudent, RoleSuperuser:
		return false
	default:
		return false
	}
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null;size:150"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`
	Role         UserRole `json:"role" gorm:"not null;size:20;default:student;index"`
	StudentID    *string  `json:"student_id" gorm:"uniqueIndex;size:50"`
	FullName     string   `json:"full_name" gorm:"size:255"`
	Email        string   `json:"email" gorm:"size:255"`

	LastLoginAt *time.Time `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName falls back to the username when no full name was recorded.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
