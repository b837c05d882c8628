package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StudentExamPostgreSQL struct {
	helpers *SharedHelpers
}

func NewStudentExamPostgreSQL(db *gorm.DB) repositories.StudentExamRepository {
	return &StudentExamPostgreSQL{helpers: NewSharedHelpers(db)}
}

func (s *StudentExamPostgreSQL) CreateIfAbsent(ctx context.Context, tx *gorm.DB, session *models.StudentExam) (bool, error) {
	result := s.helpers.getDB(ctx, tx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(session)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *StudentExamPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentExam, error) {
	var session models.StudentExam
	if err := s.helpers.getDB(ctx, tx).Preload("Exam").First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *StudentExamPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentExam, error) {
	var session models.StudentExam
	if err := s.helpers.getDB(ctx, tx).
		Preload("Student").
		Preload("Exam").
		Preload("Answers", orderByID).
		Preload("Answers.SelectedChoices", orderByID).
		First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *StudentExamPostgreSQL) GetByStudentAndExam(ctx context.Context, tx *gorm.DB, studentID, examID uint) (*models.StudentExam, error) {
	var session models.StudentExam
	if err := s.helpers.getDB(ctx, tx).
		Preload("Exam").
		Where("student_id = ? AND exam_id = ?", studentID, examID).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// List returns sessions most recently started first.
func (s *StudentExamPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentExamFilters) ([]*models.StudentExam, error) {
	db := s.helpers.getDB(ctx, tx)

	var sessions []*models.StudentExam
	query := db.Model(&models.StudentExam{})
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.ProfessorID != nil {
		owned := db.Model(&models.Exam{}).Select("id").Where("professor_id = ?", *filters.ProfessorID)
		query = query.Where("exam_id IN (?)", owned)
	}
	if filters.ExamID != nil {
		query = query.Where("exam_id = ?", *filters.ExamID)
	}

	if err := query.
		Preload("Student").
		Preload("Exam").
		Preload("Answers", orderByID).
		Preload("Answers.SelectedChoices", orderByID).
		Order("started_at DESC").
		Order("id DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// Update persists the lifecycle columns only; loaded relations are ignored.
func (s *StudentExamPostgreSQL) Update(ctx context.Context, tx *gorm.DB, session *models.StudentExam) error {
	return s.helpers.getDB(ctx, tx).
		Model(session).
		Select("status", "started_at", "submitted_at", "score").
		Updates(session).Error
}

func openStatuses() []string {
	return []string{string(models.SessionNotStarted), string(models.SessionInProgress)}
}

// MarkSubmitted is a conditional transition: only one caller can move a
// session out of the open states.
func (s *StudentExamPostgreSQL) MarkSubmitted(ctx context.Context, tx *gorm.DB, id uint, submittedAt time.Time) (bool, error) {
	result := s.helpers.getDB(ctx, tx).Model(&models.StudentExam{}).
		Where("id = ? AND status IN ?", id, openStatuses()).
		Updates(map[string]interface{}{
			"status":       models.SessionSubmitted,
			"submitted_at": submittedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// LockOpen takes the row lock with a no-op write of the status.
func (s *StudentExamPostgreSQL) LockOpen(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	result := s.helpers.getDB(ctx, tx).Model(&models.StudentExam{}).
		Where("id = ? AND status IN ?", id, openStatuses()).
		Update("status", gorm.Expr("status"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ===== ANSWERS =====

// UpsertAnswer keeps one answer row per (session, question), overwriting
// its text and replacing its selected choices.
func (s *StudentExamPostgreSQL) UpsertAnswer(ctx context.Context, tx *gorm.DB, answer *models.Answer, choices []models.Choice) error {
	return s.helpers.getDB(ctx, tx).Transaction(func(tx *gorm.DB) error {
		row := models.Answer{
			StudentExamID: answer.StudentExamID,
			QuestionID:    answer.QuestionID,
			TextAnswer:    answer.TextAnswer,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Omit(clause.Associations).
			Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert answer: %w", err)
		}

		var existing models.Answer
		if err := tx.Where("student_exam_id = ? AND question_id = ?", answer.StudentExamID, answer.QuestionID).
			First(&existing).Error; err != nil {
			return fmt.Errorf("failed to load answer: %w", err)
		}

		if err := tx.Model(&existing).Update("text_answer", answer.TextAnswer).Error; err != nil {
			return fmt.Errorf("failed to update answer text: %w", err)
		}

		association := tx.Model(&existing).Association("SelectedChoices")
		if len(choices) == 0 {
			if err := association.Clear(); err != nil {
				return fmt.Errorf("failed to clear selected choices: %w", err)
			}
		} else if err := association.Replace(choices); err != nil {
			return fmt.Errorf("failed to replace selected choices: %w", err)
		}

		answer.ID = existing.ID
		answer.MarksObtained = existing.MarksObtained
		answer.SelectedChoices = choices
		return nil
	})
}

func (s *StudentExamPostgreSQL) GetAnswers(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.Answer, error) {
	var answers []*models.Answer
	if err := s.helpers.getDB(ctx, tx).
		Preload("SelectedChoices", orderByID).
		Preload("Question.Choices", orderByID).
		Where("student_exam_id = ?", sessionID).
		Order("id ASC").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (s *StudentExamPostgreSQL) UpdateAnswerMarks(ctx context.Context, tx *gorm.DB, answerID uint, marks *float64) error {
	return s.helpers.getDB(ctx, tx).Model(&models.Answer{}).
		Where("id = ?", answerID).
		Update("marks_obtained", marks).Error
}

// ===== AGGREGATIONS =====

// GetStudentResultStats sums scores and exam totals per student over
// evaluated sessions.
func (s *StudentExamPostgreSQL) GetStudentResultStats(ctx context.Context, tx *gorm.DB) (map[uint]*repositories.StudentResultStats, error) {
	var rows []repositories.StudentResultStats
	evaluated := []string{string(models.SessionSubmitted), string(models.SessionGraded)}

	if err := s.helpers.getDB(ctx, tx).
		Table("student_exams AS se").
		Select("se.student_id AS student_id, COUNT(*) AS exam_count, "+
			"COALESCE(SUM(se.score), 0) AS score_sum, COALESCE(SUM(e.total_marks), 0) AS possible_sum").
		Joins("JOIN exams e ON e.id = se.exam_id").
		Where("se.status IN ? AND se.score IS NOT NULL", evaluated).
		Group("se.student_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate student results: %w", err)
	}

	stats := make(map[uint]*repositories.StudentResultStats, len(rows))
	for i := range rows {
		stats[rows[i].StudentID] = &rows[i]
	}
	return stats, nil
}
