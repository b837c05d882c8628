package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type ExamPostgreSQL struct {
	helpers *SharedHelpers
}

func NewExamPostgreSQL(db *gorm.DB) repositories.ExamRepository {
	return &ExamPostgreSQL{helpers: NewSharedHelpers(db)}
}

// Create inserts the exam together with its nested questions and choices.
func (e *ExamPostgreSQL) Create(ctx context.Context, tx *gorm.DB, exam *models.Exam) error {
	if err := e.helpers.getDB(ctx, tx).Create(exam).Error; err != nil {
		return fmt.Errorf("failed to create exam: %w", err)
	}
	return nil
}

func (e *ExamPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error) {
	var exam models.Exam
	if err := e.helpers.getDB(ctx, tx).First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (e *ExamPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error) {
	var exam models.Exam
	if err := e.withDetails(e.helpers.getDB(ctx, tx)).First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

// List returns exams newest first with questions and choices loaded.
func (e *ExamPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ExamFilters) ([]*models.Exam, error) {
	var exams []*models.Exam

	query := e.helpers.getDB(ctx, tx).Model(&models.Exam{})
	if filters.ProfessorID != nil {
		query = query.Where("professor_id = ?", *filters.ProfessorID)
	}
	if filters.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}

	if err := e.withDetails(query).
		Order("created_at DESC").
		Order("id DESC").
		Find(&exams).Error; err != nil {
		return nil, err
	}
	return exams, nil
}

func (e *ExamPostgreSQL) UpdateFields(ctx context.Context, tx *gorm.DB, id uint, fields map[string]interface{}) error {
	result := e.helpers.getDB(ctx, tx).Model(&models.Exam{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the exam and everything hanging off it.
func (e *ExamPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return e.helpers.getDB(ctx, tx).Transaction(func(tx *gorm.DB) error {
		sessions := tx.Model(&models.StudentExam{}).Select("id").Where("exam_id = ?", id)
		questions := tx.Model(&models.Question{}).Select("id").Where("exam_id = ?", id)
		answers := tx.Model(&models.Answer{}).Select("id").Where("student_exam_id IN (?)", sessions)

		if err := tx.Exec("DELETE FROM answer_selected_choices WHERE answer_id IN (?)", answers).Error; err != nil {
			return fmt.Errorf("failed to delete selected choices: %w", err)
		}
		if err := tx.Where("student_exam_id IN (?)", sessions).Delete(&models.Answer{}).Error; err != nil {
			return fmt.Errorf("failed to delete answers: %w", err)
		}
		if err := tx.Where("exam_id = ?", id).Delete(&models.StudentExam{}).Error; err != nil {
			return fmt.Errorf("failed to delete sessions: %w", err)
		}
		if err := tx.Where("question_id IN (?)", questions).Delete(&models.Choice{}).Error; err != nil {
			return fmt.Errorf("failed to delete choices: %w", err)
		}
		if err := tx.Where("exam_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("failed to delete questions: %w", err)
		}
		if err := tx.Where("exam_id = ?", id).Delete(&models.AuditLog{}).Error; err != nil {
			return fmt.Errorf("failed to delete audit log: %w", err)
		}

		result := tx.Delete(&models.Exam{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete exam: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ===== QUESTION MANAGEMENT =====

func (e *ExamPostgreSQL) AddQuestion(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	if err := e.helpers.getDB(ctx, tx).Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (e *ExamPostgreSQL) GetQuestion(ctx context.Context, tx *gorm.DB, examID, questionID uint) (*models.Question, error) {
	var question models.Question
	if err := e.helpers.getDB(ctx, tx).
		Preload("Choices", orderByID).
		Where("exam_id = ?", examID).
		First(&question, questionID).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (e *ExamPostgreSQL) DeleteQuestion(ctx context.Context, tx *gorm.DB, questionID uint) error {
	return e.helpers.getDB(ctx, tx).Transaction(func(tx *gorm.DB) error {
		answers := tx.Model(&models.Answer{}).Select("id").Where("question_id = ?", questionID)

		if err := tx.Exec("DELETE FROM answer_selected_choices WHERE answer_id IN (?)", answers).Error; err != nil {
			return fmt.Errorf("failed to delete selected choices: %w", err)
		}
		if err := tx.Where("question_id = ?", questionID).Delete(&models.Answer{}).Error; err != nil {
			return fmt.Errorf("failed to delete answers: %w", err)
		}
		if err := tx.Where("question_id = ?", questionID).Delete(&models.Choice{}).Error; err != nil {
			return fmt.Errorf("failed to delete choices: %w", err)
		}
		result := tx.Delete(&models.Question{}, questionID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete question: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (e *ExamPostgreSQL) MaxQuestionOrder(ctx context.Context, tx *gorm.DB, examID uint) (int, error) {
	var maxOrder int
	err := e.helpers.getDB(ctx, tx).Model(&models.Question{}).
		Select("COALESCE(MAX(sort_order), 0)").
		Where("exam_id = ?", examID).
		Row().Scan(&maxOrder)
	return maxOrder, err
}

// RecalculateTotalMarks stores the sum of the exam's question marks and
// returns it.
func (e *ExamPostgreSQL) RecalculateTotalMarks(ctx context.Context, tx *gorm.DB, examID uint) (float64, error) {
	db := e.helpers.getDB(ctx, tx)

	var total float64
	if err := db.Model(&models.Question{}).
		Select("COALESCE(SUM(marks), 0)").
		Where("exam_id = ?", examID).
		Row().Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum question marks: %w", err)
	}

	if err := db.Model(&models.Exam{}).Where("id = ?", examID).Update("total_marks", total).Error; err != nil {
		return 0, fmt.Errorf("failed to update total marks: %w", err)
	}
	return total, nil
}

// GetChoices returns the subset of ids that are choices of the question.
func (e *ExamPostgreSQL) GetChoices(ctx context.Context, tx *gorm.DB, questionID uint, ids []uint) ([]models.Choice, error) {
	choices := make([]models.Choice, 0, len(ids))
	if len(ids) == 0 {
		return choices, nil
	}
	if err := e.helpers.getDB(ctx, tx).
		Where("question_id = ? AND id IN ?", questionID, ids).
		Order("id ASC").
		Find(&choices).Error; err != nil {
		return nil, err
	}
	return choices, nil
}

func (e *ExamPostgreSQL) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Professor").
		Preload("Questions", orderQuestions).
		Preload("Questions.Choices", orderByID)
}

func orderQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("id ASC")
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
