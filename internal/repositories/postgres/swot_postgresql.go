package postgres

import (
	"context"
	"sort"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type SWOTPostgreSQL struct {
	helpers *SharedHelpers
}

func NewSWOTPostgreSQL(db *gorm.DB) repositories.SWOTRepository {
	return &SWOTPostgreSQL{helpers: NewSharedHelpers(db)}
}

func (s *SWOTPostgreSQL) ListQuestions(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*models.SWOTQuestion, error) {
	var questions []*models.SWOTQuestion

	query := s.helpers.getDB(ctx, tx).Model(&models.SWOTQuestion{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("sort_order ASC").Order("id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (s *SWOTPostgreSQL) GetQuestionsByIDs(ctx context.Context, tx *gorm.DB, ids []uint) (map[uint]*models.SWOTQuestion, error) {
	result := make(map[uint]*models.SWOTQuestion, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var questions []*models.SWOTQuestion
	if err := s.helpers.getDB(ctx, tx).Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	for _, q := range questions {
		result[q.ID] = q
	}
	return result, nil
}

// CreateQuestionIfMissing inserts the prompt unless one with the same text
// and category already exists.
func (s *SWOTPostgreSQL) CreateQuestionIfMissing(ctx context.Context, tx *gorm.DB, question *models.SWOTQuestion) (bool, error) {
	db := s.helpers.getDB(ctx, tx)

	var count int64
	if err := db.Model(&models.SWOTQuestion{}).
		Where("question_text = ? AND category = ?", question.QuestionText, question.Category).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := db.Create(question).Error; err != nil {
		return false, err
	}
	return true, nil
}

// CreateAnalysis inserts the analysis and its answers.
func (s *SWOTPostgreSQL) CreateAnalysis(ctx context.Context, tx *gorm.DB, analysis *models.SWOTAnalysis) error {
	return s.helpers.getDB(ctx, tx).Omit("Student").Create(analysis).Error
}

func (s *SWOTPostgreSQL) GetAnalysis(ctx context.Context, tx *gorm.DB, id uint) (*models.SWOTAnalysis, error) {
	var analysis models.SWOTAnalysis
	if err := s.withAnswers(s.helpers.getDB(ctx, tx)).First(&analysis, id).Error; err != nil {
		return nil, err
	}
	sortAnswers(&analysis)
	return &analysis, nil
}

// ListAnalyses returns analyses newest first.
func (s *SWOTPostgreSQL) ListAnalyses(ctx context.Context, tx *gorm.DB, filters repositories.SWOTAnalysisFilters) ([]*models.SWOTAnalysis, error) {
	var analyses []*models.SWOTAnalysis

	query := s.helpers.getDB(ctx, tx).Model(&models.SWOTAnalysis{})
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.CompletedOnly {
		query = query.Where("is_completed = ?", true)
	}

	if err := s.withAnswers(query).
		Order("created_at DESC").
		Order("id DESC").
		Find(&analyses).Error; err != nil {
		return nil, err
	}
	for _, a := range analyses {
		sortAnswers(a)
	}
	return analyses, nil
}

func (s *SWOTPostgreSQL) StudentsWithCompletedAnalysis(ctx context.Context, tx *gorm.DB) (map[uint]bool, error) {
	var ids []uint
	if err := s.helpers.getDB(ctx, tx).Model(&models.SWOTAnalysis{}).
		Where("is_completed = ?", true).
		Distinct().
		Pluck("student_id", &ids).Error; err != nil {
		return nil, err
	}

	result := make(map[uint]bool, len(ids))
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

func (s *SWOTPostgreSQL) withAnswers(db *gorm.DB) *gorm.DB {
	return db.Preload("Student").Preload("Answers.Question")
}

// sortAnswers orders answers by their question's configured order.
func sortAnswers(analysis *models.SWOTAnalysis) {
	sort.SliceStable(analysis.Answers, func(i, j int) bool {
		qi, qj := analysis.Answers[i].Question, analysis.Answers[j].Question
		if qi.Order != qj.Order {
			return qi.Order < qj.Order
		}
		return analysis.Answers[i].ID < analysis.Answers[j].ID
	})
}
