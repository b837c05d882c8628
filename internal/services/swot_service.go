package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"gorm.io/gorm"
)

type swotService struct {
	repo      repositories.Repository
	db        *gorm.DB
	cache     cache.CacheService
	cacheTTL  time.Duration
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewSWOTService(repo repositories.Repository, db *gorm.DB, cacheService cache.CacheService, cacheTTL time.Duration, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) SWOTService {
	if cacheService == nil {
		cacheService = cache.NewNoopCache()
	}
	return &swotService{
		repo:      repo,
		db:        db,
		cache:     cacheService,
		cacheTTL:  cacheTTL,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

// ListQuestions serves the active prompts from cache, falling back to the
// database on a miss or a cache failure.
func (s *swotService) ListQuestions(ctx context.Context, actor *models.User) ([]SWOTQuestionResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var cached []SWOTQuestionResponse
	err := s.cache.Get(ctx, cache.SWOTActiveQuestionsKey, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Failed to read swot questions from cache", "error", err)
	}

	questions, err := s.repo.SWOT().ListQuestions(ctx, nil, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list swot questions: %w", err)
	}

	responses := make([]SWOTQuestionResponse, 0, len(questions))
	for _, q := range questions {
		responses = append(responses, NewSWOTQuestionResponse(q))
	}

	if err := s.cache.Set(ctx, cache.SWOTActiveQuestionsKey, responses, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache swot questions", "error", err)
	}
	return responses, nil
}

// Submit creates a completed analysis in one step. Entries pointing at an
// unknown question are dropped; the rest are stored.
func (s *swotService) Submit(ctx context.Context, actor *models.User, req *SubmitSWOTRequest) (*SWOTAnalysisResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.Role.CanSelfAssess() {
		return nil, NewPermissionError(actor.ID, 0, "swot_analysis", "submit", "only students can submit a swot analysis")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(req.Answers))
	for _, a := range req.Answers {
		ids = append(ids, *a.QuestionID)
	}

	var analysis *models.SWOTAnalysis
	err := s.withTx(ctx, func(tx *gorm.DB) error {
		known, err := s.repo.SWOT().GetQuestionsByIDs(ctx, tx, ids)
		if err != nil {
			return fmt.Errorf("failed to load swot questions: %w", err)
		}

		completedAt := s.now()
		analysis = &models.SWOTAnalysis{
			StudentID:   actor.ID,
			CompletedAt: &completedAt,
			IsCompleted: true,
			Answers:     make([]models.SWOTAnswer, 0, len(req.Answers)),
		}
		for _, a := range req.Answers {
			if _, ok := known[*a.QuestionID]; !ok {
				s.logger.Debug("Dropping answer to unknown swot question", "question_id", *a.QuestionID)
				continue
			}
			analysis.Answers = append(analysis.Answers, models.SWOTAnswer{
				QuestionID: *a.QuestionID,
				AnswerText: strings.TrimSpace(*a.AnswerText),
			})
		}

		return s.repo.SWOT().CreateAnalysis(ctx, tx, analysis)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit swot analysis: %w", err)
	}

	s.logger.Info("SWOT analysis submitted", "analysis_id", analysis.ID, "student_id", actor.ID,
		"answers", len(analysis.Answers), "dropped", len(req.Answers)-len(analysis.Answers))
	publishEvent(ctx, s.publisher, s.logger, events.NewSWOTSubmittedEvent(analysis.ID, actor.ID, len(analysis.Answers)))

	return s.GetAnalysis(ctx, actor, analysis.ID)
}

func (s *swotService) MyAnalyses(ctx context.Context, actor *models.User) ([]*SWOTAnalysisResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return s.listAnalyses(ctx, repositories.SWOTAnalysisFilters{StudentID: &actor.ID, CompletedOnly: true})
}

// ListAnalyses returns a student's own analyses, or every analysis for a
// professor.
func (s *swotService) ListAnalyses(ctx context.Context, actor *models.User) ([]*SWOTAnalysisResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var filters repositories.SWOTAnalysisFilters
	switch actor.Role {
	case models.RoleStudent:
		filters.StudentID = &actor.ID
	case models.RoleProfessor:
	case models.RoleSuperuser:
		return []*SWOTAnalysisResponse{}, nil
	default:
		return []*SWOTAnalysisResponse{}, nil
	}
	return s.listAnalyses(ctx, filters)
}

func (s *swotService) GetAnalysis(ctx context.Context, actor *models.User, id uint) (*SWOTAnalysisResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	analysis, err := s.repo.SWOT().GetAnalysis(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to get swot analysis: %w", err)
	}
	if !canSeeAnalysis(actor, analysis) {
		return nil, ErrAnalysisNotFound
	}
	return NewSWOTAnalysisResponse(analysis), nil
}

func (s *swotService) SeedQuestions(ctx context.Context) (int, error) {
	added := 0
	for _, q := range models.DefaultSWOTQuestions() {
		question := q
		created, err := s.repo.SWOT().CreateQuestionIfMissing(ctx, nil, &question)
		if err != nil {
			return added, fmt.Errorf("failed to seed swot question: %w", err)
		}
		if created {
			added++
		}
	}

	if err := s.cache.DeletePattern(ctx, cache.SWOTPattern); err != nil {
		s.logger.Warn("Failed to invalidate swot cache", "error", err)
	}

	s.logger.Info("SWOT questions seeded", "added", added)
	return added, nil
}

func canSeeAnalysis(actor *models.User, analysis *models.SWOTAnalysis) bool {
	switch actor.Role {
	case models.RoleStudent:
		return analysis.StudentID == actor.ID
	case models.RoleProfessor:
		return actor.Role.CanViewStudents()
	case models.RoleSuperuser:
		return false
	default:
		return false
	}
}

func (s *swotService) listAnalyses(ctx context.Context, filters repositories.SWOTAnalysisFilters) ([]*SWOTAnalysisResponse, error) {
	analyses, err := s.repo.SWOT().ListAnalyses(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list swot analyses: %w", err)
	}

	responses := make([]*SWOTAnalysisResponse, 0, len(analyses))
	for _, a := range analyses {
		responses = append(responses, NewSWOTAnalysisResponse(a))
	}
	return responses, nil
}

// withTx executes a function within a transaction
func (s *swotService) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}
