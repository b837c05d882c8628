package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"gorm.io/gorm"
)

// ===== VALIDATION HELPERS =====

func (s *examService) validateCreateRequest(req *CreateExamRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	var errs ValidationErrors
	for i := range req.Questions {
		q := &req.Questions[i]
		errs = append(errs, s.validator.Question().ValidateShape(
			fmt.Sprintf("questions[%d]", i), q.QuestionType, choiceShapes(q.Choices))...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *examService) validateQuestion(field string, req *QuestionRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	if errs := s.validator.Question().ValidateShape(field, req.QuestionType, choiceShapes(req.Choices)); len(errs) > 0 {
		return errs
	}
	return nil
}

func choiceShapes(choices []ChoiceRequest) []validator.ChoiceShape {
	shapes := make([]validator.ChoiceShape, 0, len(choices))
	for _, c := range choices {
		shapes = append(shapes, validator.ChoiceShape{Text: c.ChoiceText, IsCorrect: c.IsCorrect})
	}
	return shapes
}

// ===== BUILDERS =====

func buildQuestion(req *QuestionRequest, order int) models.Question {
	question := models.Question{
		QuestionType: req.QuestionType,
		QuestionText: strings.TrimSpace(req.QuestionText),
		Marks:        req.Marks,
		Order:        order,
		Choices:      make([]models.Choice, 0, len(req.Choices)),
	}
	for _, c := range req.Choices {
		question.Choices = append(question.Choices, models.Choice{
			ChoiceText: strings.TrimSpace(c.ChoiceText),
			IsCorrect:  c.IsCorrect,
		})
	}
	return question
}

// buildExamUpdates returns the changed columns only.
func buildExamUpdates(exam *models.Exam, req *UpdateExamRequest) map[string]interface{} {
	updates := make(map[string]interface{})
	if req.Title != nil && *req.Title != exam.Title {
		updates["title"] = *req.Title
	}
	if req.Description != nil && *req.Description != exam.Description {
		updates["description"] = *req.Description
	}
	if req.DurationMinutes != nil && *req.DurationMinutes != exam.DurationMinutes {
		updates["duration_minutes"] = *req.DurationMinutes
	}
	return updates
}

// ===== ACCESS HELPERS =====

// canSeeExam: professors see their own exams, students see published ones.
func canSeeExam(actor *models.User, exam *models.Exam) bool {
	switch actor.Role {
	case models.RoleProfessor:
		return exam.ProfessorID == actor.ID
	case models.RoleStudent:
		return exam.IsPublished
	case models.RoleSuperuser:
		return false
	default:
		return false
	}
}

// loadVisibleExam reports exams the caller cannot see as not found.
func (s *examService) loadVisibleExam(ctx context.Context, actor *models.User, id uint, withDetails bool) (*models.Exam, error) {
	var (
		exam *models.Exam
		err  error
	)
	if withDetails {
		exam, err = s.repo.Exam().GetByIDWithDetails(ctx, nil, id)
	} else {
		exam, err = s.repo.Exam().GetByID(ctx, nil, id)
	}
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	if !canSeeExam(actor, exam) {
		return nil, ErrExamNotFound
	}
	return exam, nil
}

// loadOwnedExam additionally requires the caller to be the exam's author.
func (s *examService) loadOwnedExam(ctx context.Context, actor *models.User, id uint, action string) (*models.Exam, error) {
	exam, err := s.loadVisibleExam(ctx, actor, id, false)
	if err != nil {
		return nil, err
	}
	if exam.ProfessorID != actor.ID {
		return nil, NewPermissionError(actor.ID, id, "exam", action, "not the exam owner")
	}
	return exam, nil
}

// ===== PUBLICATION =====

func (s *examService) setPublished(ctx context.Context, actor *models.User, id uint, published bool) (err error) {
	if err := requireActor(actor); err != nil {
		return err
	}

	operation, eventType, action := "publish_exam", models.AuditExamPublished, "publish"
	if !published {
		operation, eventType, action = "unpublish_exam", models.AuditExamUnpublished, "unpublish"
	}
	op := s.serviceLogger.WithOperation(ctx, operation, actor.ID)
	defer func() { op.LogResult(id, "exam", err) }()

	exam, err := s.loadOwnedExam(ctx, actor, id, action)
	if err != nil {
		return err
	}

	err = s.withTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Exam().UpdateFields(ctx, tx, id, map[string]interface{}{"is_published": published}); err != nil {
			return fmt.Errorf("failed to %s exam: %w", action, err)
		}
		return recordAudit(ctx, s.repo, tx, actor, auditEntry{
			EventType:   eventType,
			ExamID:      id,
			Description: fmt.Sprintf("Exam %sed", action),
			Changes:     map[string]interface{}{"is_published": published},
		})
	})
	if err != nil {
		return err
	}

	s.logger.Info("Exam publication changed", "exam_id", id, "is_published", published)

	if published {
		publishEvent(ctx, s.publisher, s.logger, events.NewExamPublishedEvent(
			exam.ID, exam.Title, exam.ProfessorID, exam.DurationMinutes, exam.TotalMarks))
	}
	return nil
}

// ===== TRANSACTION HELPERS =====

// withTx executes a function within a transaction
func (s *examService) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}
