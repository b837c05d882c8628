package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"gorm.io/gorm"
)

type examService struct {
	repo          repositories.Repository
	db            *gorm.DB
	publisher     events.EventPublisher
	logger        *slog.Logger
	validator     *validator.Validator
	serviceLogger *ServiceLogger
}

func NewExamService(repo repositories.Repository, db *gorm.DB, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) ExamService {
	return &examService{
		repo:      repo,
		db:        db,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		serviceLogger: NewServiceLogger(logger, LogConfig{
			Service:   "exam-service",
			Component: "exams",
		}),
	}
}

// ===== CORE CRUD OPERATIONS =====

// Create stores the exam, its questions (ordered 1..n) and their choices in
// one transaction. total_marks is the sum of the question marks.
func (s *examService) Create(ctx context.Context, actor *models.User, req *CreateExamRequest) (resp *ExamResponse, err error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	op := s.serviceLogger.WithOperation(ctx, "create_exam", actor.ID)
	defer func() {
		var id uint
		if resp != nil {
			id = resp.ID
		}
		op.LogResult(id, "exam", err)
	}()

	s.logger.Info("Creating exam", "professor_id", actor.ID, "title", req.Title)

	if !actor.Role.CanAuthorExams() {
		return nil, NewPermissionError(actor.ID, 0, "exam", "create", "only professors can create exams")
	}
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	exam := &models.Exam{
		Title:           req.Title,
		Description:     req.Description,
		ProfessorID:     actor.ID,
		DurationMinutes: req.DurationMinutes,
		IsPublished:     req.IsPublished,
		Questions:       make([]models.Question, 0, len(req.Questions)),
	}
	for i := range req.Questions {
		exam.Questions = append(exam.Questions, buildQuestion(&req.Questions[i], i+1))
	}
	exam.TotalMarks = exam.SumMarks()

	err = s.withTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Exam().Create(ctx, tx, exam); err != nil {
			return err
		}
		return recordAudit(ctx, s.repo, tx, actor, auditEntry{
			EventType:   models.AuditExamCreated,
			ExamID:      exam.ID,
			Description: fmt.Sprintf("Exam %q created with %d questions", exam.Title, len(exam.Questions)),
			Changes: map[string]interface{}{
				"total_marks":  exam.TotalMarks,
				"is_published": exam.IsPublished,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Exam created successfully", "exam_id", exam.ID, "total_marks", exam.TotalMarks)

	if exam.IsPublished {
		publishEvent(ctx, s.publisher, s.logger, events.NewExamPublishedEvent(
			exam.ID, exam.Title, exam.ProfessorID, exam.DurationMinutes, exam.TotalMarks))
	}

	return s.Get(ctx, actor, exam.ID)
}

// List returns the caller's own exams for a professor and published exams
// for a student, newest first.
func (s *examService) List(ctx context.Context, actor *models.User) ([]*ExamResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var filters repositories.ExamFilters
	switch actor.Role {
	case models.RoleProfessor:
		filters.ProfessorID = &actor.ID
	case models.RoleStudent:
		filters.PublishedOnly = true
	case models.RoleSuperuser:
		return []*ExamResponse{}, nil
	default:
		return []*ExamResponse{}, nil
	}

	exams, err := s.repo.Exam().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}

	responses := make([]*ExamResponse, 0, len(exams))
	for _, exam := range exams {
		responses = append(responses, NewExamResponse(exam, actor.Role))
	}
	return responses, nil
}

func (s *examService) Get(ctx context.Context, actor *models.User, id uint) (*ExamResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	exam, err := s.loadVisibleExam(ctx, actor, id, true)
	if err != nil {
		return nil, err
	}
	return NewExamResponse(exam, actor.Role), nil
}

// Update changes the exam metadata only. total_marks is left alone.
func (s *examService) Update(ctx context.Context, actor *models.User, id uint, req *UpdateExamRequest) (resp *ExamResponse, err error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	op := s.serviceLogger.WithOperation(ctx, "update_exam", actor.ID)
	defer func() { op.LogResult(id, "exam", err) }()

	exam, err := s.loadOwnedExam(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	updates := buildExamUpdates(exam, req)
	if len(updates) > 0 {
		err = s.withTx(ctx, func(tx *gorm.DB) error {
			if err := s.repo.Exam().UpdateFields(ctx, tx, id, updates); err != nil {
				return fmt.Errorf("failed to update exam: %w", err)
			}
			return recordAudit(ctx, s.repo, tx, actor, auditEntry{
				EventType:   models.AuditExamUpdated,
				ExamID:      id,
				Description: "Exam details updated",
				Changes:     updates,
			})
		})
		if err != nil {
			return nil, err
		}
		s.logger.Info("Exam updated successfully", "exam_id", id, "fields", len(updates))
	}

	return s.Get(ctx, actor, id)
}

// Delete removes the exam with its questions, sessions and answers.
func (s *examService) Delete(ctx context.Context, actor *models.User, id uint) (err error) {
	if err := requireActor(actor); err != nil {
		return err
	}
	op := s.serviceLogger.WithOperation(ctx, "delete_exam", actor.ID)
	defer func() { op.LogResult(id, "exam", err) }()

	if _, err := s.loadOwnedExam(ctx, actor, id, "delete"); err != nil {
		return err
	}

	if err := s.repo.Exam().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrExamNotFound
		}
		return fmt.Errorf("failed to delete exam: %w", err)
	}

	s.logger.Info("Exam deleted successfully", "exam_id", id, "professor_id", actor.ID)
	return nil
}

// ===== PUBLICATION =====

func (s *examService) Publish(ctx context.Context, actor *models.User, id uint) error {
	return s.setPublished(ctx, actor, id, true)
}

func (s *examService) Unpublish(ctx context.Context, actor *models.User, id uint) error {
	return s.setPublished(ctx, actor, id, false)
}

// ===== QUESTION MANAGEMENT =====

// AddQuestion appends a question after the current last one and refreshes
// total_marks in the same transaction.
func (s *examService) AddQuestion(ctx context.Context, actor *models.User, examID uint, req *QuestionRequest) (resp *QuestionResponse, err error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	op := s.serviceLogger.WithOperation(ctx, "add_question", actor.ID)
	defer func() { op.LogResult(examID, "exam", err) }()

	if _, err := s.loadOwnedExam(ctx, actor, examID, "add question to"); err != nil {
		return nil, err
	}
	if err := s.validateQuestion("", req); err != nil {
		return nil, err
	}

	var question models.Question
	err = s.withTx(ctx, func(tx *gorm.DB) error {
		maxOrder, err := s.repo.Exam().MaxQuestionOrder(ctx, tx, examID)
		if err != nil {
			return fmt.Errorf("failed to read question order: %w", err)
		}

		question = buildQuestion(req, maxOrder+1)
		question.ExamID = examID
		if err := s.repo.Exam().AddQuestion(ctx, tx, &question); err != nil {
			return err
		}

		total, err := s.repo.Exam().RecalculateTotalMarks(ctx, tx, examID)
		if err != nil {
			return err
		}

		return recordAudit(ctx, s.repo, tx, actor, auditEntry{
			EventType:   models.AuditQuestionCreated,
			ExamID:      examID,
			Description: fmt.Sprintf("Question %d added", question.Order),
			Changes: map[string]interface{}{
				"question_id": question.ID,
				"marks":       question.Marks,
				"total_marks": total,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Question added successfully", "exam_id", examID, "question_id", question.ID)
	response := NewQuestionResponse(&question, actor.Role)
	return &response, nil
}

func (s *examService) DeleteQuestion(ctx context.Context, actor *models.User, examID, questionID uint) (err error) {
	if err := requireActor(actor); err != nil {
		return err
	}
	op := s.serviceLogger.WithOperation(ctx, "delete_question", actor.ID)
	defer func() { op.LogResult(questionID, "question", err) }()

	if _, err := s.loadOwnedExam(ctx, actor, examID, "delete question from"); err != nil {
		return err
	}

	question, err := s.repo.Exam().GetQuestion(ctx, nil, examID, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to get question: %w", err)
	}

	err = s.withTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Exam().DeleteQuestion(ctx, tx, question.ID); err != nil {
			return err
		}
		total, err := s.repo.Exam().RecalculateTotalMarks(ctx, tx, examID)
		if err != nil {
			return err
		}
		return recordAudit(ctx, s.repo, tx, actor, auditEntry{
			EventType:   models.AuditQuestionDeleted,
			ExamID:      examID,
			Description: fmt.Sprintf("Question %d deleted", question.Order),
			Changes: map[string]interface{}{
				"question_id": question.ID,
				"total_marks": total,
			},
		})
	})
	if err != nil {
		return err
	}

	s.logger.Info("Question deleted successfully", "exam_id", examID, "question_id", questionID)
	return nil
}

// ===== ACTIVITY =====

func (s *examService) Activity(ctx context.Context, actor *models.User, examID uint) ([]*models.AuditLog, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if _, err := s.loadOwnedExam(ctx, actor, examID, "read activity of"); err != nil {
		return nil, err
	}

	entries, err := s.repo.Audit().ListByExam(ctx, nil, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exam activity: %w", err)
	}
	return entries, nil
}
