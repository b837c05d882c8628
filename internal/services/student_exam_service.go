package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"gorm.io/gorm"
)

type studentExamService struct {
	repo          repositories.Repository
	db            *gorm.DB
	publisher     events.EventPublisher
	logger        *slog.Logger
	validator     *validator.Validator
	serviceLogger *ServiceLogger
	now           func() time.Time
}

func NewStudentExamService(repo repositories.Repository, db *gorm.DB, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) StudentExamService {
	return &studentExamService{
		repo:      repo,
		db:        db,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		serviceLogger: NewServiceLogger(logger, LogConfig{
			Service:   "exam-service",
			Component: "student_exams",
		}),
		now: time.Now,
	}
}

// ===== SESSION LIFECYCLE =====

// Start opens a session for a published exam, or returns the open session
// the student already has. The (student, exam) unique index makes
// concurrent starts converge on one row.
func (s *studentExamService) Start(ctx context.Context, actor *models.User, req *StartExamRequest) (resp *SessionResponse, err error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	op := s.serviceLogger.WithOperation(ctx, "start_exam", actor.ID)
	defer func() { op.LogResult(req.ExamID, "exam", err) }()

	if !actor.Role.CanTakeExams() {
		return nil, NewPermissionError(actor.ID, req.ExamID, "exam", "start", "only students can start exams")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exam, err := s.repo.Exam().GetByID(ctx, nil, req.ExamID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if !exam.IsPublished {
		return nil, ErrExamNotFound
	}

	startedAt := s.now()
	created, err := s.repo.StudentExam().CreateIfAbsent(ctx, nil, &models.StudentExam{
		StudentID: actor.ID,
		ExamID:    exam.ID,
		Status:    models.SessionInProgress,
		StartedAt: &startedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create exam session: %w", err)
	}

	session, err := s.repo.StudentExam().GetByStudentAndExam(ctx, nil, actor.ID, exam.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exam session: %w", err)
	}
	if !created && session.Status.IsClosed() {
		return nil, ErrSessionAlreadySubmitted
	}

	if created {
		s.logger.Info("Exam session started", "session_id", session.ID, "exam_id", exam.ID, "student_id", actor.ID)
	}
	return s.Get(ctx, actor, session.ID)
}

// SubmitAnswer records the student's answer to one question, replacing any
// earlier answer to the same question.
func (s *studentExamService) SubmitAnswer(ctx context.Context, actor *models.User, sessionID uint, req *SubmitAnswerRequest) (err error) {
	if err := requireActor(actor); err != nil {
		return err
	}
	op := s.serviceLogger.WithOperation(ctx, "submit_answer", actor.ID)
	defer func() { op.LogResult(sessionID, "student_exam", err) }()

	session, err := s.loadOwnSession(ctx, actor, sessionID, "answer")
	if err != nil {
		return err
	}
	if session.Status.IsClosed() {
		return ErrSessionAlreadySubmitted
	}
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	answer := &models.Answer{
		StudentExamID: session.ID,
		QuestionID:    req.QuestionID,
		TextAnswer:    req.TextAnswer,
	}
	var choices []models.Choice
	err = s.withTx(ctx, func(tx *gorm.DB) error {
		open, err := s.repo.StudentExam().LockOpen(ctx, tx, session.ID)
		if err != nil {
			return fmt.Errorf("failed to lock session: %w", err)
		}
		if !open {
			return ErrSessionAlreadySubmitted
		}

		question, err := s.repo.Exam().GetQuestion(ctx, tx, session.ExamID, req.QuestionID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrQuestionNotFound
			}
			return fmt.Errorf("failed to get question: %w", err)
		}

		selected := uniqueIDs(req.SelectedChoices)
		choices, err = s.repo.Exam().GetChoices(ctx, tx, question.ID, selected)
		if err != nil {
			return fmt.Errorf("failed to load choices: %w", err)
		}
		if len(choices) != len(selected) {
			return NewValidationError("selected_choices", "contains choices that do not belong to the question", req.SelectedChoices)
		}

		if err := s.repo.StudentExam().UpsertAnswer(ctx, tx, answer, choices); err != nil {
			return fmt.Errorf("failed to save answer: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("Answer saved", "session_id", session.ID, "question_id", answer.QuestionID, "choices", len(choices))
	return nil
}

// SubmitExam closes the session and auto-grades it in one transaction:
// status goes submitted then graded, objective answers get their marks and
// the session score is their sum.
func (s *studentExamService) SubmitExam(ctx context.Context, actor *models.User, sessionID uint) (resp *SubmitExamResponse, err error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	op := s.serviceLogger.WithOperation(ctx, "submit_exam", actor.ID)
	defer func() { op.LogResult(sessionID, "student_exam", err) }()

	session, err := s.loadOwnSession(ctx, actor, sessionID, "submit")
	if err != nil {
		return nil, err
	}
	if session.Status.IsClosed() {
		return nil, ErrSessionAlreadySubmitted
	}

	submittedAt := s.now()
	var score float64
	err = s.withTx(ctx, func(tx *gorm.DB) error {
		submitted, err := s.repo.StudentExam().MarkSubmitted(ctx, tx, session.ID, submittedAt)
		if err != nil {
			return fmt.Errorf("failed to submit session: %w", err)
		}
		if !submitted {
			return ErrSessionAlreadySubmitted
		}
		session.Status = models.SessionSubmitted
		session.SubmittedAt = &submittedAt

		answers, err := s.repo.StudentExam().GetAnswers(ctx, tx, session.ID)
		if err != nil {
			return fmt.Errorf("failed to load answers: %w", err)
		}
		for _, answer := range answers {
			marks := GradeAnswer(answer)
			if marks == nil {
				continue
			}
			if err := s.repo.StudentExam().UpdateAnswerMarks(ctx, tx, answer.ID, marks); err != nil {
				return fmt.Errorf("failed to grade answer: %w", err)
			}
			answer.MarksObtained = marks
		}

		score = SumMarks(answers)
		session.Status = models.SessionGraded
		session.Score = &score
		if err := s.repo.StudentExam().Update(ctx, tx, session); err != nil {
			return fmt.Errorf("failed to grade session: %w", err)
		}

		return recordAudit(ctx, s.repo, tx, actor, auditEntry{
			EventType:   models.AuditSessionSubmitted,
			ExamID:      session.ExamID,
			SessionID:   &session.ID,
			Description: "Exam submitted and auto-graded",
			Changes:     map[string]interface{}{"score": score, "answers": len(answers)},
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Exam submitted successfully", "session_id", session.ID, "exam_id", session.ExamID, "score", score)

	publishEvent(ctx, s.publisher, s.logger, events.NewExamSubmittedEvent(
		session.ID, session.ExamID, session.Exam.Title, session.StudentID, submittedAt))
	publishEvent(ctx, s.publisher, s.logger, events.NewExamGradedEvent(
		session.ID, session.ExamID, session.StudentID, score, session.Exam.TotalMarks, nil))

	return &SubmitExamResponse{Status: "Exam submitted", Score: &score}, nil
}

// Grade lets the exam's professor override answer marks. Answer ids that
// are not part of the session are skipped. The score is recomputed over all
// answers with unmarked ones counting as zero.
func (s *studentExamService) Grade(ctx context.Context, actor *models.User, sessionID uint, req *GradeSessionRequest) (resp *SessionResponse, err error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	op := s.serviceLogger.WithOperation(ctx, "grade_session", actor.ID)
	defer func() { op.LogResult(sessionID, "student_exam", err) }()

	session, err := s.loadVisibleSession(ctx, actor, sessionID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanAuthorExams() || session.Exam.ProfessorID != actor.ID {
		return nil, NewPermissionError(actor.ID, sessionID, "student_exam", "grade", "only the exam's professor can grade")
	}
	if !session.Status.IsClosed() {
		return nil, ErrSessionNotSubmitted
	}

	var score float64
	err = s.withTx(ctx, func(tx *gorm.DB) error {
		answers, err := s.repo.StudentExam().GetAnswers(ctx, tx, session.ID)
		if err != nil {
			return fmt.Errorf("failed to load answers: %w", err)
		}

		byID := make(map[uint]*models.Answer, len(answers))
		for _, a := range answers {
			byID[a.ID] = a
		}

		var errs ValidationErrors
		changes := make(map[uint]*float64)
		for i, grade := range req.Answers {
			answer, ok := byID[grade.ID]
			if !ok {
				continue
			}
			if grade.MarksObtained != nil && (*grade.MarksObtained < 0 || *grade.MarksObtained > answer.Question.Marks) {
				errs = append(errs, NewValidationError(
					fmt.Sprintf("answers[%d].marks_obtained", i),
					fmt.Sprintf("must be between 0 and %g", answer.Question.Marks),
					*grade.MarksObtained)...)
				continue
			}
			changes[answer.ID] = grade.MarksObtained
		}
		if len(errs) > 0 {
			return errs
		}

		for id, marks := range changes {
			if err := s.repo.StudentExam().UpdateAnswerMarks(ctx, tx, id, marks); err != nil {
				return fmt.Errorf("failed to update answer marks: %w", err)
			}
			byID[id].MarksObtained = marks
		}

		score = SumMarks(answers)
		session.Status = models.SessionGraded
		session.Score = &score
		if err := s.repo.StudentExam().Update(ctx, tx, session); err != nil {
			return fmt.Errorf("failed to update session score: %w", err)
		}

		return recordAudit(ctx, s.repo, tx, actor, auditEntry{
			EventType:   models.AuditGradeUpdated,
			ExamID:      session.ExamID,
			SessionID:   &session.ID,
			Description: fmt.Sprintf("%d answer marks overridden", len(changes)),
			Changes:     map[string]interface{}{"score": score, "answers": changes},
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Session graded successfully", "session_id", session.ID, "professor_id", actor.ID, "score", score)

	publishEvent(ctx, s.publisher, s.logger, events.NewExamGradedEvent(
		session.ID, session.ExamID, session.StudentID, score, session.Exam.TotalMarks, &actor.ID))

	return s.Get(ctx, actor, session.ID)
}

// ===== READS =====

// List returns a student's own sessions, or the sessions of a professor's
// exams.
func (s *studentExamService) List(ctx context.Context, actor *models.User) ([]*SessionResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var filters repositories.StudentExamFilters
	switch actor.Role {
	case models.RoleStudent:
		filters.StudentID = &actor.ID
	case models.RoleProfessor:
		filters.ProfessorID = &actor.ID
	case models.RoleSuperuser:
		return []*SessionResponse{}, nil
	default:
		return []*SessionResponse{}, nil
	}

	sessions, err := s.repo.StudentExam().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list exam sessions: %w", err)
	}

	responses := make([]*SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, NewSessionResponse(session))
	}
	return responses, nil
}

func (s *studentExamService) Get(ctx context.Context, actor *models.User, id uint) (*SessionResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	session, err := s.repo.StudentExam().GetByIDWithDetails(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get exam session: %w", err)
	}
	if !canSeeSession(actor, session) {
		return nil, ErrSessionNotFound
	}
	return NewSessionResponse(session), nil
}

// ===== ACCESS HELPERS =====

func canSeeSession(actor *models.User, session *models.StudentExam) bool {
	switch actor.Role {
	case models.RoleStudent:
		return session.StudentID == actor.ID
	case models.RoleProfessor:
		return session.Exam.ProfessorID == actor.ID
	case models.RoleSuperuser:
		return false
	default:
		return false
	}
}

func (s *studentExamService) loadVisibleSession(ctx context.Context, actor *models.User, id uint) (*models.StudentExam, error) {
	session, err := s.repo.StudentExam().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get exam session: %w", err)
	}
	if !canSeeSession(actor, session) {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// loadOwnSession requires the caller to be the student sitting the exam.
func (s *studentExamService) loadOwnSession(ctx context.Context, actor *models.User, id uint, action string) (*models.StudentExam, error) {
	session, err := s.loadVisibleSession(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if session.StudentID != actor.ID {
		return nil, NewPermissionError(actor.ID, id, "student_exam", action, "not the session owner")
	}
	return session, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

// withTx executes a function within a transaction
func (s *studentExamService) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}
