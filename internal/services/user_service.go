package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
)

type userService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewUserService(repo repositories.Repository, logger *slog.Logger) UserService {
	return &userService{
		repo:   repo,
		logger: logger,
	}
}

func (s *userService) Profile(ctx context.Context, actor *models.User) (*UserResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return NewUserResponse(actor), nil
}

func (s *userService) StudentCount(ctx context.Context, actor *models.User) (*CountResponse, error) {
	if err := s.requireRosterAccess(actor, "count"); err != nil {
		return nil, err
	}

	count, err := s.repo.User().CountByRole(ctx, nil, models.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}
	return &CountResponse{Count: count}, nil
}

// ListStudents builds the roster with each student's average on a 0-20
// scale over their submitted or graded sessions. It is recomputed on every
// call.
func (s *userService) ListStudents(ctx context.Context, actor *models.User) ([]*StudentSummary, error) {
	if err := s.requireRosterAccess(actor, "list"); err != nil {
		return nil, err
	}

	students, err := s.repo.User().ListByRole(ctx, nil, models.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	stats, err := s.repo.StudentExam().GetStudentResultStats(ctx, nil)
	if err != nil {
		return nil, err
	}

	withSWOT, err := s.repo.SWOT().StudentsWithCompletedAnalysis(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load swot completion: %w", err)
	}

	summaries := make([]*StudentSummary, 0, len(students))
	for _, student := range students {
		summary := &StudentSummary{
			ID:        student.ID,
			Name:      student.DisplayName(),
			StudentID: "-",
			HasSWOT:   withSWOT[student.ID],
		}
		if student.StudentID != nil && *student.StudentID != "" {
			summary.StudentID = *student.StudentID
		}
		if stat, ok := stats[student.ID]; ok && stat.ExamCount > 0 {
			summary.ExamCount = stat.ExamCount
			summary.Average = studentAverage(stat.ScoreSum, stat.PossibleSum)
		}
		summaries = append(summaries, summary)
	}

	s.logger.Debug("Student roster built", "professor_id", actor.ID, "students", len(summaries))
	return summaries, nil
}

// studentAverage scales the score ratio to 20 points. An empty denominator
// yields 0 rather than nil because the student did sit exams.
func studentAverage(scoreSum, possibleSum float64) *float64 {
	var average float64
	if possibleSum > 0 {
		average = round2(scoreSum / possibleSum * 20)
	}
	return &average
}

func (s *userService) requireRosterAccess(actor *models.User, action string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.CanViewStudents() {
		return NewPermissionError(actor.ID, 0, "students", action, "only professors can access the student roster")
	}
	return nil
}
