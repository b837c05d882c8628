package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

type messageService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewMessageService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) MessageService {
	return &messageService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

// Send stores a student's message. A nil professor broadcasts it to every
// professor's inbox.
func (s *messageService) Send(ctx context.Context, actor *models.User, req *SendMessageRequest) (*MessageResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.Role.CanSendMessages() {
		return nil, NewPermissionError(actor.ID, 0, "message", "send", "only students can send messages")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.ProfessorID != nil {
		professor, err := s.repo.User().GetByID(ctx, nil, *req.ProfessorID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get professor: %w", err)
		}
		if professor == nil || professor.Role != models.RoleProfessor {
			return nil, NewValidationError("professor", "must reference an existing professor", *req.ProfessorID)
		}
	}

	message := &models.Message{
		StudentID:   actor.ID,
		ProfessorID: req.ProfessorID,
		Title:       strings.TrimSpace(req.Title),
		Body:        req.Message,
	}
	if err := s.repo.Message().Create(ctx, nil, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	message.Student = *actor

	s.logger.Info("Message sent", "message_id", message.ID, "student_id", actor.ID, "broadcast", message.IsBroadcast())
	publishEvent(ctx, s.publisher, s.logger, events.NewMessageSentEvent(message.ID, actor.ID, message.ProfessorID, message.Title))

	return NewMessageResponse(message, s.now()), nil
}

// List returns a student's sent messages or a professor's inbox, which
// includes broadcasts. Newest first.
func (s *messageService) List(ctx context.Context, actor *models.User) ([]*MessageResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var filters repositories.MessageFilters
	switch actor.Role {
	case models.RoleStudent:
		filters.StudentID = &actor.ID
	case models.RoleProfessor:
		filters.InboxOf = &actor.ID
	case models.RoleSuperuser:
		return []*MessageResponse{}, nil
	default:
		return []*MessageResponse{}, nil
	}

	messages, err := s.repo.Message().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	now := s.now()
	responses := make([]*MessageResponse, 0, len(messages))
	for _, m := range messages {
		responses = append(responses, NewMessageResponse(m, now))
	}
	return responses, nil
}

func (s *messageService) Get(ctx context.Context, actor *models.User, id uint) (*MessageResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	message, err := s.loadVisibleMessage(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return NewMessageResponse(message, s.now()), nil
}

func (s *messageService) MarkRead(ctx context.Context, actor *models.User, id uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	message, err := s.loadVisibleMessage(ctx, actor, id)
	if err != nil {
		return err
	}
	if !actor.Role.CanReadInbox() {
		return NewPermissionError(actor.ID, id, "message", "mark_read", "only professors can mark messages as read")
	}

	if err := s.repo.Message().MarkRead(ctx, nil, message.ID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("failed to mark message read: %w", err)
	}

	s.logger.Info("Message marked as read", "message_id", id, "professor_id", actor.ID)
	return nil
}

// UnreadCount counts unread messages addressed to the professor plus unread
// broadcasts.
func (s *messageService) UnreadCount(ctx context.Context, actor *models.User) (*CountResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.Role.CanReadInbox() {
		return nil, NewPermissionError(actor.ID, 0, "message", "count_unread", "only professors can check unread count")
	}

	count, err := s.repo.Message().CountUnread(ctx, nil, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return &CountResponse{Count: count}, nil
}

func canSeeMessage(actor *models.User, message *models.Message) bool {
	switch actor.Role {
	case models.RoleStudent:
		return message.StudentID == actor.ID
	case models.RoleProfessor:
		return message.ProfessorID == nil || *message.ProfessorID == actor.ID
	case models.RoleSuperuser:
		return false
	default:
		return false
	}
}

func (s *messageService) loadVisibleMessage(ctx context.Context, actor *models.User, id uint) (*models.Message, error) {
	message, err := s.repo.Message().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	if !canSeeMessage(actor, message) {
		return nil, ErrMessageNotFound
	}
	return message, nil
}
