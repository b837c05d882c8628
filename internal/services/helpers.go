package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func requireActor(actor *models.User) error {
	if actor == nil || actor.ID == 0 {
		return ErrUnauthorized
	}
	return nil
}

type auditEntry struct {
	EventType   models.AuditEventType
	ExamID      uint
	SessionID   *uint
	Description string
	Changes     map[string]interface{}
}

// recordAudit writes the entry on tx so it commits or rolls back with the
// change it describes.
func recordAudit(ctx context.Context, repo repositories.Repository, tx *gorm.DB, actor *models.User, entry auditEntry) error {
	log := &models.AuditLog{
		EventType:   entry.EventType,
		UserID:      actor.ID,
		UserRole:    actor.Role,
		ExamID:      entry.ExamID,
		SessionID:   entry.SessionID,
		Description: entry.Description,
	}

	if len(entry.Changes) > 0 {
		data, err := json.Marshal(entry.Changes)
		if err != nil {
			return fmt.Errorf("failed to encode audit changes: %w", err)
		}
		log.Changes = datatypes.JSON(data)
	}

	if err := repo.Audit().Create(ctx, tx, log); err != nil {
		return fmt.Errorf("failed to record audit log: %w", err)
	}
	return nil
}

// publishEvent runs after the database commit, so a broker failure is
// logged and never reported to the caller.
func publishEvent(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, event *events.DomainEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Error("Failed to publish event", "event_type", event.Type, "event_id", event.ID, "error", err)
	}
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
