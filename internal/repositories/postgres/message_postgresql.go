package postgres

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type MessagePostgreSQL struct {
	helpers *SharedHelpers
}

func NewMessagePostgreSQL(db *gorm.DB) repositories.MessageRepository {
	return &MessagePostgreSQL{helpers: NewSharedHelpers(db)}
}

func (m *MessagePostgreSQL) Create(ctx context.Context, tx *gorm.DB, message *models.Message) error {
	return m.helpers.getDB(ctx, tx).Omit("Student", "Professor").Create(message).Error
}

func (m *MessagePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Message, error) {
	var message models.Message
	if err := m.helpers.getDB(ctx, tx).Preload("Student").First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// List returns messages newest first.
func (m *MessagePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.MessageFilters) ([]*models.Message, error) {
	var messages []*models.Message

	query := m.helpers.getDB(ctx, tx).Model(&models.Message{})
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.InboxOf != nil {
		query = query.Where("professor_id = ? OR professor_id IS NULL", *filters.InboxOf)
	}

	if err := query.
		Preload("Student").
		Order("created_at DESC").
		Order("id DESC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (m *MessagePostgreSQL) MarkRead(ctx context.Context, tx *gorm.DB, id uint) error {
	result := m.helpers.getDB(ctx, tx).Model(&models.Message{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountUnread counts unread messages addressed to the professor plus
// unread broadcasts.
func (m *MessagePostgreSQL) CountUnread(ctx context.Context, tx *gorm.DB, professorID uint) (int64, error) {
	var count int64
	err := m.helpers.getDB(ctx, tx).Model(&models.Message{}).
		Where("is_read = ?", false).
		Where("professor_id = ? OR professor_id IS NULL", professorID).
		Count(&count).Error
	return count, err
}
