package postgres

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type AuditPostgreSQL struct {
	helpers *SharedHelpers
}

func NewAuditPostgreSQL(db *gorm.DB) repositories.AuditRepository {
	return &AuditPostgreSQL{helpers: NewSharedHelpers(db)}
}

func (a *AuditPostgreSQL) Create(ctx context.Context, tx *gorm.DB, entry *models.AuditLog) error {
	return a.helpers.getDB(ctx, tx).Create(entry).Error
}

func (a *AuditPostgreSQL) ListByExam(ctx context.Context, tx *gorm.DB, examID uint) ([]*models.AuditLog, error) {
	var entries []*models.AuditLog
	if err := a.helpers.getDB(ctx, tx).
		Where("exam_id = ?", examID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
