package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db          *gorm.DB
	user        repositories.UserRepository
	exam        repositories.ExamRepository
	studentExam repositories.StudentExamRepository
	message     repositories.MessageRepository
	swot        repositories.SWOTRepository
	audit       repositories.AuditRepository
}

// NewRepository wires every PostgreSQL repository around one connection.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:          db,
		user:        NewUserPostgreSQL(db),
		exam:        NewExamPostgreSQL(db),
		studentExam: NewStudentExamPostgreSQL(db),
		message:     NewMessagePostgreSQL(db),
		swot:        NewSWOTPostgreSQL(db),
		audit:       NewAuditPostgreSQL(db),
	}
}

func (r *repository) User() repositories.UserRepository               { return r.user }
func (r *repository) Exam() repositories.ExamRepository               { return r.exam }
func (r *repository) StudentExam() repositories.StudentExamRepository { return r.studentExam }
func (r *repository) Message() repositories.MessageRepository         { return r.message }
func (r *repository) SWOT() repositories.SWOTRepository               { return r.swot }
func (r *repository) Audit() repositories.AuditRepository             { return r.audit }

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// SharedHelpers holds the tx fallback used by every repository.
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

func (h *SharedHelpers) getDB(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return h.db.WithContext(ctx)
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB, models ...interface{}) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
