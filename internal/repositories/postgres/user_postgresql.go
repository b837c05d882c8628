package postgres

import (
	"context"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type UserPostgreSQL struct {
	helpers *SharedHelpers
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{helpers: NewSharedHelpers(db)}
}

func (u *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return u.helpers.getDB(ctx, tx).Create(user).Error
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := u.helpers.getDB(ctx, tx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := u.helpers.getDB(ctx, tx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) ExistsByUsernameOrStudentID(ctx context.Context, tx *gorm.DB, username, studentID string) (bool, error) {
	var count int64
	err := u.helpers.getDB(ctx, tx).Model(&models.User{}).
		Where("username = ? OR student_id = ?", username, studentID).
		Count(&count).Error
	return count > 0, err
}

// ListByRole returns users ordered by full name, then id.
func (u *UserPostgreSQL) ListByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) ([]*models.User, error) {
	var users []*models.User
	if err := u.helpers.getDB(ctx, tx).
		Where("role = ?", role).
		Order("full_name ASC").
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (u *UserPostgreSQL) CountByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) (int64, error) {
	var count int64
	err := u.helpers.getDB(ctx, tx).Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (u *UserPostgreSQL) UpdateLastLogin(ctx context.Context, tx *gorm.DB, id uint) error {
	return u.helpers.getDB(ctx, tx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login_at", time.Now()).Error
}
