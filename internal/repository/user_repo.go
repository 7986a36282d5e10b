package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/moonbase-api/internal/models"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByLogin(ctx context.Context, login string) (models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository instantiates a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

// GetByLogin matches either the username or the email address.
func (r *userRepository) GetByLogin(ctx context.Context, login string) (models.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(login))

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(username) = ? OR LOWER(email) = ?", normalized, normalized).
		Order("id ASC").
		First(&user).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(username) = ? OR LOWER(email) = ?", strings.ToLower(username), strings.ToLower(email)).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
