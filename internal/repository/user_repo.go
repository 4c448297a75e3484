package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yxngashy/studietid/internal/models"
)

// UserRepository persists user accounts keyed by email.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdateName(ctx context.Context, email, firstName, lastName string) (int64, error)
	DeleteExact(ctx context.Context, firstName, lastName string, isAdmin bool, email string) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs the user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return user, err
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateName touches only the name columns of the row matching the email.
func (r *userRepository) UpdateName(ctx context.Context, email, firstName, lastName string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{"first_name": firstName, "last_name": lastName})
	return result.RowsAffected, result.Error
}

// DeleteExact removes the row matching all four fields. A mismatch on any
// field deletes nothing; callers are expected to surface the zero-row case.
func (r *userRepository) DeleteExact(ctx context.Context, firstName, lastName string, isAdmin bool, email string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("first_name = ? AND last_name = ? AND is_admin = ? AND email = ?", firstName, lastName, isAdmin, email).
		Delete(&models.User{})
	return result.RowsAffected, result.Error
}
