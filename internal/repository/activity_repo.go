package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yxngashy/studietid/internal/models"
)

// ActivityRepository persists logged activities. The table is append-only;
// no update or delete methods exist.
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	ListAll(ctx context.Context) ([]models.Activity, error)
	CountByOwner(ctx context.Context, ownerEmail string) (int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository constructs the activity repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// ListAll returns every activity row for the admin report, newest first.
func (r *activityRepository) ListAll(ctx context.Context) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&activities).Error
	return activities, err
}

func (r *activityRepository) CountByOwner(ctx context.Context, ownerEmail string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Activity{}).Where("owner_email = ?", ownerEmail).Count(&count).Error
	return count, err
}
