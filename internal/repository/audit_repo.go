package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yxngashy/studietid/internal/models"
)

// AuditRepository persists the administrative audit trail.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository constructs the audit repository.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entries []models.AuditEntry
	err := query.Find(&entries).Error
	return entries, err
}
