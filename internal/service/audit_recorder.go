package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/yxngashy/studietid/internal/models"
	"github.com/yxngashy/studietid/internal/repository"
)

// AuditRecorder appends entries to the administrative audit trail.
// Recording is best-effort: a failed write is logged but never fails the
// operation that triggered it.
type AuditRecorder interface {
	Record(ctx context.Context, actorEmail, action, entityType string, metadata map[string]interface{})
}

type auditRecorder struct {
	repo   repository.AuditRepository
	logger zerolog.Logger
}

// NewAuditRecorder constructs the audit recorder.
func NewAuditRecorder(repo repository.AuditRepository, logger zerolog.Logger) AuditRecorder {
	return &auditRecorder{
		repo:   repo,
		logger: logger.With().Str("component", "audit_recorder").Logger(),
	}
}

func (r *auditRecorder) Record(ctx context.Context, actorEmail, action, entityType string, metadata map[string]interface{}) {
	if actorEmail == "" {
		actorEmail = "anonymous"
	}

	entry := models.AuditEntry{
		ActorEmail: actorEmail,
		Action:     action,
		EntityType: entityType,
		Metadata:   datatypes.JSONMap(metadata),
	}

	if err := r.repo.Create(ctx, &entry); err != nil {
		r.logger.Error().Err(err).Str("action", action).Msg("failed to record audit entry")
	}
}

// NoopAuditRecorder discards entries; used where auditing is not wired.
type NoopAuditRecorder struct{}

// Record implements AuditRecorder.
func (NoopAuditRecorder) Record(context.Context, string, string, string, map[string]interface{}) {}
