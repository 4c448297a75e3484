package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yxngashy/studietid/internal/dto"
	"github.com/yxngashy/studietid/internal/repository"
)

const auditLogDefaultLimit = 200

// ReportService serves the admin views: the complete activity log and the
// administrative audit trail.
type ReportService interface {
	Activities(ctx context.Context) (dto.ActivityListResponse, error)
	AuditLog(ctx context.Context, limit int) ([]dto.AuditEntryResponse, error)
}

type reportService struct {
	activities repository.ActivityRepository
	audit      repository.AuditRepository
	logger     zerolog.Logger
}

// NewReportService constructs the report service.
func NewReportService(activities repository.ActivityRepository, audit repository.AuditRepository, logger zerolog.Logger) ReportService {
	return &reportService{
		activities: activities,
		audit:      audit,
		logger:     logger.With().Str("component", "report_service").Logger(),
	}
}

// Activities returns the complete, unfiltered activity log. The admin
// report renders everything; there is no pagination on this surface.
func (s *reportService) Activities(ctx context.Context) (dto.ActivityListResponse, error) {
	activities, err := s.activities.ListAll(ctx)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	items := make([]dto.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		items = append(items, dto.NewActivityResponse(activity))
	}

	return dto.ActivityListResponse{Items: items, Total: len(items)}, nil
}

func (s *reportService) AuditLog(ctx context.Context, limit int) ([]dto.AuditEntryResponse, error) {
	if limit <= 0 {
		limit = auditLogDefaultLimit
	}

	entries, err := s.audit.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewAuditEntryResponse(entry))
	}

	return responses, nil
}
