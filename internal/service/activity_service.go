package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yxngashy/studietid/internal/dto"
	"github.com/yxngashy/studietid/internal/models"
	"github.com/yxngashy/studietid/internal/observability"
	"github.com/yxngashy/studietid/internal/repository"
)

// ActivityService validates and persists logged activities. The owner is
// always the authenticated identity passed in by the handler; nothing from
// the request body can attribute an activity to someone else.
type ActivityService interface {
	Register(ctx context.Context, ownerEmail string, req dto.RegisterActivityRequest) (dto.ActivityResponse, error)
}

type activityService struct {
	repo      repository.ActivityRepository
	publisher ActivityPublisher
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewActivityService constructs the activity service.
func NewActivityService(repo repository.ActivityRepository, publisher ActivityPublisher, logger zerolog.Logger) ActivityService {
	if publisher == nil {
		publisher = NoopActivityPublisher{}
	}

	return &activityService{
		repo:      repo,
		publisher: publisher,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "activity_service").Logger(),
		tracer:    otel.Tracer("github.com/yxngashy/studietid/internal/service/activity"),
	}
}

func (s *activityService) Register(ctx context.Context, ownerEmail string, req dto.RegisterActivityRequest) (dto.ActivityResponse, error) {
	ownerEmail = normalizeEmail(ownerEmail)
	if ownerEmail == "" {
		return dto.ActivityResponse{}, fmt.Errorf("%w: owner identity missing", ErrInvalidActivity)
	}

	label := strings.TrimSpace(s.sanitizer.Sanitize(req.Label))
	if label == "" {
		return dto.ActivityResponse{}, fmt.Errorf("%w: activity label must not be empty", ErrInvalidActivity)
	}

	startedAt := time.Now().UTC()
	if trimmed := strings.TrimSpace(req.StartTime); trimmed != "" {
		parsed, err := time.Parse(time.RFC3339, trimmed)
		if err != nil {
			return dto.ActivityResponse{}, fmt.Errorf("%w: start time must be RFC 3339", ErrInvalidActivity)
		}
		startedAt = parsed.UTC()
	}

	spanCtx, span := s.tracer.Start(ctx, "activity.register", trace.WithAttributes(
		attribute.String("activity.owner", ownerEmail),
	))
	defer span.End()

	activity := models.Activity{
		OwnerEmail: ownerEmail,
		Label:      label,
		StartedAt:  startedAt,
	}

	if err := s.repo.Create(spanCtx, &activity); err != nil {
		span.RecordError(err)
		return dto.ActivityResponse{}, err
	}

	observability.ActivitiesRecorded().Inc()

	event := ActivityEvent{
		ID:         activity.ID,
		OwnerEmail: activity.OwnerEmail,
		Label:      activity.Label,
		StartedAt:  activity.StartedAt,
		RecordedAt: activity.CreatedAt,
	}
	if err := s.publisher.Publish(spanCtx, event); err != nil {
		// The row is committed; fan-out failure is not the client's problem.
		s.logger.Warn().Err(err).Uint("activity_id", activity.ID).Msg("activity event not published")
	}

	response := dto.NewActivityResponse(activity)
	if total, err := s.repo.CountByOwner(spanCtx, ownerEmail); err == nil {
		response.OwnerTotal = total
	} else {
		s.logger.Warn().Err(err).Str("owner", ownerEmail).Msg("owner activity count unavailable")
	}

	s.logger.Info().Str("owner", ownerEmail).Uint("activity_id", activity.ID).Msg("activity registered")
	return response, nil
}
