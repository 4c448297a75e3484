package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// ActivityEvent is the payload published for each registered activity.
type ActivityEvent struct {
	ID         uint      `json:"id"`
	OwnerEmail string    `json:"owner_email"`
	Label      string    `json:"label"`
	StartedAt  time.Time `json:"started_at"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ActivityPublisher fans registered activities out to interested consumers.
type ActivityPublisher interface {
	Publish(ctx context.Context, event ActivityEvent) error
}

type natsActivityPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSActivityPublisher publishes activity events on a NATS subject.
func NewNATSActivityPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) ActivityPublisher {
	return &natsActivityPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "activity_publisher").Logger(),
	}
}

func (p *natsActivityPublisher) Publish(_ context.Context, event ActivityEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		p.logger.Error().Err(err).Str("subject", p.subject).Msg("failed to publish activity event")
		return err
	}

	return nil
}

// NoopActivityPublisher discards events; used when NATS is not configured.
type NoopActivityPublisher struct{}

// Publish implements ActivityPublisher.
func (NoopActivityPublisher) Publish(context.Context, ActivityEvent) error { return nil }
