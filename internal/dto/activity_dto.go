package dto

import (
	"time"

	"github.com/yxngashy/studietid/internal/models"
)

// RegisterActivityRequest captures the /regActivity payload. The owner is
// never part of the payload; it is always the authenticated identity.
type RegisterActivityRequest struct {
	Label     string `json:"activity" form:"activity"`
	StartTime string `json:"startTime" form:"startTime"`
}

// ActivityResponse serializes one logged activity. OwnerTotal is the
// owner's running activity count, included when registering.
type ActivityResponse struct {
	ID         uint      `json:"id"`
	OwnerEmail string    `json:"owner_email"`
	Label      string    `json:"label"`
	StartedAt  time.Time `json:"started_at"`
	CreatedAt  time.Time `json:"created_at"`
	OwnerTotal int64     `json:"owner_total,omitempty"`
}

// NewActivityResponse converts an activity model into its API representation.
func NewActivityResponse(activity models.Activity) ActivityResponse {
	return ActivityResponse{
		ID:         activity.ID,
		OwnerEmail: activity.OwnerEmail,
		Label:      activity.Label,
		StartedAt:  activity.StartedAt,
		CreatedAt:  activity.CreatedAt,
	}
}

// ActivityListResponse wraps the admin activity report.
type ActivityListResponse struct {
	Items []ActivityResponse `json:"items"`
	Total int                `json:"total"`
}

// AuditEntryResponse serializes one audit trail entry.
type AuditEntryResponse struct {
	ID         uint                   `json:"id"`
	ActorEmail string                 `json:"actor_email"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewAuditEntryResponse converts an audit entry model into its API representation.
func NewAuditEntryResponse(entry models.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         entry.ID,
		ActorEmail: entry.ActorEmail,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		Metadata:   entry.Metadata,
		CreatedAt:  entry.CreatedAt,
	}
}
