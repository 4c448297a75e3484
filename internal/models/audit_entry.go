package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditEntry records an administrative mutation of the user store.
type AuditEntry struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorEmail string            `gorm:"size:255;index;not null" json:"actor_email"`
	Action     string            `gorm:"size:64;not null" json:"action"`
	EntityType string            `gorm:"size:64;not null" json:"entity_type"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}
