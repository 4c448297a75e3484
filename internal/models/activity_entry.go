package models

import "time"

// Activity is one logged study activity. Rows are append-only: nothing in
// the codebase updates or deletes them.
type Activity struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OwnerEmail string    `gorm:"size:255;index;not null" json:"owner_email"`
	Label      string    `gorm:"size:512;not null" json:"label"`
	StartedAt  time.Time `gorm:"not null" json:"started_at"`
	CreatedAt  time.Time `json:"created_at"`
}
