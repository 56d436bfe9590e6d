package model

import (
	"time"
)

// Import job lifecycle. A job starts pending, is picked up by the sweep and
// ends completed (no row errors) or failed (one or more row errors).
const (
	ImportStatusPending   = "pending"
	ImportStatusCompleted = "completed"
	ImportStatusFailed    = "failed"
)

// Entity types accepted by the import endpoint (closed set)
const (
	ImportEntityFlavors = "flavors"
	ImportEntityStocks  = "stocks"
)

// ImportJob tracks one uploaded batch file through processing
type ImportJob struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EntityType   string    `gorm:"type:varchar(30);not null" json:"entity_type"`
	Filename     string    `gorm:"type:varchar(255);not null" json:"filename"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Errors       string    `gorm:"type:jsonb" json:"errors"` // JSON array of per-row error strings
	UploadedByID *uint     `gorm:"index" json:"uploaded_by_id"`
	UploadedBy   *User     `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
