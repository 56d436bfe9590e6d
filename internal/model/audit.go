package model

import (
	"time"
)

// Audit actions (closed set)
const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
)

// AuditLog tracks who changed what entity and how. Rows are append-only:
// the application never updates or deletes them.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"` // Nullable for system-originated writes (import sweep)
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Entity    string    `gorm:"type:varchar(50);not null;index" json:"entity"` // "Brand", "Flavor", ...
	EntityID  uint      `gorm:"index" json:"entity_id"`
	Action    string    `gorm:"type:varchar(20);not null;index" json:"action"`
	Details   string    `gorm:"type:jsonb" json:"details"` // JSON diff of the fields actually supplied
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
