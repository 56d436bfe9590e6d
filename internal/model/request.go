package model

import (
	"time"
)

// Request status enum constants. Pending is the only non-terminal state:
// once approved or rejected a request can no longer transition.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// ValidRequestStatus reports whether s is a known request status value
func ValidRequestStatus(s string) bool {
	return s == RequestStatusPending || s == RequestStatusApproved || s == RequestStatusRejected
}

// Request is a user-submitted approval item referencing one or more flavors.
// Moderators holding approve_requests transition it out of pending.
type Request struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Comment     string    `gorm:"type:text" json:"comment"`
	CreatedByID uint      `gorm:"not null;index" json:"created_by_id"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Flavors     []Flavor  `gorm:"many2many:request_flavors;" json:"flavors"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
