package model

import (
	"time"
)

// User is the central identity entity. Every user belongs to exactly one
// role and may additionally hold direct permission grants on top of it.
type User struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	FirstName    string       `gorm:"type:varchar(255);not null" json:"first_name"`
	LastName     string       `gorm:"type:varchar(255);not null" json:"last_name"`
	Username     string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash string       `gorm:"type:varchar(255);not null" json:"-"` // Omit hash from JSON responses
	RoleID       uint         `gorm:"not null;index" json:"role_id"`
	Role         Role         `gorm:"foreignKey:RoleID" json:"role"`
	Permissions  []Permission `gorm:"many2many:user_permissions;" json:"permissions"` // Direct grants, unioned with role grants
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// FullName joins first and last name for display in audit and request views.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
