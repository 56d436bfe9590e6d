package model

import (
	"time"
)

// Role represents a named bundle of permissions assignable to users
type Role struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Registered permission codes. The set is fixed; roles and users are
// granted subsets of it.
const (
	PermViewLogs        = "view_logs"
	PermImportData      = "import_data"
	PermExportData      = "export_data"
	PermDeleteFlavor    = "delete_flavor"
	PermManageUsers     = "manage_users"
	PermManageRoles     = "manage_roles"
	PermViewRequests    = "view_requests"
	PermApproveRequests = "approve_requests"
)

// Permission represents a single grantable capability identified by code
type Permission struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"` // e.g. "export_data"
	Description string `gorm:"type:varchar(255)" json:"description"`
}
