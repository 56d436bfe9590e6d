package database

import (
	"flavoradmin/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Permission registry seeded at startup. Codes are stable string keys;
// descriptions are display text only.
var seedPermissions = []model.Permission{
	{Code: model.PermViewLogs, Description: "View audit logs"},
	{Code: model.PermImportData, Description: "Import data"},
	{Code: model.PermExportData, Description: "Export data"},
	{Code: model.PermDeleteFlavor, Description: "Delete flavors"},
	{Code: model.PermManageUsers, Description: "Manage users"},
	{Code: model.PermManageRoles, Description: "Manage roles"},
	{Code: model.PermViewRequests, Description: "View requests"},
	{Code: model.PermApproveRequests, Description: "Approve requests"},
}

// Seed upserts the permission registry, the default manager/staff roles and
// a bootstrap admin account. Safe to run on every startup.
func Seed(db *gorm.DB) error {
	perms := make([]model.Permission, 0, len(seedPermissions))
	for _, p := range seedPermissions {
		perm := p
		if err := db.Where("code = ?", perm.Code).
			Attrs(model.Permission{Description: perm.Description}).
			FirstOrCreate(&perm).Error; err != nil {
			return err
		}
		perms = append(perms, perm)
	}

	manager := model.Role{Name: "manager"}
	if err := db.Where("name = ?", manager.Name).FirstOrCreate(&manager).Error; err != nil {
		return err
	}
	if err := db.Model(&manager).Association("Permissions").Replace(perms); err != nil {
		return err
	}

	staff := model.Role{Name: "staff"}
	if err := db.Where("name = ?", staff.Name).FirstOrCreate(&staff).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := model.User{
			FirstName:    "Admin",
			LastName:     "User",
			Username:     "admin",
			PasswordHash: string(hash),
			RoleID:       manager.ID,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
	}

	return nil
}
