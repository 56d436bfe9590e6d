package repository

import (
	"context"

	"flavoradmin/internal/model"

	"gorm.io/gorm"
)

type PermissionRepository interface {
	ListAll(ctx context.Context) ([]model.Permission, error)
	FindByCodes(ctx context.Context, codes []string) ([]model.Permission, error)
	// EffectiveCodes returns the union of the role's grants and the user's
	// direct grants. Read fresh on every call: grant changes must take
	// effect on the very next request.
	EffectiveCodes(ctx context.Context, userID, roleID uint) ([]string, error)
}

type permissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) ListAll(ctx context.Context) ([]model.Permission, error) {
	var perms []model.Permission
	if err := GetDB(ctx, r.db).Order("code asc").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *permissionRepository) FindByCodes(ctx context.Context, codes []string) ([]model.Permission, error) {
	var perms []model.Permission
	if len(codes) == 0 {
		return perms, nil
	}
	if err := GetDB(ctx, r.db).Where("code IN ?", codes).Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *permissionRepository) EffectiveCodes(ctx context.Context, userID, roleID uint) ([]string, error) {
	var codes []string
	err := GetDB(ctx, r.db).Raw(`
		SELECT p.code FROM permissions p
		INNER JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = ?
		UNION
		SELECT p.code FROM permissions p
		INNER JOIN user_permissions up ON up.permission_id = p.id
		WHERE up.user_id = ?
	`, roleID, userID).Scan(&codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}
