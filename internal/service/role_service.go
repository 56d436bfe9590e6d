package service

import (
	"context"
	"errors"
	"fmt"

	"flavoradmin/internal/model"
	"flavoradmin/internal/repository"
	ws "flavoradmin/internal/websocket"
)

// ErrRoleInUse guards role deletion: a role referenced by at least one user
// must not be removed.
var ErrRoleInUse = errors.New("cannot delete a role that is assigned to users")

// DTOs
type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Permissions []string `json:"permissions"` // Permission codes
}

type UpdateRoleRequest struct {
	Name        *string   `json:"name"`
	Permissions *[]string `json:"permissions"`
}

type UpdateRolePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

type RoleResponse struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	Permissions []PermissionResponse `json:"permissions"`
}

type PermissionResponse struct {
	ID          uint   `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

type RoleService interface {
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	GetRole(ctx context.Context, id uint) (*RoleResponse, error)
	CreateRole(ctx context.Context, actorID uint, req CreateRoleRequest) (*RoleResponse, error)
	UpdateRole(ctx context.Context, actorID uint, id uint, req UpdateRoleRequest) (*RoleResponse, error)
	UpdateRolePermissions(ctx context.Context, actorID uint, id uint, req UpdateRolePermissionsRequest) (*RoleResponse, error)
	DeleteRole(ctx context.Context, actorID uint, id uint) error
	ListPermissions(ctx context.Context) ([]PermissionResponse, error)
}

type roleService struct {
	roles     repository.RoleRepository
	users     repository.UserRepository
	perms     repository.PermissionRepository
	audit     auditWriter
	txManager repository.TransactionManager
}

func NewRoleService(
	roles repository.RoleRepository,
	users repository.UserRepository,
	perms repository.PermissionRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) RoleService {
	return &roleService{
		roles:     roles,
		users:     users,
		perms:     perms,
		audit:     newAuditWriter(auditRepo, hub),
		txManager: txManager,
	}
}

func toPermissionResponse(p model.Permission) PermissionResponse {
	return PermissionResponse{ID: p.ID, Code: p.Code, Description: p.Description}
}

func toRoleResponse(r model.Role) RoleResponse {
	perms := make([]PermissionResponse, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		perms = append(perms, toPermissionResponse(p))
	}
	return RoleResponse{ID: r.ID, Name: r.Name, Permissions: perms}
}

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.roles.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}

	res := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		res = append(res, toRoleResponse(r))
	}
	return res, nil
}

func (s *roleService) GetRole(ctx context.Context, id uint) (*RoleResponse, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("role not found")
	}
	resp := toRoleResponse(*role)
	return &resp, nil
}

func (s *roleService) CreateRole(ctx context.Context, actorID uint, req CreateRoleRequest) (*RoleResponse, error) {
	role := &model.Role{Name: req.Name}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.roles.Create(txCtx, role); err != nil {
			return fmt.Errorf("failed to create role: %w", err)
		}

		if len(req.Permissions) > 0 {
			perms, err := s.perms.FindByCodes(txCtx, req.Permissions)
			if err != nil {
				return fmt.Errorf("failed to fetch permissions: %w", err)
			}
			if err := s.roles.ReplacePermissions(txCtx, role, perms); err != nil {
				return fmt.Errorf("failed to assign permissions: %w", err)
			}
		}

		details := map[string]interface{}{"name": req.Name}
		if len(req.Permissions) > 0 {
			details["permissions"] = req.Permissions
		}
		return s.audit.record(txCtx, &actorID, "Role", role.ID, model.AuditActionCreate, details)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRole(ctx, role.ID)
}

func (s *roleService) UpdateRole(ctx context.Context, actorID uint, id uint, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("role not found")
	}

	diff := map[string]interface{}{}
	if req.Name != nil {
		role.Name = *req.Name
		diff["name"] = *req.Name
	}
	if req.Permissions != nil {
		diff["permissions"] = *req.Permissions
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if req.Name != nil {
			if err := s.roles.Update(txCtx, role); err != nil {
				return fmt.Errorf("failed to update role: %w", err)
			}
		}
		if req.Permissions != nil {
			perms, err := s.perms.FindByCodes(txCtx, *req.Permissions)
			if err != nil {
				return fmt.Errorf("failed to fetch permissions: %w", err)
			}
			if err := s.roles.ReplacePermissions(txCtx, role, perms); err != nil {
				return fmt.Errorf("failed to replace permissions: %w", err)
			}
		}
		return s.audit.record(txCtx, &actorID, "Role", role.ID, model.AuditActionUpdate, diff)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRole(ctx, id)
}

func (s *roleService) UpdateRolePermissions(ctx context.Context, actorID uint, id uint, req UpdateRolePermissionsRequest) (*RoleResponse, error) {
	perms := req.Permissions
	return s.UpdateRole(ctx, actorID, id, UpdateRoleRequest{Permissions: &perms})
}

func (s *roleService) DeleteRole(ctx context.Context, actorID uint, id uint) error {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return errors.New("role not found")
	}

	count, err := s.users.CountByRole(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count role references: %w", err)
	}
	if count > 0 {
		return ErrRoleInUse
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.roles.Delete(txCtx, role.ID); err != nil {
			return fmt.Errorf("failed to delete role: %w", err)
		}
		return s.audit.record(txCtx, &actorID, "Role", role.ID, model.AuditActionDelete, map[string]interface{}{})
	})
}

func (s *roleService) ListPermissions(ctx context.Context) ([]PermissionResponse, error) {
	perms, err := s.perms.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}

	res := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		res = append(res, toPermissionResponse(p))
	}
	return res, nil
}
