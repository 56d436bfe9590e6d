package service

import (
	"context"
	"errors"
	"fmt"

	"flavoradmin/internal/model"
	"flavoradmin/internal/repository"
	ws "flavoradmin/internal/websocket"

	"golang.org/x/crypto/bcrypt"
)

// DTOs
type CreateUserRequest struct {
	FirstName   string   `json:"firstName" binding:"required"`
	LastName    string   `json:"lastName" binding:"required"`
	Username    string   `json:"username" binding:"required"`
	Password    string   `json:"password" binding:"required,min=6"`
	RoleID      uint     `json:"roleId" binding:"required"`
	Permissions []string `json:"permissions"` // Direct grant codes
}

// UpdateUserRequest carries a partial update: nil fields are left untouched
// and excluded from the audit diff.
type UpdateUserRequest struct {
	FirstName   *string   `json:"firstName"`
	LastName    *string   `json:"lastName"`
	RoleID      *uint     `json:"roleId"`
	Permissions *[]string `json:"permissions"` // Replaces all direct grants when present
}

type UserResponse struct {
	ID          uint                 `json:"id"`
	FirstName   string               `json:"first_name"`
	LastName    string               `json:"last_name"`
	Username    string               `json:"username"`
	Role        RoleSummary          `json:"role"`
	Permissions []PermissionResponse `json:"permissions"`
}

type RoleSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type UserService interface {
	ListUsers(ctx context.Context) ([]UserResponse, error)
	GetUser(ctx context.Context, id uint) (*UserResponse, error)
	CreateUser(ctx context.Context, actorID uint, req CreateUserRequest) (*UserResponse, error)
	UpdateUser(ctx context.Context, actorID uint, id uint, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actorID uint, id uint) error
}

type userService struct {
	users     repository.UserRepository
	roles     repository.RoleRepository
	perms     repository.PermissionRepository
	audit     auditWriter
	txManager repository.TransactionManager
}

func NewUserService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	perms repository.PermissionRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) UserService {
	return &userService{
		users:     users,
		roles:     roles,
		perms:     perms,
		audit:     newAuditWriter(auditRepo, hub),
		txManager: txManager,
	}
}

func toUserResponse(u model.User) UserResponse {
	perms := make([]PermissionResponse, 0, len(u.Permissions))
	for _, p := range u.Permissions {
		perms = append(perms, toPermissionResponse(p))
	}
	return UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Username:    u.Username,
		Role:        RoleSummary{ID: u.Role.ID, Name: u.Role.Name},
		Permissions: perms,
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	res := make([]UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, toUserResponse(u))
	}
	return res, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}
	resp := toUserResponse(*user)
	return &resp, nil
}

func (s *userService) CreateUser(ctx context.Context, actorID uint, req CreateUserRequest) (*UserResponse, error) {
	if _, err := s.roles.FindByID(ctx, req.RoleID); err != nil {
		return nil, errors.New("role not found")
	}
	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return nil, errors.New("username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		PasswordHash: string(hash),
		RoleID:       req.RoleID,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.users.Create(txCtx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		if len(req.Permissions) > 0 {
			perms, err := s.perms.FindByCodes(txCtx, req.Permissions)
			if err != nil {
				return fmt.Errorf("failed to fetch permissions: %w", err)
			}
			if err := s.users.ReplacePermissions(txCtx, user, perms); err != nil {
				return fmt.Errorf("failed to grant permissions: %w", err)
			}
		}

		details := map[string]interface{}{
			"firstName": req.FirstName,
			"lastName":  req.LastName,
			"username":  req.Username,
			"roleId":    req.RoleID,
		}
		if len(req.Permissions) > 0 {
			details["permissions"] = req.Permissions
		}
		return s.audit.record(txCtx, &actorID, "User", user.ID, model.AuditActionCreate, details)
	})
	if err != nil {
		return nil, err
	}

	return s.GetUser(ctx, user.ID)
}

func (s *userService) UpdateUser(ctx context.Context, actorID uint, id uint, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}

	diff := map[string]interface{}{}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
		diff["firstName"] = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
		diff["lastName"] = *req.LastName
	}
	if req.RoleID != nil {
		if _, err := s.roles.FindByID(ctx, *req.RoleID); err != nil {
			return nil, errors.New("role not found")
		}
		user.RoleID = *req.RoleID
		diff["roleId"] = *req.RoleID
	}
	if req.Permissions != nil {
		diff["permissions"] = *req.Permissions
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.users.Update(txCtx, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		if req.Permissions != nil {
			perms, err := s.perms.FindByCodes(txCtx, *req.Permissions)
			if err != nil {
				return fmt.Errorf("failed to fetch permissions: %w", err)
			}
			if err := s.users.ReplacePermissions(txCtx, user, perms); err != nil {
				return fmt.Errorf("failed to replace permissions: %w", err)
			}
		}

		return s.audit.record(txCtx, &actorID, "User", user.ID, model.AuditActionUpdate, diff)
	})
	if err != nil {
		return nil, err
	}

	return s.GetUser(ctx, id)
}

func (s *userService) DeleteUser(ctx context.Context, actorID uint, id uint) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return errors.New("user not found")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.users.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return s.audit.record(txCtx, &actorID, "User", id, model.AuditActionDelete, map[string]interface{}{})
	})
}
