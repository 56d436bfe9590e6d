package service

import (
	"context"
	"errors"
	"time"

	"flavoradmin/internal/model"
	"flavoradmin/internal/repository"
	ws "flavoradmin/internal/websocket"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// ErrInvalidCredentials is returned for both unknown username and wrong
// password so a caller cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid username or password")

// DTOs
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
	RoleID    uint   `json:"roleId" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error)
}

type authService struct {
	users     repository.UserRepository
	roles     repository.RoleRepository
	audit     auditWriter
	txManager repository.TransactionManager
	secret    []byte
}

func NewAuthService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	secret []byte,
) AuthService {
	return &authService{
		users:     users,
		roles:     roles,
		audit:     newAuditWriter(auditRepo, hub),
		txManager: txManager,
		secret:    secret,
	}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
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
			return err
		}
		details := map[string]interface{}{
			"firstName": req.FirstName,
			"lastName":  req.LastName,
			"username":  req.Username,
			"roleId":    req.RoleID,
		}
		return s.audit.record(txCtx, &user.ID, "User", user.ID, model.AuditActionCreate, details)
	})
	if err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

func (s *authService) issueToken(user *model.User) (*TokenResponse, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     user.ID,
		"role_id": user.RoleID,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}
	return &TokenResponse{AccessToken: signed}, nil
}
