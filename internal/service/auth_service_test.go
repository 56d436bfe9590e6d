package service

import (
	"context"
	"testing"

	"flavoradmin/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServiceForTest(t *testing.T) (AuthService, testDeps) {
	deps := newTestDeps(t)
	svc := NewAuthService(deps.users, deps.roles, deps.audits, deps.tx, nil, []byte("test-secret"))
	return svc, deps
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, deps := newAuthServiceForTest(t)

	token, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "123456"})
	require.NoError(t, err)
	require.NotEmpty(t, token.AccessToken)

	parsed, err := jwt.Parse(token.AccessToken, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(deps.adminID(t)), claims["sub"])
	assert.Equal(t, float64(deps.roleByName(t, "manager").ID), claims["role_id"])
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthServiceForTest(t)

	_, unknownErr := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever"})
	_, wrongErr := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "not-the-password"})

	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestRegisterCreatesUserWithAuditRow(t *testing.T) {
	svc, deps := newAuthServiceForTest(t)
	staff := deps.roleByName(t, "staff")

	token, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Pat",
		LastName:  "Miller",
		Username:  "pmiller",
		Password:  "secret1",
		RoleID:    staff.ID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token.AccessToken)

	user, err := deps.users.FindByUsername(context.Background(), "pmiller")
	require.NoError(t, err)
	assert.Equal(t, staff.ID, user.RoleID)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	rows := deps.auditRows(t)
	require.Len(t, rows, 1)
	assert.Equal(t, "User", rows[0].Entity)
	assert.Equal(t, model.AuditActionCreate, rows[0].Action)
	assert.Equal(t, user.ID, rows[0].EntityID)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, deps := newAuthServiceForTest(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Other",
		LastName:  "Admin",
		Username:  "admin",
		Password:  "secret1",
		RoleID:    deps.roleByName(t, "staff").ID,
	})
	require.Error(t, err)
}
