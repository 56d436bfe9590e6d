package service

import (
	"context"
	"testing"

	"flavoradmin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserServiceForTest(t *testing.T) (UserService, testDeps) {
	deps := newTestDeps(t)
	svc := NewUserService(deps.users, deps.roles, deps.perms, deps.audits, deps.tx, nil)
	return svc, deps
}

func TestCreateUserWithDirectGrants(t *testing.T) {
	svc, deps := newUserServiceForTest(t)
	staff := deps.roleByName(t, "staff")

	user, err := svc.CreateUser(context.Background(), deps.adminID(t), CreateUserRequest{
		FirstName:   "Sam",
		LastName:    "Reed",
		Username:    "sreed",
		Password:    "secret1",
		RoleID:      staff.ID,
		Permissions: []string{model.PermExportData},
	})
	require.NoError(t, err)
	require.Len(t, user.Permissions, 1)
	assert.Equal(t, model.PermExportData, user.Permissions[0].Code)
}

func TestUpdateUserReplacesDirectGrants(t *testing.T) {
	svc, deps := newUserServiceForTest(t)
	ctx := context.Background()
	actor := deps.adminID(t)
	staff := deps.roleByName(t, "staff")

	user, err := svc.CreateUser(ctx, actor, CreateUserRequest{
		FirstName:   "Sam",
		LastName:    "Reed",
		Username:    "sreed",
		Password:    "secret1",
		RoleID:      staff.ID,
		Permissions: []string{model.PermExportData, model.PermViewLogs},
	})
	require.NoError(t, err)

	grants := []string{model.PermImportData}
	updated, err := svc.UpdateUser(ctx, actor, user.ID, UpdateUserRequest{Permissions: &grants})
	require.NoError(t, err)
	require.Len(t, updated.Permissions, 1)
	assert.Equal(t, model.PermImportData, updated.Permissions[0].Code)
}

func TestUpdateUserAuditsOnlySuppliedFields(t *testing.T) {
	svc, deps := newUserServiceForTest(t)
	ctx := context.Background()
	actor := deps.adminID(t)
	staff := deps.roleByName(t, "staff")

	user, err := svc.CreateUser(ctx, actor, CreateUserRequest{
		FirstName: "Sam",
		LastName:  "Reed",
		Username:  "sreed",
		Password:  "secret1",
		RoleID:    staff.ID,
	})
	require.NoError(t, err)

	first := "Samuel"
	_, err = svc.UpdateUser(ctx, actor, user.ID, UpdateUserRequest{FirstName: &first})
	require.NoError(t, err)

	rows := deps.auditRows(t)
	last := rows[len(rows)-1]
	assert.Equal(t, "User", last.Entity)
	assert.Equal(t, model.AuditActionUpdate, last.Action)
	assert.Contains(t, last.Details, "firstName")
	assert.NotContains(t, last.Details, "lastName")
}

func TestDeleteUserRemovesAccountAndGrants(t *testing.T) {
	svc, deps := newUserServiceForTest(t)
	ctx := context.Background()
	actor := deps.adminID(t)
	staff := deps.roleByName(t, "staff")

	user, err := svc.CreateUser(ctx, actor, CreateUserRequest{
		FirstName:   "Sam",
		LastName:    "Reed",
		Username:    "sreed",
		Password:    "secret1",
		RoleID:      staff.ID,
		Permissions: []string{model.PermExportData},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, actor, user.ID))

	_, err = deps.users.FindByID(ctx, user.ID)
	require.Error(t, err)

	var grantCount int64
	require.NoError(t, deps.db.Table("user_permissions").Where("user_id = ?", user.ID).Count(&grantCount).Error)
	assert.Zero(t, grantCount)
}
