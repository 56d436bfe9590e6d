package service

import (
	"context"
	"testing"

	"flavoradmin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoleServiceForTest(t *testing.T) (RoleService, testDeps) {
	deps := newTestDeps(t)
	svc := NewRoleService(deps.roles, deps.users, deps.perms, deps.audits, deps.tx, nil)
	return svc, deps
}

func TestCreateRoleWithPermissions(t *testing.T) {
	svc, deps := newRoleServiceForTest(t)

	role, err := svc.CreateRole(context.Background(), deps.adminID(t), CreateRoleRequest{
		Name:        "auditor",
		Permissions: []string{model.PermViewLogs, model.PermViewRequests},
	})
	require.NoError(t, err)
	require.Len(t, role.Permissions, 2)
}

func TestUpdateRolePermissionsReplacesGrantSet(t *testing.T) {
	svc, deps := newRoleServiceForTest(t)
	ctx := context.Background()
	actor := deps.adminID(t)

	role, err := svc.CreateRole(ctx, actor, CreateRoleRequest{
		Name:        "auditor",
		Permissions: []string{model.PermViewLogs, model.PermViewRequests},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateRolePermissions(ctx, actor, role.ID, UpdateRolePermissionsRequest{
		Permissions: []string{model.PermExportData},
	})
	require.NoError(t, err)
	require.Len(t, updated.Permissions, 1)
	assert.Equal(t, model.PermExportData, updated.Permissions[0].Code)
}

func TestDeleteRoleRefusedWhileAssigned(t *testing.T) {
	svc, deps := newRoleServiceForTest(t)
	manager := deps.roleByName(t, "manager")

	// The seeded admin account references the manager role
	err := svc.DeleteRole(context.Background(), deps.adminID(t), manager.ID)
	require.ErrorIs(t, err, ErrRoleInUse)

	_, err = deps.roles.FindByID(context.Background(), manager.ID)
	require.NoError(t, err)
}

func TestDeleteUnassignedRole(t *testing.T) {
	svc, deps := newRoleServiceForTest(t)
	ctx := context.Background()
	actor := deps.adminID(t)

	role, err := svc.CreateRole(ctx, actor, CreateRoleRequest{Name: "temp"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRole(ctx, actor, role.ID))

	_, err = deps.roles.FindByID(ctx, role.ID)
	require.Error(t, err)
}

func TestListPermissionsReturnsSeededRegistry(t *testing.T) {
	svc, _ := newRoleServiceForTest(t)

	perms, err := svc.ListPermissions(context.Background())
	require.NoError(t, err)
	require.Len(t, perms, 8)

	codes := make(map[string]bool, len(perms))
	for _, p := range perms {
		codes[p.Code] = true
	}
	assert.True(t, codes[model.PermImportData])
	assert.True(t, codes[model.PermApproveRequests])
}
