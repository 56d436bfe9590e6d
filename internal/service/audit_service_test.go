package service

import (
	"context"
	"testing"

	"flavoradmin/internal/model"
	"flavoradmin/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListLogsFiltersAndPaginates(t *testing.T) {
	deps := newTestDeps(t)
	brands := NewBrandService(deps.brands, deps.audits, deps.tx, nil)
	svc := NewAuditService(deps.audits)
	ctx := context.Background()
	actor := deps.adminID(t)

	names := []string{"Alpha", "Beta", "Gamma"}
	var lastBrand *BrandResponse
	for _, name := range names {
		brand, err := brands.CreateBrand(ctx, actor, CreateBrandRequest{Name: name})
		require.NoError(t, err)
		lastBrand = brand
	}
	require.NoError(t, brands.DeleteBrand(ctx, actor, lastBrand.ID))

	all, total, err := svc.ListLogs(ctx, repository.AuditFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, all, 4)
	// Newest first
	assert.Equal(t, model.AuditActionDelete, all[0].Action)

	creates, total, err := svc.ListLogs(ctx, repository.AuditFilter{Action: model.AuditActionCreate}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, creates, 3)

	page, total, err := svc.ListLogs(ctx, repository.AuditFilter{}, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, page, 1)

	byUser, _, err := svc.ListLogs(ctx, repository.AuditFilter{UserID: actor}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, byUser, 4)
	assert.Equal(t, "Admin User", byUser[0].UserName)
}
