package service

import (
	"context"
	"testing"

	"flavoradmin/internal/model"
	"flavoradmin/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardSummaryCountsAndLatest(t *testing.T) {
	deps := newTestDeps(t)
	dashboards := repository.NewDashboardRepository(deps.db)
	svc := NewDashboardService(dashboards, deps.requests, deps.tx)
	requests := NewRequestService(deps.requests, deps.flavors, deps.audits, deps.tx, nil)
	ctx := context.Background()
	actor := deps.adminID(t)

	brand := model.Brand{Name: "Cloudline"}
	require.NoError(t, deps.db.Create(&brand).Error)
	flavor := model.Flavor{BrandID: brand.ID, Name: "Mango Frost"}
	require.NoError(t, deps.flavors.Upsert(ctx, &flavor))

	for i := 0; i < 3; i++ {
		_, err := requests.CreateRequest(ctx, actor, CreateRequestRequest{FlavorIDs: []uint{flavor.ID}})
		require.NoError(t, err)
	}
	approved := model.RequestStatusApproved
	_, err := requests.UpdateRequest(ctx, actor, 1, UpdateRequestRequest{Status: &approved})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.Users) // seeded admin
	assert.Equal(t, int64(1), summary.Brands)
	assert.Equal(t, int64(1), summary.Flavors)
	assert.Equal(t, int64(3), summary.Requests)
	assert.Equal(t, int64(2), summary.RequestsByStatus[model.RequestStatusPending])
	assert.Equal(t, int64(1), summary.RequestsByStatus[model.RequestStatusApproved])
	assert.Equal(t, int64(0), summary.RequestsByStatus[model.RequestStatusRejected])

	require.Len(t, summary.LatestRequests, 3)
	for _, latest := range summary.LatestRequests {
		assert.Equal(t, "Admin User", latest.CreatedBy)
		assert.Equal(t, []string{"Mango Frost"}, latest.Flavors)
	}
}
