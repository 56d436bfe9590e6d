package service

import (
	"context"
	"testing"

	"flavoradmin/internal/model"
	"flavoradmin/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestServiceForTest(t *testing.T) (RequestService, testDeps) {
	deps := newTestDeps(t)
	svc := NewRequestService(deps.requests, deps.flavors, deps.audits, deps.tx, nil)
	return svc, deps
}

func seedFlavor(t *testing.T, deps testDeps, brandName, flavorName string) model.Flavor {
	t.Helper()
	ctx := context.Background()
	brand := model.Brand{Name: brandName}
	require.NoError(t, deps.db.Create(&brand).Error)
	flavor := model.Flavor{BrandID: brand.ID, Name: flavorName}
	require.NoError(t, deps.flavors.Upsert(ctx, &flavor))
	return flavor
}

func TestCreateRequestStartsPending(t *testing.T) {
	svc, deps := newRequestServiceForTest(t)
	flavor := seedFlavor(t, deps, "Cloudline", "Mango Frost")

	req, err := svc.CreateRequest(context.Background(), deps.adminID(t), CreateRequestRequest{
		Comment:   "please add",
		FlavorIDs: []uint{flavor.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, req.Status)
	require.Len(t, req.Flavors, 1)
	assert.Equal(t, "Mango Frost", req.Flavors[0].Name)
}

func TestCreateRequestRejectsUnknownFlavor(t *testing.T) {
	svc, deps := newRequestServiceForTest(t)

	_, err := svc.CreateRequest(context.Background(), deps.adminID(t), CreateRequestRequest{
		FlavorIDs: []uint{42},
	})
	require.Error(t, err)
}

func TestApprovedRequestIsTerminal(t *testing.T) {
	svc, deps := newRequestServiceForTest(t)
	flavor := seedFlavor(t, deps, "Cloudline", "Mango Frost")
	ctx := context.Background()
	actor := deps.adminID(t)

	req, err := svc.CreateRequest(ctx, actor, CreateRequestRequest{FlavorIDs: []uint{flavor.ID}})
	require.NoError(t, err)

	approved := model.RequestStatusApproved
	updated, err := svc.UpdateRequest(ctx, actor, req.ID, UpdateRequestRequest{Status: &approved})
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusApproved, updated.Status)

	rejected := model.RequestStatusRejected
	_, err = svc.UpdateRequest(ctx, actor, req.ID, UpdateRequestRequest{Status: &rejected})
	require.ErrorIs(t, err, ErrRequestClosed)

	pending := model.RequestStatusPending
	_, err = svc.UpdateRequest(ctx, actor, req.ID, UpdateRequestRequest{Status: &pending})
	require.ErrorIs(t, err, ErrRequestClosed)
}

func TestUpdateRequestRejectsUnknownStatus(t *testing.T) {
	svc, deps := newRequestServiceForTest(t)
	flavor := seedFlavor(t, deps, "Cloudline", "Mango Frost")
	ctx := context.Background()
	actor := deps.adminID(t)

	req, err := svc.CreateRequest(ctx, actor, CreateRequestRequest{FlavorIDs: []uint{flavor.ID}})
	require.NoError(t, err)

	bogus := "escalated"
	_, err = svc.UpdateRequest(ctx, actor, req.ID, UpdateRequestRequest{Status: &bogus})
	require.Error(t, err)
}

func TestDeleteRequestAllowedInAnyStatus(t *testing.T) {
	svc, deps := newRequestServiceForTest(t)
	flavor := seedFlavor(t, deps, "Cloudline", "Mango Frost")
	ctx := context.Background()
	actor := deps.adminID(t)

	req, err := svc.CreateRequest(ctx, actor, CreateRequestRequest{FlavorIDs: []uint{flavor.ID}})
	require.NoError(t, err)

	approved := model.RequestStatusApproved
	_, err = svc.UpdateRequest(ctx, actor, req.ID, UpdateRequestRequest{Status: &approved})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRequest(ctx, actor, req.ID))

	_, err = deps.requests.FindByID(ctx, req.ID)
	require.Error(t, err)
}

func TestListRequestsFiltersByStatusAndBrand(t *testing.T) {
	svc, deps := newRequestServiceForTest(t)
	ctx := context.Background()
	actor := deps.adminID(t)

	mango := seedFlavor(t, deps, "Cloudline", "Mango Frost")
	berry := seedFlavor(t, deps, "Northside", "Berry Dusk")

	first, err := svc.CreateRequest(ctx, actor, CreateRequestRequest{FlavorIDs: []uint{mango.ID}})
	require.NoError(t, err)
	_, err = svc.CreateRequest(ctx, actor, CreateRequestRequest{FlavorIDs: []uint{berry.ID}})
	require.NoError(t, err)

	approved := model.RequestStatusApproved
	_, err = svc.UpdateRequest(ctx, actor, first.ID, UpdateRequestRequest{Status: &approved})
	require.NoError(t, err)

	pendingOnly, err := svc.ListRequests(ctx, repository.RequestFilter{Status: model.RequestStatusPending})
	require.NoError(t, err)
	require.Len(t, pendingOnly, 1)
	assert.Equal(t, "Berry Dusk", pendingOnly[0].Flavors[0].Name)

	byBrand, err := svc.ListRequests(ctx, repository.RequestFilter{BrandID: mango.BrandID})
	require.NoError(t, err)
	require.Len(t, byBrand, 1)
	assert.Equal(t, first.ID, byBrand[0].ID)
}
