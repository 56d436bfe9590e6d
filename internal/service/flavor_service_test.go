package service

import (
	"context"
	"testing"

	"flavoradmin/internal/model"
	"flavoradmin/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogServicesForTest(t *testing.T) (BrandService, FlavorService, testDeps) {
	deps := newTestDeps(t)
	brands := NewBrandService(deps.brands, deps.audits, deps.tx, nil)
	flavors := NewFlavorService(deps.flavors, deps.brands, deps.audits, deps.tx, nil)
	return brands, flavors, deps
}

func TestCreateBrandThenFlavorWritesOneAuditRowEach(t *testing.T) {
	brands, flavors, deps := newCatalogServicesForTest(t)
	actor := deps.adminID(t)
	ctx := context.Background()

	brand, err := brands.CreateBrand(ctx, actor, CreateBrandRequest{Name: "Cloudline"})
	require.NoError(t, err)

	flavor, err := flavors.CreateFlavor(ctx, actor, CreateFlavorRequest{
		BrandID: brand.ID,
		Name:    "Mango Frost",
		Profile: "fruity",
	})
	require.NoError(t, err)
	assert.Equal(t, "Cloudline", flavor.BrandName)

	rows := deps.auditRows(t)
	require.Len(t, rows, 2)
	assert.Equal(t, "Brand", rows[0].Entity)
	assert.Equal(t, model.AuditActionCreate, rows[0].Action)
	assert.Equal(t, "Flavor", rows[1].Entity)
	assert.Equal(t, model.AuditActionCreate, rows[1].Action)
	assert.Equal(t, flavor.ID, rows[1].EntityID)
}

func TestCreateFlavorRequiresExistingBrand(t *testing.T) {
	_, flavors, deps := newCatalogServicesForTest(t)

	_, err := flavors.CreateFlavor(context.Background(), deps.adminID(t), CreateFlavorRequest{
		BrandID: 999,
		Name:    "Orphan",
	})
	require.Error(t, err)
	assert.Empty(t, deps.auditRows(t))
}

func TestUpdateFlavorAuditsOnlySuppliedFields(t *testing.T) {
	brands, flavors, deps := newCatalogServicesForTest(t)
	actor := deps.adminID(t)
	ctx := context.Background()

	brand, err := brands.CreateBrand(ctx, actor, CreateBrandRequest{Name: "Cloudline"})
	require.NoError(t, err)
	flavor, err := flavors.CreateFlavor(ctx, actor, CreateFlavorRequest{
		BrandID: brand.ID,
		Name:    "Mango Frost",
		Profile: "fruity",
	})
	require.NoError(t, err)

	newName := "Mango Blizzard"
	updated, err := flavors.UpdateFlavor(ctx, actor, flavor.ID, UpdateFlavorRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, "fruity", updated.Profile)

	rows := deps.auditRows(t)
	require.Len(t, rows, 3)
	last := rows[len(rows)-1]
	assert.Equal(t, model.AuditActionUpdate, last.Action)
	assert.Contains(t, last.Details, "name")
	assert.NotContains(t, last.Details, "profile")
}

func TestListFlavorsFiltersAndSorts(t *testing.T) {
	brands, flavors, deps := newCatalogServicesForTest(t)
	actor := deps.adminID(t)
	ctx := context.Background()

	a, err := brands.CreateBrand(ctx, actor, CreateBrandRequest{Name: "Alpha"})
	require.NoError(t, err)
	b, err := brands.CreateBrand(ctx, actor, CreateBrandRequest{Name: "Beta"})
	require.NoError(t, err)

	for _, seed := range []CreateFlavorRequest{
		{BrandID: a.ID, Name: "Citrus", Profile: "fruity"},
		{BrandID: a.ID, Name: "Anise", Profile: "herbal"},
		{BrandID: b.ID, Name: "Berry", Profile: "fruity"},
	} {
		_, err := flavors.CreateFlavor(ctx, actor, seed)
		require.NoError(t, err)
	}

	fruity, err := flavors.ListFlavors(ctx, repository.FlavorFilter{Profile: "fruity", Sort: "name_desc"})
	require.NoError(t, err)
	require.Len(t, fruity, 2)
	assert.Equal(t, "Citrus", fruity[0].Name)
	assert.Equal(t, "Berry", fruity[1].Name)

	alphaOnly, err := flavors.ListFlavors(ctx, repository.FlavorFilter{BrandID: a.ID, Sort: "name_asc"})
	require.NoError(t, err)
	require.Len(t, alphaOnly, 2)
	assert.Equal(t, "Anise", alphaOnly[0].Name)
}

func TestDeleteFlavorWritesDeleteAuditRow(t *testing.T) {
	brands, flavors, deps := newCatalogServicesForTest(t)
	actor := deps.adminID(t)
	ctx := context.Background()

	brand, err := brands.CreateBrand(ctx, actor, CreateBrandRequest{Name: "Cloudline"})
	require.NoError(t, err)
	flavor, err := flavors.CreateFlavor(ctx, actor, CreateFlavorRequest{BrandID: brand.ID, Name: "Mango Frost"})
	require.NoError(t, err)

	require.NoError(t, flavors.DeleteFlavor(ctx, actor, flavor.ID))

	_, err = deps.flavors.FindByID(ctx, flavor.ID)
	require.Error(t, err)

	rows := deps.auditRows(t)
	last := rows[len(rows)-1]
	assert.Equal(t, model.AuditActionDelete, last.Action)
	assert.Equal(t, "Flavor", last.Entity)
}
