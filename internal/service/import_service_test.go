package service

import (
	"context"
	"strings"
	"testing"

	"flavoradmin/internal/model"
	"flavoradmin/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImportServiceForTest(t *testing.T) (ImportService, testDeps) {
	deps := newTestDeps(t)
	svc := NewImportService(deps.jobs, deps.flavors, deps.stocks, deps.audits, deps.tx, nil, t.TempDir())
	return svc, deps
}

func TestImportFlavorsCSVCollectsRowErrors(t *testing.T) {
	svc, deps := newImportServiceForTest(t)
	ctx := context.Background()
	actor := deps.adminID(t)

	brand := model.Brand{Name: "Cloudline"}
	require.NoError(t, deps.db.Create(&brand).Error)

	csvBody := "id,brandId,name,description,profile\n" +
		",1,Mango Frost,sweet mango,fruity\n" +
		",1,Anise Drop,licorice,herbal\n" +
		",not-a-number,Broken Row,,\n"

	job, err := svc.CreateJob(ctx, actor, model.ImportEntityFlavors, "flavors.csv", []byte(csvBody))
	require.NoError(t, err)
	assert.Equal(t, model.ImportStatusPending, job.Status)

	require.NoError(t, svc.ProcessPending(ctx))

	processed, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ImportStatusFailed, processed.Status)
	require.Len(t, processed.Errors, 1)
	assert.Contains(t, processed.Errors[0], "row 3")

	flavors, err := deps.flavors.List(ctx, repository.FlavorFilter{})
	require.NoError(t, err)
	assert.Len(t, flavors, 2)
}

func TestImportStocksCSVUpsertsByID(t *testing.T) {
	svc, deps := newImportServiceForTest(t)
	ctx := context.Background()
	actor := deps.adminID(t)

	brand := model.Brand{Name: "Cloudline"}
	require.NoError(t, deps.db.Create(&brand).Error)
	flavor := model.Flavor{BrandID: brand.ID, Name: "Mango Frost"}
	require.NoError(t, deps.flavors.Upsert(ctx, &flavor))
	stock := model.Stock{FlavorID: flavor.ID, Quantity: 5}
	require.NoError(t, deps.stocks.Upsert(ctx, &stock))

	csvBody := "id,flavorId,quantity\n" +
		"1,1,20\n"

	job, err := svc.CreateJob(ctx, actor, model.ImportEntityStocks, "stocks.csv", []byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, svc.ProcessPending(ctx))

	processed, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ImportStatusCompleted, processed.Status)
	assert.Empty(t, processed.Errors)

	stocks, err := deps.stocks.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assert.Equal(t, 20, stocks[0].Quantity)
}

func TestProcessedJobIsNotRerun(t *testing.T) {
	svc, deps := newImportServiceForTest(t)
	ctx := context.Background()
	actor := deps.adminID(t)

	brand := model.Brand{Name: "Cloudline"}
	require.NoError(t, deps.db.Create(&brand).Error)

	csvBody := "id,brandId,name,description,profile\n,1,Mango Frost,,fruity\n"
	job, err := svc.CreateJob(ctx, actor, model.ImportEntityFlavors, "flavors.csv", []byte(csvBody))
	require.NoError(t, err)

	require.NoError(t, svc.ProcessPending(ctx))
	before := deps.auditRows(t)

	require.NoError(t, svc.ProcessPending(ctx))
	assert.Len(t, deps.auditRows(t), len(before))

	// Finishing an already finished job touches zero rows
	affected, err := deps.jobs.Finish(ctx, job.ID, model.ImportStatusCompleted, "[]")
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestCreateJobRejectsUnknownEntityType(t *testing.T) {
	svc, deps := newImportServiceForTest(t)

	_, err := svc.CreateJob(context.Background(), deps.adminID(t), "invoices", "data.csv", []byte("id\n"))
	require.ErrorIs(t, err, ErrInvalidEntityType)
}

func TestExportImportRoundTripPreservesFlavors(t *testing.T) {
	deps := newTestDeps(t)
	imports := NewImportService(deps.jobs, deps.flavors, deps.stocks, deps.audits, deps.tx, nil, t.TempDir())
	exports := NewExportService(deps.flavors, deps.stocks)
	ctx := context.Background()
	actor := deps.adminID(t)

	brand := model.Brand{Name: "Cloudline"}
	require.NoError(t, deps.db.Create(&brand).Error)
	for _, name := range []string{"Mango Frost", "Anise Drop"} {
		flavor := model.Flavor{BrandID: brand.ID, Name: name, Profile: "fruity"}
		require.NoError(t, deps.flavors.Upsert(ctx, &flavor))
	}

	exported, err := exports.FlavorsCSV(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(exported), "id,brandId,name,description,profile"))

	job, err := imports.CreateJob(ctx, actor, model.ImportEntityFlavors, "flavors.csv", exported)
	require.NoError(t, err)
	require.NoError(t, imports.ProcessPending(ctx))

	processed, err := imports.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ImportStatusCompleted, processed.Status)

	reExported, err := exports.FlavorsCSV(ctx)
	require.NoError(t, err)
	assert.Equal(t, string(exported), string(reExported))
}

func TestExportImportRoundTripXLSX(t *testing.T) {
	deps := newTestDeps(t)
	imports := NewImportService(deps.jobs, deps.flavors, deps.stocks, deps.audits, deps.tx, nil, t.TempDir())
	exports := NewExportService(deps.flavors, deps.stocks)
	ctx := context.Background()
	actor := deps.adminID(t)

	brand := model.Brand{Name: "Cloudline"}
	require.NoError(t, deps.db.Create(&brand).Error)
	flavor := model.Flavor{BrandID: brand.ID, Name: "Mango Frost"}
	require.NoError(t, deps.flavors.Upsert(ctx, &flavor))
	stock := model.Stock{FlavorID: flavor.ID, Quantity: 7}
	require.NoError(t, deps.stocks.Upsert(ctx, &stock))

	workbook, err := exports.StocksXLSX(ctx)
	require.NoError(t, err)

	job, err := imports.CreateJob(ctx, actor, model.ImportEntityStocks, "stocks.xlsx", workbook)
	require.NoError(t, err)
	require.NoError(t, imports.ProcessPending(ctx))

	processed, err := imports.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ImportStatusCompleted, processed.Status)
	assert.Empty(t, processed.Errors)

	stocks, err := deps.stocks.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assert.Equal(t, 7, stocks[0].Quantity)
}
