package service

import (
	"testing"

	"flavoradmin/internal/database"
	"flavoradmin/internal/model"
	"flavoradmin/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testDeps struct {
	db       *gorm.DB
	tx       repository.TransactionManager
	users    repository.UserRepository
	roles    repository.RoleRepository
	perms    repository.PermissionRepository
	brands   repository.BrandRepository
	flavors  repository.FlavorRepository
	stocks   repository.StockRepository
	requests repository.RequestRepository
	audits   repository.AuditRepository
	jobs     repository.ImportJobRepository
}

func newTestDeps(t *testing.T) testDeps {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))

	return testDeps{
		db:       db,
		tx:       repository.NewTransactionManager(db),
		users:    repository.NewUserRepository(db),
		roles:    repository.NewRoleRepository(db),
		perms:    repository.NewPermissionRepository(db),
		brands:   repository.NewBrandRepository(db),
		flavors:  repository.NewFlavorRepository(db),
		stocks:   repository.NewStockRepository(db),
		requests: repository.NewRequestRepository(db),
		audits:   repository.NewAuditRepository(db),
		jobs:     repository.NewImportJobRepository(db),
	}
}

func (d testDeps) adminID(t *testing.T) uint {
	t.Helper()
	var admin model.User
	require.NoError(t, d.db.Where("username = ?", "admin").First(&admin).Error)
	return admin.ID
}

func (d testDeps) roleByName(t *testing.T, name string) model.Role {
	t.Helper()
	var role model.Role
	require.NoError(t, d.db.Where("name = ?", name).First(&role).Error)
	return role
}

func (d testDeps) auditRows(t *testing.T) []model.AuditLog {
	t.Helper()
	var rows []model.AuditLog
	require.NoError(t, d.db.Order("id asc").Find(&rows).Error)
	return rows
}
