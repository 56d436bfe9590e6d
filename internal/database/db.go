package database

import (
	"flavoradmin/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM and migrates
// the schema. The returned handle is passed down explicitly; nothing in the
// application holds a package-level DB reference.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate auto-migrates all core models
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Permission{},
		&model.Role{},
		&model.User{},
		&model.Brand{},
		&model.Flavor{},
		&model.Stock{},
		&model.Request{},
		&model.ImportJob{},
		&model.AuditLog{},
	)
}
