package repository

import (
	"context"

	"flavoradmin/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FlavorFilter narrows a flavor listing. Zero values mean "no filter".
type FlavorFilter struct {
	BrandID uint
	Profile string
	Sort    string // "name_asc" or "name_desc"
}

type FlavorRepository interface {
	Create(ctx context.Context, flavor *model.Flavor) error
	Update(ctx context.Context, flavor *model.Flavor) error
	Upsert(ctx context.Context, flavor *model.Flavor) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Flavor, error)
	List(ctx context.Context, filter FlavorFilter) ([]model.Flavor, error)
}

type flavorRepository struct {
	db *gorm.DB
}

func NewFlavorRepository(db *gorm.DB) FlavorRepository {
	return &flavorRepository{db: db}
}

func (r *flavorRepository) Create(ctx context.Context, flavor *model.Flavor) error {
	return GetDB(ctx, r.db).Create(flavor).Error
}

func (r *flavorRepository) Update(ctx context.Context, flavor *model.Flavor) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(flavor).Error
}

// Upsert updates the row matching flavor.ID when it exists, otherwise
// inserts a new row. Used by batch import, which matches by provided id.
func (r *flavorRepository) Upsert(ctx context.Context, flavor *model.Flavor) error {
	db := GetDB(ctx, r.db)
	if flavor.ID != 0 {
		var existing model.Flavor
		err := db.First(&existing, flavor.ID).Error
		if err == nil {
			return db.Model(&existing).Updates(map[string]interface{}{
				"brand_id":    flavor.BrandID,
				"name":        flavor.Name,
				"description": flavor.Description,
				"profile":     flavor.Profile,
			}).Error
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
	}
	return db.Create(flavor).Error
}

func (r *flavorRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Delete(&model.Flavor{}, id).Error
}

func (r *flavorRepository) FindByID(ctx context.Context, id uint) (*model.Flavor, error) {
	var flavor model.Flavor
	if err := GetDB(ctx, r.db).Preload("Brand").First(&flavor, id).Error; err != nil {
		return nil, err
	}
	return &flavor, nil
}

func (r *flavorRepository) List(ctx context.Context, filter FlavorFilter) ([]model.Flavor, error) {
	db := GetDB(ctx, r.db).Preload("Brand")
	if filter.BrandID != 0 {
		db = db.Where("brand_id = ?", filter.BrandID)
	}
	if filter.Profile != "" {
		db = db.Where("profile = ?", filter.Profile)
	}
	switch filter.Sort {
	case "name_asc":
		db = db.Order("name asc")
	case "name_desc":
		db = db.Order("name desc")
	default:
		db = db.Order("id asc")
	}

	var flavors []model.Flavor
	if err := db.Find(&flavors).Error; err != nil {
		return nil, err
	}
	return flavors, nil
}
