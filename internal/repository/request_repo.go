package repository

import (
	"context"

	"flavoradmin/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RequestFilter narrows a request listing. Zero values mean "no filter".
type RequestFilter struct {
	Status  string
	BrandID uint
	Sort    string // "createdAt_asc" or "createdAt_desc"
}

type RequestRepository interface {
	Create(ctx context.Context, req *model.Request) error
	Update(ctx context.Context, req *model.Request) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Request, error)
	List(ctx context.Context, filter RequestFilter) ([]model.Request, error)
	Latest(ctx context.Context, n int) ([]model.Request, error)
	SetFlavors(ctx context.Context, req *model.Request, flavors []model.Flavor) error
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *model.Request) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *requestRepository) Update(ctx context.Context, req *model.Request) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(req).Error
}

func (r *requestRepository) Delete(ctx context.Context, id uint) error {
	db := GetDB(ctx, r.db)
	req := model.Request{ID: id}
	if err := db.Model(&req).Association("Flavors").Clear(); err != nil {
		return err
	}
	return db.Delete(&model.Request{}, id).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id uint) (*model.Request, error) {
	var req model.Request
	if err := GetDB(ctx, r.db).Preload("CreatedBy").Preload("Flavors").First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) List(ctx context.Context, filter RequestFilter) ([]model.Request, error) {
	db := GetDB(ctx, r.db).Preload("CreatedBy").Preload("Flavors")
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.BrandID != 0 {
		db = db.Where(`id IN (
			SELECT rf.request_id FROM request_flavors rf
			INNER JOIN flavors f ON f.id = rf.flavor_id
			WHERE f.brand_id = ?
		)`, filter.BrandID)
	}
	switch filter.Sort {
	case "createdAt_asc":
		db = db.Order("created_at asc")
	case "createdAt_desc":
		db = db.Order("created_at desc")
	default:
		db = db.Order("id asc")
	}

	var requests []model.Request
	if err := db.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) Latest(ctx context.Context, n int) ([]model.Request, error) {
	var requests []model.Request
	err := GetDB(ctx, r.db).Preload("CreatedBy").Preload("Flavors").
		Order("created_at desc").Limit(n).Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) SetFlavors(ctx context.Context, req *model.Request, flavors []model.Flavor) error {
	return GetDB(ctx, r.db).Model(req).Association("Flavors").Replace(flavors)
}
