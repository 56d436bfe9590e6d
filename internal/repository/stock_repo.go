package repository

import (
	"context"

	"flavoradmin/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockRepository interface {
	Create(ctx context.Context, stock *model.Stock) error
	Update(ctx context.Context, stock *model.Stock) error
	Upsert(ctx context.Context, stock *model.Stock) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Stock, error)
	ListAll(ctx context.Context) ([]model.Stock, error)
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Create(ctx context.Context, stock *model.Stock) error {
	return GetDB(ctx, r.db).Create(stock).Error
}

func (r *stockRepository) Update(ctx context.Context, stock *model.Stock) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(stock).Error
}

func (r *stockRepository) Upsert(ctx context.Context, stock *model.Stock) error {
	db := GetDB(ctx, r.db)
	if stock.ID != 0 {
		var existing model.Stock
		err := db.First(&existing, stock.ID).Error
		if err == nil {
			return db.Model(&existing).Updates(map[string]interface{}{
				"flavor_id": stock.FlavorID,
				"quantity":  stock.Quantity,
			}).Error
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
	}
	return db.Create(stock).Error
}

func (r *stockRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Delete(&model.Stock{}, id).Error
}

func (r *stockRepository) FindByID(ctx context.Context, id uint) (*model.Stock, error) {
	var stock model.Stock
	if err := GetDB(ctx, r.db).Preload("Flavor").First(&stock, id).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepository) ListAll(ctx context.Context) ([]model.Stock, error) {
	var stocks []model.Stock
	if err := GetDB(ctx, r.db).Preload("Flavor").Order("id asc").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}
