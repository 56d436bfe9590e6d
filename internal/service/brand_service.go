package service

import (
	"context"
	"errors"
	"fmt"

	"flavoradmin/internal/model"
	"flavoradmin/internal/repository"
	ws "flavoradmin/internal/websocket"
)

// DTOs
type CreateBrandRequest struct {
	Name string `json:"name" binding:"required"`
}

type BrandResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type BrandService interface {
	ListBrands(ctx context.Context) ([]BrandResponse, error)
	CreateBrand(ctx context.Context, actorID uint, req CreateBrandRequest) (*BrandResponse, error)
	DeleteBrand(ctx context.Context, actorID uint, id uint) error
}

type brandService struct {
	brands    repository.BrandRepository
	audit     auditWriter
	txManager repository.TransactionManager
}

func NewBrandService(
	brands repository.BrandRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) BrandService {
	return &brandService{
		brands:    brands,
		audit:     newAuditWriter(auditRepo, hub),
		txManager: txManager,
	}
}

func (s *brandService) ListBrands(ctx context.Context) ([]BrandResponse, error) {
	brands, err := s.brands.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch brands: %w", err)
	}

	res := make([]BrandResponse, 0, len(brands))
	for _, b := range brands {
		res = append(res, BrandResponse{ID: b.ID, Name: b.Name})
	}
	return res, nil
}

func (s *brandService) CreateBrand(ctx context.Context, actorID uint, req CreateBrandRequest) (*BrandResponse, error) {
	brand := &model.Brand{Name: req.Name}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.brands.Create(txCtx, brand); err != nil {
			return fmt.Errorf("failed to create brand: %w", err)
		}
		details := map[string]interface{}{"name": req.Name}
		return s.audit.record(txCtx, &actorID, "Brand", brand.ID, model.AuditActionCreate, details)
	})
	if err != nil {
		return nil, err
	}

	return &BrandResponse{ID: brand.ID, Name: brand.Name}, nil
}

func (s *brandService) DeleteBrand(ctx context.Context, actorID uint, id uint) error {
	if _, err := s.brands.FindByID(ctx, id); err != nil {
		return errors.New("brand not found")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.brands.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete brand: %w", err)
		}
		return s.audit.record(txCtx, &actorID, "Brand", id, model.AuditActionDelete, map[string]interface{}{})
	})
}
