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
type CreateFlavorRequest struct {
	BrandID     uint   `json:"brandId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Profile     string `json:"profile"`
}

// UpdateFlavorRequest carries a partial update: nil fields are left
// untouched and excluded from the audit diff.
type UpdateFlavorRequest struct {
	BrandID     *uint   `json:"brandId"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Profile     *string `json:"profile"`
}

type FlavorResponse struct {
	ID          uint   `json:"id"`
	BrandID     uint   `json:"brand_id"`
	BrandName   string `json:"brand_name"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Profile     string `json:"profile"`
}

type FlavorService interface {
	ListFlavors(ctx context.Context, filter repository.FlavorFilter) ([]FlavorResponse, error)
	CreateFlavor(ctx context.Context, actorID uint, req CreateFlavorRequest) (*FlavorResponse, error)
	UpdateFlavor(ctx context.Context, actorID uint, id uint, req UpdateFlavorRequest) (*FlavorResponse, error)
	DeleteFlavor(ctx context.Context, actorID uint, id uint) error
}

type flavorService struct {
	flavors   repository.FlavorRepository
	brands    repository.BrandRepository
	audit     auditWriter
	txManager repository.TransactionManager
}

func NewFlavorService(
	flavors repository.FlavorRepository,
	brands repository.BrandRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) FlavorService {
	return &flavorService{
		flavors:   flavors,
		brands:    brands,
		audit:     newAuditWriter(auditRepo, hub),
		txManager: txManager,
	}
}

func toFlavorResponse(f model.Flavor) FlavorResponse {
	resp := FlavorResponse{
		ID:          f.ID,
		BrandID:     f.BrandID,
		Name:        f.Name,
		Description: f.Description,
		Profile:     f.Profile,
	}
	if f.Brand != nil {
		resp.BrandName = f.Brand.Name
	}
	return resp
}

func (s *flavorService) ListFlavors(ctx context.Context, filter repository.FlavorFilter) ([]FlavorResponse, error) {
	flavors, err := s.flavors.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch flavors: %w", err)
	}

	res := make([]FlavorResponse, 0, len(flavors))
	for _, f := range flavors {
		res = append(res, toFlavorResponse(f))
	}
	return res, nil
}

func (s *flavorService) CreateFlavor(ctx context.Context, actorID uint, req CreateFlavorRequest) (*FlavorResponse, error) {
	if _, err := s.brands.FindByID(ctx, req.BrandID); err != nil {
		return nil, errors.New("brand not found")
	}

	flavor := &model.Flavor{
		BrandID:     req.BrandID,
		Name:        req.Name,
		Description: req.Description,
		Profile:     req.Profile,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.flavors.Create(txCtx, flavor); err != nil {
			return fmt.Errorf("failed to create flavor: %w", err)
		}
		details := map[string]interface{}{
			"brandId": req.BrandID,
			"name":    req.Name,
		}
		if req.Description != "" {
			details["description"] = req.Description
		}
		if req.Profile != "" {
			details["profile"] = req.Profile
		}
		return s.audit.record(txCtx, &actorID, "Flavor", flavor.ID, model.AuditActionCreate, details)
	})
	if err != nil {
		return nil, err
	}

	created, err := s.flavors.FindByID(ctx, flavor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload flavor: %w", err)
	}
	resp := toFlavorResponse(*created)
	return &resp, nil
}

func (s *flavorService) UpdateFlavor(ctx context.Context, actorID uint, id uint, req UpdateFlavorRequest) (*FlavorResponse, error) {
	flavor, err := s.flavors.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("flavor not found")
	}

	diff := map[string]interface{}{}
	if req.BrandID != nil {
		if _, err := s.brands.FindByID(ctx, *req.BrandID); err != nil {
			return nil, errors.New("brand not found")
		}
		flavor.BrandID = *req.BrandID
		diff["brandId"] = *req.BrandID
	}
	if req.Name != nil {
		flavor.Name = *req.Name
		diff["name"] = *req.Name
	}
	if req.Description != nil {
		flavor.Description = *req.Description
		diff["description"] = *req.Description
	}
	if req.Profile != nil {
		flavor.Profile = *req.Profile
		diff["profile"] = *req.Profile
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.flavors.Update(txCtx, flavor); err != nil {
			return fmt.Errorf("failed to update flavor: %w", err)
		}
		return s.audit.record(txCtx, &actorID, "Flavor", flavor.ID, model.AuditActionUpdate, diff)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.flavors.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload flavor: %w", err)
	}
	resp := toFlavorResponse(*updated)
	return &resp, nil
}

func (s *flavorService) DeleteFlavor(ctx context.Context, actorID uint, id uint) error {
	if _, err := s.flavors.FindByID(ctx, id); err != nil {
		return errors.New("flavor not found")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.flavors.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete flavor: %w", err)
		}
		return s.audit.record(txCtx, &actorID, "Flavor", id, model.AuditActionDelete, map[string]interface{}{})
	})
}
