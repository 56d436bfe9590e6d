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
type CreateStockRequest struct {
	FlavorID uint `json:"flavorId" binding:"required"`
	Quantity int  `json:"quantity" binding:"min=0"`
}

type UpdateStockRequest struct {
	FlavorID *uint `json:"flavorId"`
	Quantity *int  `json:"quantity"`
}

type StockResponse struct {
	ID         uint   `json:"id"`
	FlavorID   uint   `json:"flavor_id"`
	FlavorName string `json:"flavor_name"`
	Quantity   int    `json:"quantity"`
}

type StockService interface {
	ListStocks(ctx context.Context) ([]StockResponse, error)
	CreateStock(ctx context.Context, actorID uint, req CreateStockRequest) (*StockResponse, error)
	UpdateStock(ctx context.Context, actorID uint, id uint, req UpdateStockRequest) (*StockResponse, error)
	DeleteStock(ctx context.Context, actorID uint, id uint) error
}

type stockService struct {
	stocks    repository.StockRepository
	flavors   repository.FlavorRepository
	audit     auditWriter
	txManager repository.TransactionManager
}

func NewStockService(
	stocks repository.StockRepository,
	flavors repository.FlavorRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) StockService {
	return &stockService{
		stocks:    stocks,
		flavors:   flavors,
		audit:     newAuditWriter(auditRepo, hub),
		txManager: txManager,
	}
}

func toStockResponse(s model.Stock) StockResponse {
	resp := StockResponse{ID: s.ID, FlavorID: s.FlavorID, Quantity: s.Quantity}
	if s.Flavor != nil {
		resp.FlavorName = s.Flavor.Name
	}
	return resp
}

func (s *stockService) ListStocks(ctx context.Context) ([]StockResponse, error) {
	stocks, err := s.stocks.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stocks: %w", err)
	}

	res := make([]StockResponse, 0, len(stocks))
	for _, st := range stocks {
		res = append(res, toStockResponse(st))
	}
	return res, nil
}

func (s *stockService) CreateStock(ctx context.Context, actorID uint, req CreateStockRequest) (*StockResponse, error) {
	if _, err := s.flavors.FindByID(ctx, req.FlavorID); err != nil {
		return nil, errors.New("flavor not found")
	}

	stock := &model.Stock{FlavorID: req.FlavorID, Quantity: req.Quantity}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.stocks.Create(txCtx, stock); err != nil {
			return fmt.Errorf("failed to create stock: %w", err)
		}
		details := map[string]interface{}{
			"flavorId": req.FlavorID,
			"quantity": req.Quantity,
		}
		return s.audit.record(txCtx, &actorID, "Stock", stock.ID, model.AuditActionCreate, details)
	})
	if err != nil {
		return nil, err
	}

	created, err := s.stocks.FindByID(ctx, stock.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload stock: %w", err)
	}
	resp := toStockResponse(*created)
	return &resp, nil
}

func (s *stockService) UpdateStock(ctx context.Context, actorID uint, id uint, req UpdateStockRequest) (*StockResponse, error) {
	stock, err := s.stocks.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("stock not found")
	}

	diff := map[string]interface{}{}
	if req.FlavorID != nil {
		if _, err := s.flavors.FindByID(ctx, *req.FlavorID); err != nil {
			return nil, errors.New("flavor not found")
		}
		stock.FlavorID = *req.FlavorID
		diff["flavorId"] = *req.FlavorID
	}
	if req.Quantity != nil {
		stock.Quantity = *req.Quantity
		diff["quantity"] = *req.Quantity
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.stocks.Update(txCtx, stock); err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}
		return s.audit.record(txCtx, &actorID, "Stock", stock.ID, model.AuditActionUpdate, diff)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.stocks.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload stock: %w", err)
	}
	resp := toStockResponse(*updated)
	return &resp, nil
}

func (s *stockService) DeleteStock(ctx context.Context, actorID uint, id uint) error {
	if _, err := s.stocks.FindByID(ctx, id); err != nil {
		return errors.New("stock not found")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.stocks.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete stock: %w", err)
		}
		return s.audit.record(txCtx, &actorID, "Stock", id, model.AuditActionDelete, map[string]interface{}{})
	})
}
