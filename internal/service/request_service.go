package service

import (
	"context"
	"errors"
	"fmt"

	"flavoradmin/internal/model"
	"flavoradmin/internal/repository"
	ws "flavoradmin/internal/websocket"
)

// ErrRequestClosed guards the status state machine: approved and rejected
// are terminal, only pending requests can transition.
var ErrRequestClosed = errors.New("request is already approved or rejected")

// DTOs
type CreateRequestRequest struct {
	Comment   string `json:"comment"`
	FlavorIDs []uint `json:"flavorIds" binding:"required,min=1"`
}

type UpdateRequestRequest struct {
	Status  *string `json:"status"`
	Comment *string `json:"comment"`
}

type RequestFlavor struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type RequestResponse struct {
	ID        uint            `json:"id"`
	Status    string          `json:"status"`
	Comment   string          `json:"comment"`
	CreatedBy RequestCreator  `json:"created_by"`
	Flavors   []RequestFlavor `json:"flavors"`
	CreatedAt string          `json:"created_at"`
}

type RequestCreator struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
}

type RequestService interface {
	ListRequests(ctx context.Context, filter repository.RequestFilter) ([]RequestResponse, error)
	CreateRequest(ctx context.Context, actorID uint, req CreateRequestRequest) (*RequestResponse, error)
	UpdateRequest(ctx context.Context, actorID uint, id uint, req UpdateRequestRequest) (*RequestResponse, error)
	DeleteRequest(ctx context.Context, actorID uint, id uint) error
}

type requestService struct {
	requests  repository.RequestRepository
	flavors   repository.FlavorRepository
	audit     auditWriter
	txManager repository.TransactionManager
}

func NewRequestService(
	requests repository.RequestRepository,
	flavors repository.FlavorRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) RequestService {
	return &requestService{
		requests:  requests,
		flavors:   flavors,
		audit:     newAuditWriter(auditRepo, hub),
		txManager: txManager,
	}
}

func toRequestResponse(r model.Request) RequestResponse {
	flavors := make([]RequestFlavor, 0, len(r.Flavors))
	for _, f := range r.Flavors {
		flavors = append(flavors, RequestFlavor{ID: f.ID, Name: f.Name})
	}

	resp := RequestResponse{
		ID:        r.ID,
		Status:    r.Status,
		Comment:   r.Comment,
		Flavors:   flavors,
		CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if r.CreatedBy != nil {
		resp.CreatedBy = RequestCreator{ID: r.CreatedBy.ID, FullName: r.CreatedBy.FullName()}
	}
	return resp
}

func (s *requestService) ListRequests(ctx context.Context, filter repository.RequestFilter) ([]RequestResponse, error) {
	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}

	res := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		res = append(res, toRequestResponse(r))
	}
	return res, nil
}

func (s *requestService) CreateRequest(ctx context.Context, actorID uint, req CreateRequestRequest) (*RequestResponse, error) {
	flavors := make([]model.Flavor, 0, len(req.FlavorIDs))
	for _, fid := range req.FlavorIDs {
		flavor, err := s.flavors.FindByID(ctx, fid)
		if err != nil {
			return nil, fmt.Errorf("flavor %d not found", fid)
		}
		flavors = append(flavors, *flavor)
	}

	request := &model.Request{
		Status:      model.RequestStatusPending,
		Comment:     req.Comment,
		CreatedByID: actorID,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.requests.Create(txCtx, request); err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		if err := s.requests.SetFlavors(txCtx, request, flavors); err != nil {
			return fmt.Errorf("failed to attach flavors: %w", err)
		}
		details := map[string]interface{}{"flavorIds": req.FlavorIDs}
		if req.Comment != "" {
			details["comment"] = req.Comment
		}
		return s.audit.record(txCtx, &actorID, "Request", request.ID, model.AuditActionCreate, details)
	})
	if err != nil {
		return nil, err
	}

	created, err := s.requests.FindByID(ctx, request.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload request: %w", err)
	}
	resp := toRequestResponse(*created)
	return &resp, nil
}

func (s *requestService) UpdateRequest(ctx context.Context, actorID uint, id uint, req UpdateRequestRequest) (*RequestResponse, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("request not found")
	}

	diff := map[string]interface{}{}
	if req.Status != nil {
		if !model.ValidRequestStatus(*req.Status) {
			return nil, fmt.Errorf("invalid status %q", *req.Status)
		}
		if *req.Status != request.Status {
			if request.Status != model.RequestStatusPending {
				return nil, ErrRequestClosed
			}
			request.Status = *req.Status
			diff["status"] = *req.Status
		}
	}
	if req.Comment != nil {
		request.Comment = *req.Comment
		diff["comment"] = *req.Comment
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.requests.Update(txCtx, request); err != nil {
			return fmt.Errorf("failed to update request: %w", err)
		}
		return s.audit.record(txCtx, &actorID, "Request", request.ID, model.AuditActionUpdate, diff)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload request: %w", err)
	}
	resp := toRequestResponse(*updated)
	return &resp, nil
}

func (s *requestService) DeleteRequest(ctx context.Context, actorID uint, id uint) error {
	if _, err := s.requests.FindByID(ctx, id); err != nil {
		return errors.New("request not found")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.requests.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete request: %w", err)
		}
		return s.audit.record(txCtx, &actorID, "Request", id, model.AuditActionDelete, map[string]interface{}{})
	})
}
