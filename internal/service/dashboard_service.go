package service

import (
	"context"
	"fmt"

	"flavoradmin/internal/model"
	"flavoradmin/internal/repository"
)

type DashboardSummary struct {
	Users            int64                  `json:"users"`
	Brands           int64                  `json:"brands"`
	Flavors          int64                  `json:"flavors"`
	Requests         int64                  `json:"requests"`
	RequestsByStatus map[string]int64       `json:"requests_by_status"`
	LatestRequests   []LatestRequestSummary `json:"latest_requests"`
}

type LatestRequestSummary struct {
	ID        uint     `json:"id"`
	Status    string   `json:"status"`
	CreatedBy string   `json:"created_by"`
	Flavors   []string `json:"flavors"`
	CreatedAt string   `json:"created_at"`
}

type DashboardService interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
}

type dashboardService struct {
	dashboards repository.DashboardRepository
	requests   repository.RequestRepository
	txManager  repository.TransactionManager
}

func NewDashboardService(
	dashboards repository.DashboardRepository,
	requests repository.RequestRepository,
	txManager repository.TransactionManager,
) DashboardService {
	return &dashboardService{dashboards: dashboards, requests: requests, txManager: txManager}
}

// Summary runs all reads in one transaction so the counts describe a
// single snapshot.
func (s *dashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	var (
		counts *repository.DashboardCounts
		latest []model.Request
	)
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		if counts, err = s.dashboards.Counts(txCtx); err != nil {
			return fmt.Errorf("failed to fetch dashboard counts: %w", err)
		}
		if latest, err = s.requests.Latest(txCtx, 5); err != nil {
			return fmt.Errorf("failed to fetch latest requests: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		Users:            counts.Users,
		Brands:           counts.Brands,
		Flavors:          counts.Flavors,
		Requests:         counts.Requests,
		RequestsByStatus: counts.RequestsByStatus,
		LatestRequests:   make([]LatestRequestSummary, 0, len(latest)),
	}
	for _, req := range latest {
		summary.LatestRequests = append(summary.LatestRequests, toLatestRequestSummary(req))
	}
	return summary, nil
}

func toLatestRequestSummary(req model.Request) LatestRequestSummary {
	flavors := make([]string, 0, len(req.Flavors))
	for _, f := range req.Flavors {
		flavors = append(flavors, f.Name)
	}
	creator := ""
	if req.CreatedBy != nil {
		creator = req.CreatedBy.FullName()
	}
	return LatestRequestSummary{
		ID:        req.ID,
		Status:    req.Status,
		CreatedBy: creator,
		Flavors:   flavors,
		CreatedAt: req.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
