package repository

import (
	"context"

	"flavoradmin/internal/model"

	"gorm.io/gorm"
)

// DashboardCounts aggregates the row counts shown on the summary screen.
type DashboardCounts struct {
	Users            int64
	Brands           int64
	Flavors          int64
	Requests         int64
	RequestsByStatus map[string]int64
}

type DashboardRepository interface {
	Counts(ctx context.Context) (*DashboardCounts, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) Counts(ctx context.Context) (*DashboardCounts, error) {
	db := GetDB(ctx, r.db)
	counts := &DashboardCounts{
		RequestsByStatus: map[string]int64{
			model.RequestStatusPending:  0,
			model.RequestStatusApproved: 0,
			model.RequestStatusRejected: 0,
		},
	}

	if err := db.Model(&model.User{}).Count(&counts.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Brand{}).Count(&counts.Brands).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Flavor{}).Count(&counts.Flavors).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Request{}).Count(&counts.Requests).Error; err != nil {
		return nil, err
	}

	var byStatus []struct {
		Status string
		Total  int64
	}
	err := db.Model(&model.Request{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		counts.RequestsByStatus[row.Status] = row.Total
	}

	return counts, nil
}
