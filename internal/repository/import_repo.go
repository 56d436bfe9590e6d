package repository

import (
	"context"

	"flavoradmin/internal/model"

	"gorm.io/gorm"
)

type ImportJobRepository interface {
	Create(ctx context.Context, job *model.ImportJob) error
	FindByID(ctx context.Context, id uint) (*model.ImportJob, error)
	ListAll(ctx context.Context) ([]model.ImportJob, error)
	FindPending(ctx context.Context) ([]model.ImportJob, error)
	// Finish records the terminal status and collected row errors, but only
	// if the job is still pending. Returns the number of rows updated so
	// the sweep can treat an already-finished job as a no-op.
	Finish(ctx context.Context, id uint, status, errorsJSON string) (int64, error)
}

type importJobRepository struct {
	db *gorm.DB
}

func NewImportJobRepository(db *gorm.DB) ImportJobRepository {
	return &importJobRepository{db: db}
}

func (r *importJobRepository) Create(ctx context.Context, job *model.ImportJob) error {
	return GetDB(ctx, r.db).Create(job).Error
}

func (r *importJobRepository) FindByID(ctx context.Context, id uint) (*model.ImportJob, error) {
	var job model.ImportJob
	if err := GetDB(ctx, r.db).First(&job, id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *importJobRepository) ListAll(ctx context.Context) ([]model.ImportJob, error) {
	var jobs []model.ImportJob
	if err := GetDB(ctx, r.db).Order("id desc").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *importJobRepository) FindPending(ctx context.Context) ([]model.ImportJob, error) {
	var jobs []model.ImportJob
	err := GetDB(ctx, r.db).Where("status = ?", model.ImportStatusPending).
		Order("id asc").Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *importJobRepository) Finish(ctx context.Context, id uint, status, errorsJSON string) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.ImportJob{}).
		Where("id = ? AND status = ?", id, model.ImportStatusPending).
		Updates(map[string]interface{}{"status": status, "errors": errorsJSON})
	return res.RowsAffected, res.Error
}
