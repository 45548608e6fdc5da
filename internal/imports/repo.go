package imports

import (
	"context"
	"time"

	"github.com/mirevents/eventdesk/pkg/db/models"
	"github.com/mirevents/eventdesk/pkg/enums"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an import-job repository bound to the provided DB.
func NewRepository(gdb *gorm.DB) Repository {
	return &repository{db: gdb}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, job *models.ImportJob) (*models.ImportJob, error) {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.ImportJob, error) {
	var job models.ImportJob
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID int64) ([]models.ImportJob, error) {
	var jobs []models.ImportJob
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.ImportJob{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) ListPending(ctx context.Context, createdBefore time.Time) ([]models.ImportJob, error) {
	var jobs []models.ImportJob
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", enums.ImportJobPending, createdBefore).
		Order("id ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *repository) ListStaleRunning(ctx context.Context, updatedBefore time.Time) ([]models.ImportJob, error) {
	var jobs []models.ImportJob
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", enums.ImportJobRunning, updatedBefore).
		Order("id ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}
