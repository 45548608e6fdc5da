package catalog

import (
	"context"
	"errors"

	"github.com/mirevents/eventdesk/pkg/db/models"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListOrdered(ctx context.Context) ([]models.CatalogColumn, error) {
	var out []models.CatalogColumn
	err := r.db.WithContext(ctx).
		Order("display_order ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) FindByName(ctx context.Context, name string) (*models.CatalogColumn, error) {
	var col models.CatalogColumn
	err := r.db.WithContext(ctx).
		Where("column_name = ?", name).
		First(&col).Error
	if err != nil {
		return nil, err
	}
	return &col, nil
}

func (r *repository) Upsert(ctx context.Context, name string, displayOrder int, isBase bool) (*models.CatalogColumn, error) {
	existing, err := r.FindByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		updates := map[string]any{
			"display_order": displayOrder,
			"is_base_field": isBase,
		}
		if err := r.db.WithContext(ctx).
			Model(&models.CatalogColumn{}).
			Where("id = ?", existing.ID).
			Updates(updates).Error; err != nil {
			return nil, err
		}
		existing.DisplayOrder = displayOrder
		existing.IsBaseField = isBase
		return existing, nil
	}

	col := &models.CatalogColumn{
		ColumnName:   name,
		DisplayOrder: displayOrder,
		IsBaseField:  isBase,
	}
	if err := r.db.WithContext(ctx).Create(col).Error; err != nil {
		return nil, err
	}
	return col, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.CatalogColumn{}).Error
}
