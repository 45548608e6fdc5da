package catalog

import (
	"context"

	"github.com/mirevents/eventdesk/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence for the global column catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListOrdered(ctx context.Context) ([]models.CatalogColumn, error)
	FindByName(ctx context.Context, name string) (*models.CatalogColumn, error)
	Upsert(ctx context.Context, name string, displayOrder int, isBase bool) (*models.CatalogColumn, error)
	Delete(ctx context.Context, id int64) error
}
