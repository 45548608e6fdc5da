package events

import (
	"context"

	"github.com/mirevents/eventdesk/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the events table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	FindByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
}
