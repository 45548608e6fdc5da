package imports

import (
	"context"
	"time"

	"github.com/mirevents/eventdesk/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for import jobs. Counter
// updates are partial column updates so concurrent polls never observe a
// half-written job row.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, job *models.ImportJob) (*models.ImportJob, error)
	FindByID(ctx context.Context, id int64) (*models.ImportJob, error)
	ListByEvent(ctx context.Context, eventID int64) ([]models.ImportJob, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	// ListPending returns pending jobs created before the cutoff, oldest
	// first. The sweeper picks these up when the original enqueue was lost
	// to a crash.
	ListPending(ctx context.Context, createdBefore time.Time) ([]models.ImportJob, error)
	// ListStaleRunning returns running jobs whose last update is older
	// than the cutoff, for operational stall detection.
	ListStaleRunning(ctx context.Context, updatedBefore time.Time) ([]models.ImportJob, error)
}
