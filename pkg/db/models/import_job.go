package models

import (
	"time"

	"github.com/mirevents/eventdesk/pkg/enums"
)

// ImportJob tracks one guest spreadsheet upload through its lifecycle.
// Counters are persisted after every committed batch so progress survives
// a crash and polling clients see monotonic movement.
type ImportJob struct {
	ID      int64 `gorm:"column:id;primaryKey;autoIncrement"`
	EventID int64 `gorm:"column:event_id;not null;index"`

	FileName      string                `gorm:"column:file_name;not null"`
	Status        enums.ImportJobStatus `gorm:"column:status;not null;default:pending"`
	TotalRows     int                   `gorm:"column:total_rows;not null;default:0"`
	ProcessedRows int                   `gorm:"column:processed_rows;not null;default:0"`
	SuccessCount  int                   `gorm:"column:success_count;not null;default:0"`
	ErrorCount    int                   `gorm:"column:error_count;not null;default:0"`
	ErrorLogPath  *string               `gorm:"column:error_log_path"`

	StartedAt  *time.Time `gorm:"column:started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
