package imports

import (
	"path/filepath"
	"time"

	"github.com/mirevents/eventdesk/pkg/db/models"
	"github.com/mirevents/eventdesk/pkg/enums"
)

// JobStatusResponse is the pollable view of an import job. Counters are
// monotonic; the stalled flag marks a running job whose last update is
// older than the configured stale window, the signal that its worker
// died mid-run.
type JobStatusResponse struct {
	ID            int64                 `json:"id"`
	EventID       int64                 `json:"event_id"`
	FileName      string                `json:"file_name"`
	Status        enums.ImportJobStatus `json:"status"`
	TotalRows     int                   `json:"total_rows"`
	ProcessedRows int                   `json:"processed_rows"`
	SuccessCount  int                   `json:"success_count"`
	ErrorCount    int                   `json:"error_count"`
	ErrorLogURL   *string               `json:"error_log_url"`
	Stalled       bool                  `json:"stalled"`
	StartedAt     *time.Time            `json:"started_at"`
	FinishedAt    *time.Time            `json:"finished_at"`
	CreatedAt     time.Time             `json:"created_at"`
}

func jobResponse(job *models.ImportJob, staleAfter time.Duration, now time.Time) *JobStatusResponse {
	resp := &JobStatusResponse{
		ID:            job.ID,
		EventID:       job.EventID,
		FileName:      job.FileName,
		Status:        job.Status,
		TotalRows:     job.TotalRows,
		ProcessedRows: job.ProcessedRows,
		SuccessCount:  job.SuccessCount,
		ErrorCount:    job.ErrorCount,
		StartedAt:     job.StartedAt,
		FinishedAt:    job.FinishedAt,
		CreatedAt:     job.CreatedAt,
	}
	if job.ErrorLogPath != nil {
		// The uploads dir is mounted at /uploads/ regardless of where it
		// lives on disk.
		url := "/uploads/imports/" + filepath.Base(*job.ErrorLogPath)
		resp.ErrorLogURL = &url
	}
	if job.Status == enums.ImportJobRunning && staleAfter > 0 && now.Sub(job.UpdatedAt) > staleAfter {
		resp.Stalled = true
	}
	return resp
}
