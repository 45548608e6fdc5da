package imports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mirevents/eventdesk/internal/catalog"
	"github.com/mirevents/eventdesk/internal/events"
	"github.com/mirevents/eventdesk/pkg/config"
	"github.com/mirevents/eventdesk/pkg/db/models"
	"github.com/mirevents/eventdesk/pkg/enums"
	pkgerrors "github.com/mirevents/eventdesk/pkg/errors"
	"github.com/mirevents/eventdesk/pkg/logger"
	"github.com/mirevents/eventdesk/pkg/metrics"
	"gorm.io/gorm"
)

// Legacy .xls is rejected up front: the spreadsheet library reads only
// OOXML, so accepting it would fail the job at read time.
var allowedExtensions = map[string]bool{
	".csv": true, ".xlsx": true,
}

// Service owns the import job lifecycle: accepting an upload, creating
// the pending job, and the asynchronous run that drives the reconciler
// over the file.
type Service interface {
	StartJob(ctx context.Context, eventID int64, fileName string, file io.Reader) (*JobStatusResponse, error)
	GetJob(ctx context.Context, jobID int64) (*JobStatusResponse, error)
	ListJobs(ctx context.Context, eventID int64) ([]JobStatusResponse, error)

	// Run executes one job to a terminal state. It is called from the
	// worker pool, never from a request handler.
	Run(ctx context.Context, jobID int64)
}

type service struct {
	jobs       Repository
	events     events.Repository
	catalog    catalog.Service
	reconciler *Reconciler
	enqueue    func(jobID int64)
	metrics    *metrics.ImportMetrics
	logg       *logger.Logger

	uploadsDir string
	batchSize  int
	staleAfter time.Duration
}

// NewService builds the import orchestrator with the required
// dependencies. The enqueue hook hands a created job to the worker pool;
// it is injected to keep the pool's lifetime out of this package's
// control flow.
func NewService(
	jobs Repository,
	eventsRepo events.Repository,
	catalogSvc catalog.Service,
	reconciler *Reconciler,
	enqueue func(jobID int64),
	importMetrics *metrics.ImportMetrics,
	cfg config.Config,
	logg *logger.Logger,
) (Service, error) {
	if jobs == nil {
		return nil, fmt.Errorf("imports repository required")
	}
	if eventsRepo == nil {
		return nil, fmt.Errorf("events repository required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if reconciler == nil {
		return nil, fmt.Errorf("reconciler required")
	}
	if enqueue == nil {
		return nil, fmt.Errorf("enqueue hook required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	batchSize := cfg.Imports.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	return &service{
		jobs:       jobs,
		events:     eventsRepo,
		catalog:    catalogSvc,
		reconciler: reconciler,
		enqueue:    enqueue,
		metrics:    importMetrics,
		logg:       logg,
		uploadsDir: cfg.Uploads.Dir,
		batchSize:  batchSize,
		staleAfter: cfg.Imports.StaleAfter,
	}, nil
}

func (s *service) StartJob(ctx context.Context, eventID int64, fileName string, file io.Reader) (*JobStatusResponse, error) {
	if eventID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedExtensions[ext] {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported file type, expected csv or xlsx")
	}

	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}

	storedPath, err := s.saveUpload(file, ext)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store upload")
	}

	job, err := s.jobs.Create(ctx, &models.ImportJob{
		EventID:  eventID,
		FileName: filepath.Base(fileName),
		Status:   enums.ImportJobPending,
	})
	if err != nil {
		os.Remove(storedPath)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create import job")
	}

	// Rename the temp upload to its job-scoped name so the async runner
	// can find it from the job id alone, surviving a process restart.
	target := filepath.Join(s.uploadsDir, "jobs", fmt.Sprintf("job_%d%s", job.ID, ext))
	if err := os.Rename(storedPath, target); err != nil {
		os.Remove(storedPath)
		s.markFailed(ctx, job.ID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store upload")
	}

	s.enqueue(job.ID)
	return jobResponse(job, s.staleAfter, time.Now().UTC()), nil
}

func (s *service) GetJob(ctx context.Context, jobID int64) (*JobStatusResponse, error) {
	if jobID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job id required")
	}
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "import job not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load import job")
	}
	return jobResponse(job, s.staleAfter, time.Now().UTC()), nil
}

func (s *service) ListJobs(ctx context.Context, eventID int64) ([]JobStatusResponse, error) {
	if eventID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}
	jobs, err := s.jobs.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list import jobs")
	}
	now := time.Now().UTC()
	out := make([]JobStatusResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, *jobResponse(&jobs[i], s.staleAfter, now))
	}
	return out, nil
}

// Run drives one job to a terminal state. Any panic or error escaping
// the row loop marks the job failed rather than crashing the worker.
func (s *service) Run(ctx context.Context, jobID int64) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		s.logg.Error(ctx, "load job for run", err)
		return
	}
	if job.Status.IsTerminal() {
		return
	}
	ctx = s.logg.WithJob(ctx, job.ID, job.EventID)

	started := time.Now().UTC()
	defer func() {
		if r := recover(); r != nil {
			s.logg.Error(ctx, "import run panicked", fmt.Errorf("%v\n%s", r, debug.Stack()))
			s.markFailed(ctx, jobID)
		}
	}()

	filePath := s.uploadPath(jobID)
	defer os.Remove(filePath)

	if err := s.jobs.Update(ctx, jobID, map[string]any{
		"status":     enums.ImportJobRunning,
		"started_at": started,
	}); err != nil {
		s.logg.Error(ctx, "mark job running", err)
		return
	}

	header, rows, err := ReadRows(filePath)
	if err != nil {
		s.logg.Error(ctx, "read import file", err)
		s.markFailed(ctx, jobID)
		s.observe(enums.ImportJobFailed, started)
		return
	}
	if len(rows) == 0 {
		s.logg.Warn(ctx, "import file has no rows")
		s.markFailed(ctx, jobID)
		s.observe(enums.ImportJobFailed, started)
		return
	}

	// Cross-event column catalog refresh is cosmetic and never blocks
	// the import.
	if err := s.catalog.RecordHeader(ctx, header); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog header update failed")
	}

	if err := s.jobs.Update(ctx, jobID, map[string]any{"total_rows": len(rows)}); err != nil {
		s.logg.Error(ctx, "record total rows", err)
	}

	var processed, successes, failures int
	var rowErrors []RowError
	for offset := 0; offset < len(rows); offset += s.batchSize {
		end := offset + s.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[offset:end]

		result := s.runBatch(ctx, job.EventID, jobID, header, batch)
		processed += len(batch)
		successes += result.Success
		failures += result.Failed
		rowErrors = append(rowErrors, result.Errors...)

		if err := s.jobs.Update(ctx, jobID, map[string]any{
			"processed_rows": processed,
			"success_count":  successes,
			"error_count":    failures,
		}); err != nil {
			s.logg.Error(ctx, "persist batch counters", err)
		}
	}

	finished := time.Now().UTC()
	final := map[string]any{
		"processed_rows": processed,
		"success_count":  successes,
		"error_count":    failures,
		"finished_at":    finished,
	}
	// Failed is reserved for jobs that die before row processing; once
	// rows were processed the counters and error log are trustworthy, so
	// even an all-errored run finishes partial.
	status := enums.ImportJobSuccess
	if failures > 0 {
		status = enums.ImportJobPartial
	}
	if len(rowErrors) > 0 {
		logPath := errorLogPath(s.uploadsDir, jobID)
		if err := writeErrorLog(logPath, header, rowErrors); err != nil {
			s.logg.Error(ctx, "write error log", err)
		} else {
			final["error_log_path"] = logPath
		}
	}
	final["status"] = status
	if err := s.jobs.Update(ctx, jobID, final); err != nil {
		s.logg.Error(ctx, "finalize job", err)
	}

	if s.metrics != nil {
		s.metrics.AddRows("success", successes)
		s.metrics.AddRows("error", failures)
	}
	s.observe(status, started)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"status": status, "rows": processed, "errors": failures,
	}), "import job finished")
}

// runBatch isolates one reconciler call: an escaped error or panic
// counts every row in the batch as failed but lets later batches run.
func (s *service) runBatch(ctx context.Context, eventID, jobID int64, header []string, batch []Row) (result BatchResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logg.Error(ctx, "batch panicked", fmt.Errorf("%v\n%s", r, debug.Stack()))
			result = failAll(batch, fmt.Sprintf("batch processing failed: %v", r))
		}
	}()
	return s.reconciler.Reconcile(ctx, eventID, jobID, header, batch)
}

func (s *service) markFailed(ctx context.Context, jobID int64) {
	if err := s.jobs.Update(ctx, jobID, map[string]any{
		"status":      enums.ImportJobFailed,
		"finished_at": time.Now().UTC(),
	}); err != nil {
		s.logg.Error(ctx, "mark job failed", err)
	}
}

func (s *service) observe(status enums.ImportJobStatus, started time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveJob(string(status), time.Since(started))
	}
}

// Uploads are stored under a per-job name so the async runner can find
// the file without carrying state across process restarts.
func (s *service) uploadPath(jobID int64) string {
	entries, err := filepath.Glob(filepath.Join(s.uploadsDir, "jobs", fmt.Sprintf("job_%d.*", jobID)))
	if err != nil || len(entries) == 0 {
		return filepath.Join(s.uploadsDir, "jobs", fmt.Sprintf("job_%d.csv", jobID))
	}
	return entries[0]
}

func (s *service) saveUpload(file io.Reader, ext string) (string, error) {
	dir := filepath.Join(s.uploadsDir, "jobs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, uuid.NewString()+ext)
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
