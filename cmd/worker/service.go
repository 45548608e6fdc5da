package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mirevents/eventdesk/internal/imports"
	"github.com/mirevents/eventdesk/pkg/config"
	"github.com/mirevents/eventdesk/pkg/db"
	"github.com/mirevents/eventdesk/pkg/enums"
	"github.com/mirevents/eventdesk/pkg/logger"
)

// pendingGrace is how old a pending job must be before the sweeper takes
// it over. Fresh jobs belong to the api process that created them.
const pendingGrace = 30 * time.Second

type ServiceParams struct {
	Config *config.Config
	Logger *logger.Logger
	DB     *db.Client
	Jobs   imports.Repository
	Pool   *imports.Pool
}

// Service sweeps import jobs that lost their worker: pending jobs whose
// enqueue died with the api process, and running jobs that stopped
// updating.
type Service struct {
	cfg  *config.Config
	logg *logger.Logger
	db   *db.Client
	jobs imports.Repository
	pool *imports.Pool
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.DB == nil {
		return nil, errors.New("database client is required")
	}
	if params.Jobs == nil {
		return nil, errors.New("jobs repository is required")
	}
	if params.Pool == nil {
		return nil, errors.New("worker pool is required")
	}

	return &Service{
		cfg:  params.Config,
		logg: params.Logger,
		db:   params.DB,
		jobs: params.Jobs,
		pool: params.Pool,
	}, nil
}

func (s *Service) ensureReadiness(ctx context.Context) error {
	if err := pingDependency(ctx, s.logg, "database", s.db.Ping); err != nil {
		return err
	}
	s.logg.Info(ctx, "all worker dependencies are ready")
	return nil
}

func pingDependency(ctx context.Context, logg *logger.Logger, name string, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		logg.Error(ctx, fmt.Sprintf("%s ping failed", name), err)
		return fmt.Errorf("%s ping failed: %w", name, err)
	}
	return nil
}

func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := s.ensureReadiness(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "worker context canceled")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	now := time.Now().UTC()

	pending, err := s.jobs.ListPending(ctx, now.Add(-pendingGrace))
	if err != nil {
		s.logg.Error(ctx, "list pending jobs", err)
	}
	for _, job := range pending {
		s.logg.Info(s.logg.WithJob(ctx, job.ID, job.EventID), "re-enqueueing orphaned pending job")
		s.pool.Enqueue(job.ID)
	}

	if s.cfg.Imports.StaleAfter <= 0 {
		return
	}
	stale, err := s.jobs.ListStaleRunning(ctx, now.Add(-s.cfg.Imports.StaleAfter))
	if err != nil {
		s.logg.Error(ctx, "list stale running jobs", err)
		return
	}
	for _, job := range stale {
		jobCtx := s.logg.WithJob(ctx, job.ID, job.EventID)
		s.logg.Warn(jobCtx, "marking stale running job as failed")
		if err := s.jobs.Update(ctx, job.ID, map[string]any{
			"status":      enums.ImportJobFailed,
			"finished_at": now,
		}); err != nil {
			s.logg.Error(jobCtx, "mark stale job failed", err)
		}
	}
}
