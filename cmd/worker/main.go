package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mirevents/eventdesk/internal/catalog"
	"github.com/mirevents/eventdesk/internal/events"
	"github.com/mirevents/eventdesk/internal/guests"
	"github.com/mirevents/eventdesk/internal/imports"
	"github.com/mirevents/eventdesk/pkg/config"
	"github.com/mirevents/eventdesk/pkg/db"
	"github.com/mirevents/eventdesk/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	guestRepo := guests.NewRepository(dbClient.DB())
	eventRepo := events.NewRepository(dbClient.DB())
	jobRepo := imports.NewRepository(dbClient.DB())

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	reconciler, err := imports.NewReconciler(dbClient, guestRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create import reconciler", err)
		os.Exit(1)
	}

	pool := imports.NewPool(cfg.Imports.Workers, logg)
	importService, err := imports.NewService(
		jobRepo, eventRepo, catalogService, reconciler, pool.Enqueue, nil, *cfg, logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create imports service", err)
		os.Exit(1)
	}

	sweeper, err := NewService(ServiceParams{
		Config: cfg,
		Logger: logg,
		DB:     dbClient,
		Jobs:   jobRepo,
		Pool:   pool,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sweeper", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool.Start(ctx, cfg.Imports.Workers, importService.Run)

	logg.Info(logg.WithField(ctx, "env", cfg.App.Env), "starting import worker")
	if err := sweeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "worker stopped unexpectedly", err)
		pool.Stop()
		os.Exit(1)
	}
	pool.Stop()
	logg.Info(ctx, "worker shutting down gracefully")
}
