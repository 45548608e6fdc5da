package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mirevents/eventdesk/api/routes"
	"github.com/mirevents/eventdesk/internal/catalog"
	"github.com/mirevents/eventdesk/internal/events"
	"github.com/mirevents/eventdesk/internal/guests"
	"github.com/mirevents/eventdesk/internal/imports"
	"github.com/mirevents/eventdesk/pkg/config"
	"github.com/mirevents/eventdesk/pkg/db"
	"github.com/mirevents/eventdesk/pkg/logger"
	"github.com/mirevents/eventdesk/pkg/metrics"
	"github.com/mirevents/eventdesk/pkg/migrate"
	"github.com/mirevents/eventdesk/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, upload rate limiting disabled")
	}

	registry := prometheus.NewRegistry()
	importMetrics := metrics.NewImportMetrics(registry)

	guestRepo := guests.NewRepository(dbClient.DB())
	eventRepo := events.NewRepository(dbClient.DB())
	jobRepo := imports.NewRepository(dbClient.DB())

	eventService, err := events.NewService(eventRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create events service", err)
		os.Exit(1)
	}
	guestService, err := guests.NewService(guestRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create guests service", err)
		os.Exit(1)
	}
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
		jobRepo, eventRepo, catalogService, reconciler, pool.Enqueue, importMetrics, *cfg, logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create imports service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool.Start(ctx, cfg.Imports.Workers, importService.Run)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting api server")

	handler := routes.NewRouter(cfg, logg, dbClient, redisClient, eventService, guestService, catalogService, importService)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/", handler)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logg.Info(logCtx, "shutdown signal received")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(logCtx, "server shutdown failed", err)
	}
	// Let in-flight imports finish before exiting.
	pool.Stop()
	logg.Info(logCtx, "api server stopped")
}
