package routes

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/mirevents/eventdesk/api/controllers"
	"github.com/mirevents/eventdesk/api/middleware"
	"github.com/mirevents/eventdesk/internal/catalog"
	"github.com/mirevents/eventdesk/internal/events"
	"github.com/mirevents/eventdesk/internal/guests"
	"github.com/mirevents/eventdesk/internal/imports"
	"github.com/mirevents/eventdesk/pkg/config"
	"github.com/mirevents/eventdesk/pkg/db"
	"github.com/mirevents/eventdesk/pkg/logger"
	"github.com/mirevents/eventdesk/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	eventService events.Service,
	guestService guests.Service,
	catalogService catalog.Service,
	importService imports.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	uploadPolicy := middleware.NewUploadRateLimitPolicy(
		cfg.Uploads.RateWindow,
		cfg.Uploads.RateEventMax,
		cfg.Uploads.RateIPMax,
	)
	// The limiter drops out entirely when Redis is not configured.
	uploadLimiter := middleware.UploadRateLimit(uploadPolicy, nil, logg)
	cachePinger := controllers.CachePinger(nil)
	if redisClient != nil {
		uploadLimiter = middleware.UploadRateLimit(uploadPolicy, redisClient, logg)
		cachePinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cachePinger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Post("/", controllers.EventCreate(eventService, logg))
			r.Get("/", controllers.EventList(eventService, logg))
			r.Get("/{eventID}", controllers.EventGet(eventService, logg))

			r.Route("/{eventID}/guests", func(r chi.Router) {
				r.Get("/", controllers.GuestList(guestService, logg))
			})

			r.Route("/{eventID}/imports", func(r chi.Router) {
				r.With(uploadLimiter).
					Post("/", controllers.ImportUpload(importService, cfg.Uploads.MaxUploadMB, logg))
				r.Get("/", controllers.ImportJobList(importService, logg))
			})
		})

		r.Route("/guests/{guestID}", func(r chi.Router) {
			r.Get("/", controllers.GuestGet(guestService, logg))
			r.Patch("/", controllers.GuestUpdate(guestService, logg))
			r.Post("/check-in", controllers.GuestCheckIn(guestService, logg))
		})

		r.Get("/imports/{jobID}", controllers.ImportJobStatus(importService, logg))
		r.Get("/catalog/columns", controllers.CatalogColumns(catalogService, logg))
	})

	// Error logs and other job artifacts are served straight off disk.
	uploadsDir := cfg.Uploads.Dir
	if uploadsDir == "" {
		uploadsDir = "uploads"
	}
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(filepath.Clean(uploadsDir))))
	r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
		fs.ServeHTTP(w, req)
	})

	return r
}
