package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitcal/workout-tracker/internal/api"
	"fitcal/workout-tracker/internal/config"
	"fitcal/workout-tracker/internal/logging"
	"fitcal/workout-tracker/internal/metrics"
	"fitcal/workout-tracker/internal/repository"
	"fitcal/workout-tracker/internal/repository/memory"
	"fitcal/workout-tracker/internal/repository/mongo"
	"fitcal/workout-tracker/internal/service"
	"fitcal/workout-tracker/internal/storage"
	"fitcal/workout-tracker/internal/watch"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// repositories is the storage backend chosen by database.driver.
type repositories struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	types    repository.WorkoutTypeRepository
	sections repository.SectionRepository
	sessions repository.SessionRepository
	tracking repository.TrackingRepository
	exports  repository.ExportRepository
}

// @title Workout Tracker API
// @version 1.0
// @description Workout calendar, session execution, weekly tracking and statistics.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %s", err)
	}

	hostname, _ := os.Hostname()
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.Log.File,
		LogToStdout:      cfg.Log.Stdout,
		LogLevel:         cfg.Log.Level,
		LogFormatJSON:    cfg.Log.JSON,
		Environment:      cfg.Sentry.Environment,
		SentryEnabled:    cfg.Sentry.Enabled,
		SentryDSN:        cfg.Sentry.DSN,
		SentryServerName: hostname,
	})
	if cfg.Sentry.Enabled {
		defer sentry.Flush(2 * time.Second)
	}
	log.Infof("starting workout tracker server, database driver: %s", cfg.Database.Driver)

	loc, _ := cfg.Stats.Location() // validated by LoadConfig

	// --- Database ---
	var repos repositories
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Warnln("using the in-memory database, data is lost on restart")
		db := memory.New()
		repos = repositories{
			users:    db.Users(),
			profiles: db.Profiles(),
			types:    db.WorkoutTypes(),
			sections: db.Sections(),
			sessions: db.Sessions(),
			tracking: db.Tracking(),
			exports:  db.Exports(),
		}
	default:
		dbClient, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			log.Fatalf("could not connect to MongoDB: %s", err)
		}
		defer func() {
			log.Println("disconnecting MongoDB...")
			if err := mongo.DisconnectDB(dbClient); err != nil {
				log.Errorf("failed to disconnect MongoDB: %s", err)
			}
		}()
		appDB := dbClient.Database(cfg.Database.Name)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			mongo.EnsureIndexes(ctx, appDB)
			log.Debugln("index creation process completed")
		}()

		repos = repositories{
			users:    mongo.NewMongoUserRepository(appDB),
			profiles: mongo.NewMongoProfileRepository(appDB),
			types:    mongo.NewMongoWorkoutTypeRepository(appDB),
			sections: mongo.NewMongoSectionRepository(appDB),
			sessions: mongo.NewMongoSessionRepository(appDB),
			tracking: mongo.NewMongoTrackingRepository(appDB),
			exports:  mongo.NewMongoExportRepository(appDB),
		}
	}

	// --- Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("failed to initialize S3 storage: %s", err)
		}
	} else {
		log.Infoln("object storage disabled, exports are unavailable")
	}

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager("workout_tracker", "server", registry)
	hub := watch.NewHub(metricsManager.GaugeSubscriptions)

	// --- Services ---
	statsService := service.NewStatsService(repos.sessions, loc, cfg.Stats.CacheSizeMB, cfg.Stats.CacheTTL, metricsManager)
	// stats first, so that subscribers woken by the hub read a fresh summary
	notifier := service.Notifiers{statsService, hub}

	workoutTypeService := service.NewWorkoutTypeService(repos.types, repos.sections, notifier)
	services := api.Services{
		Auth:          service.NewAuthService(repos.users, workoutTypeService, cfg.JWT.Secret, cfg.JWT.Expiration),
		Profiles:      service.NewProfileService(repos.profiles, notifier),
		WorkoutTypes:  workoutTypeService,
		Sessions:      service.NewSessionService(repos.sessions, repos.types, repos.sections, repos.tracking, notifier, metricsManager),
		Tracking:      service.NewTrackingService(repos.tracking, notifier, metricsManager),
		Stats:         statsService,
		Exports:       service.NewExportService(repos.exports, repos.sessions, repos.users, statsService, fileStorage, cfg.S3.PresignExpiry, metricsManager),
		Changes:       hub,
		TimerInterval: time.Second,
	}

	// --- Gin Engine ---
	if cfg.Sentry.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		metrics.PanicRecovery(metricsManager),
		api.RequestLogger(),
		metrics.RequestMetrics(metricsManager),
	)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	api.SetupRoutes(router, services)

	// --- Start HTTP Server ---
	// request contexts derive from baseCtx; cancelling it on shutdown ends the SSE streams
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(cancelBase)

	// --- Graceful Shutdown ---
	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %s", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infoln("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %s", err)
	}

	log.Infoln("server exiting")
}
