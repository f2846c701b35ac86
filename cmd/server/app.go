package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/scriptly/scriptly-api/internal/config"
	"github.com/scriptly/scriptly-api/internal/platform/blob"
	"github.com/scriptly/scriptly-api/internal/platform/postgres"
	"github.com/scriptly/scriptly-api/internal/service"
	"github.com/scriptly/scriptly-api/internal/service/auth"
	"github.com/scriptly/scriptly-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore   store.UserStore
	scriptStore store.ScriptStore
	musicStore  store.MusicStore
	blobStore   store.BlobStore

	// Services
	jwtService            auth.JWTService
	passwordVerifier      auth.PasswordVerifier
	scriptService         *service.ScriptService
	recommendationService *service.RecommendationService
	statsService          *service.StatsService

	// Background work
	sweeper   *service.Sweeper
	scheduler *service.Scheduler
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, logger, cfg.Auth.BcryptCost)
	app.scriptStore = postgres.NewPostgresScriptStore(db, logger)
	app.musicStore = postgres.NewPostgresMusicStore(db, logger)

	app.blobStore, err = blob.NewFilesystemStore(cfg.Storage.MediaDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media storage: %w", err)
	}

	app.scriptService = service.NewScriptService(app.scriptStore, logger, nil)
	app.recommendationService = service.NewRecommendationService(
		app.scriptStore, cfg.Recommendation, logger, nil)
	app.statsService = service.NewStatsService(app.userStore, app.scriptStore, logger)

	app.sweeper = service.NewSweeper(app.scriptStore, cfg.Sweeper, logger, nil)
	app.scheduler = service.NewScheduler(logger)
	if _, err := app.scheduler.Schedule(cfg.Sweeper.Schedule, app.sweeper.Run); err != nil {
		return nil, fmt.Errorf("failed to schedule sweeper: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the background scheduler and the HTTP server, handling
// lifecycle and cleanup. It returns an error if the server fails to start
// or encounters problems.
func (app *application) Run(ctx context.Context) error {
	app.scheduler.Start()

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
