package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tasktrackhq/tasktrack-api/internal/config"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/postgres"
	"github.com/tasktrackhq/tasktrack-api/internal/service"
	"github.com/tasktrackhq/tasktrack-api/internal/service/auth"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config

	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore     store.UserStore
	categoryStore store.CategoryStore
	taskStore     store.TaskStore

	// Services
	jwtService      auth.JWTService
	passwordHasher  auth.PasswordManager
	taskService     *service.TaskService
	categoryService *service.CategoryService
}

// newApplication creates a new application instance with all dependencies
// initialized. Configuration, logger, and database connection must be
// established before calling.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
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
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes)

	app.passwordHasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.categoryStore = postgres.NewPostgresCategoryStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	app.categoryService, err = service.NewCategoryService(app.categoryStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create category service: %w", err)
	}

	app.taskService, err = service.NewTaskService(db, app.taskStore, app.categoryStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
