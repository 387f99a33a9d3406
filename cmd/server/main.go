// Package main implements the entry point for the TaskTrack API server,
// a multi-tenant task-tracking backend with token-based authentication.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/tasktrackhq/tasktrack-api/internal/config"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/logger"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/postgres"
)

// main initializes configuration, logging, the database connection, and
// dependency wiring, then runs the HTTP server until shutdown.
func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	ctx := context.Background()
	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
