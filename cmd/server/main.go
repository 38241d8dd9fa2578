// Package main implements the entry point for the Coursewise API server,
// which manages users' online courses and generates course summaries
// asynchronously through an LLM provider.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/coursewise/coursewise/internal/config"
	"github.com/coursewise/coursewise/internal/platform/logger"
	"github.com/coursewise/coursewise/internal/platform/postgres"
)

// main loads configuration, sets up logging and the database, wires the
// application dependencies, and starts the HTTP server.
func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

// run contains the startup sequence so main stays a thin error boundary.
func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Set up structured logging using the configured log level
	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	// Establish the database connection
	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	// Apply any pending schema migrations before serving traffic
	if err := postgres.MigrateUp(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	appLogger.Info("Database migrations applied")

	// Wire the application dependencies
	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	// Run the HTTP server until shutdown
	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
