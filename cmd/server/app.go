package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/coursewise/coursewise/internal/config"
	"github.com/coursewise/coursewise/internal/events"
	"github.com/coursewise/coursewise/internal/platform/openai"
	"github.com/coursewise/coursewise/internal/platform/postgres"
	"github.com/coursewise/coursewise/internal/ratelimit"
	"github.com/coursewise/coursewise/internal/service"
	"github.com/coursewise/coursewise/internal/service/auth"
	"github.com/coursewise/coursewise/internal/store"
	"github.com/coursewise/coursewise/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore   store.UserStore
	courseStore store.CourseStore
	jobStore    store.SummaryJobStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	courseService    service.CourseService
	summaryService   service.SummaryService

	// Rate limiting
	rateLimiter *ratelimit.Limiter

	// Event system
	eventEmitter events.EventEmitter

	// Task handling
	taskRunner *task.TaskRunner
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

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize password verifier
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.courseStore = postgres.NewPostgresCourseStore(db, logger)
	app.jobStore = postgres.NewPostgresSummaryJobStore(db, logger)

	// Create the LLM generator service
	generator, err := openai.NewGenerator(
		logger.With("component", "llm_generator"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized successfully",
		"model", cfg.LLM.ModelName,
		"max_attempts", cfg.LLM.MaxAttempts)

	// Initialize the rate limiter. Redis backs the counters when an
	// address is configured; otherwise counters are process-local.
	app.rateLimiter = setupRateLimiter(cfg, logger)

	// Initialize task runner
	app.taskRunner, err = setupTaskRunner(app)
	if err != nil {
		return nil, fmt.Errorf("failed to setup task runner: %w", err)
	}

	// Initialize event emitter
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	// Create required adapters
	courseReader := service.NewCourseReaderAdapter(app.courseStore)
	jobRecorder := service.NewJobRecorderAdapter(db, app.courseStore, app.jobStore, logger)

	// Initialize course service
	app.courseService, err = service.NewCourseService(db, app.courseStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create course service: %w", err)
	}

	// Initialize summary service
	app.summaryService, err = service.NewSummaryService(
		app.rateLimiter,
		app.courseStore,
		app.jobStore,
		app.eventEmitter,
		cfg.Summary,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary service: %w", err)
	}

	// Create task factory
	summaryTaskFactory := task.NewSummaryGenerationTaskFactory(
		courseReader,
		jobRecorder,
		generator,
		logger,
	)

	// Create and register task factory event handler
	taskFactoryHandler := task.NewTaskFactoryEventHandler(
		summaryTaskFactory,
		app.taskRunner,
		logger,
	)

	// Register the event handler with the event emitter
	if emitter, ok := app.eventEmitter.(*events.InMemoryEventEmitter); ok {
		emitter.RegisterHandler(taskFactoryHandler)
	} else {
		return nil, fmt.Errorf("unexpected event emitter type, cannot register task handler")
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// setupRateLimiter builds the admission-control limiter over the configured
// counter store.
func setupRateLimiter(cfg *config.Config, logger *slog.Logger) *ratelimit.Limiter {
	var counterStore ratelimit.CounterStore
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		counterStore = ratelimit.NewRedisCounterStore(client)
		logger.Info("Rate limit counters backed by Redis", "addr", cfg.Redis.Addr)
	} else {
		counterStore = ratelimit.NewMemoryCounterStore()
		logger.Info("Rate limit counters are in-memory")
	}

	return ratelimit.NewLimiter(counterStore, cfg.RateLimit, logger)
}

// setupTaskRunner initializes and starts the background task processor.
// It uses the application struct to access required dependencies.
func setupTaskRunner(app *application) (*task.TaskRunner, error) {
	taskRunner := task.NewTaskRunner(app.jobStore, task.TaskRunnerConfig{
		QueueSize:   app.config.Task.QueueSize,
		WorkerCount: app.config.Task.WorkerCount,
		StuckJobAge: time.Duration(app.config.Task.StuckJobAgeMinutes) * time.Minute,
	}, app.logger)

	if err := taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	return taskRunner, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop task runner
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
