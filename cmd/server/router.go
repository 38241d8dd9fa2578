package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/coursewise/coursewise/internal/api"
	apiMiddleware "github.com/coursewise/coursewise/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware) // Add trace IDs for improved error handling

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	courseHandler := api.NewCourseHandler(app.courseService)
	summaryHandler := api.NewSummaryHandler(app.summaryService)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Course endpoints
			r.Post("/courses", courseHandler.CreateCourse)
			r.Get("/courses/{id}", courseHandler.GetCourse)

			// Summary generation endpoints
			r.Post("/courses/{id}/summary", summaryHandler.RequestSummary)
			r.Post("/courses/{id}/summary/wait", summaryHandler.AwaitSummary)
			r.Put("/courses/{id}/summary", courseHandler.FinalizeSummary)

			// Job status endpoint
			r.Get("/summary-jobs/{id}", summaryHandler.GetJobStatus)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
