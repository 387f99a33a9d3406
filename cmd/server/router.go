package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/tasktrackhq/tasktrack-api/internal/api"
	apiMiddleware "github.com/tasktrackhq/tasktrack-api/internal/api/middleware"
)

// loginRateLimit caps credential-guessing attempts per client IP.
const (
	loginRateLimit  = 5
	loginRateWindow = time.Minute
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordHasher)
	categoryHandler := api.NewCategoryHandler(app.categoryService)
	taskHandler := api.NewTaskHandler(app.taskService)
	healthHandler := api.NewHealthHandler(app.db)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userStore)

	// Authentication endpoints (public)
	r.Post("/auth/register", authHandler.Register)
	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(
			loginRateLimit,
			loginRateWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
		))
		r.Post("/auth/login", authHandler.Login)
	})
	r.Post("/auth/refresh", authHandler.Refresh)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/categories", categoryHandler.Create)
		r.Get("/categories", categoryHandler.List)

		r.Post("/tasks", taskHandler.Create)
		r.Get("/tasks", taskHandler.List)
		r.Get("/tasks/{id}", taskHandler.Get)
		r.Put("/tasks/{id}", taskHandler.Update)
		r.Delete("/tasks/{id}", taskHandler.Delete)
	})

	// Health check endpoints
	r.Get("/health", healthHandler.Live)
	r.Get("/health/db", healthHandler.Database)

	return r
}
