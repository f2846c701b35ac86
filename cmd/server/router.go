package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/scriptly/scriptly-api/internal/api"
	apiMiddleware "github.com/scriptly/scriptly-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	scriptHandler := api.NewScriptHandler(app.scriptService, app.logger)
	recommendationHandler := api.NewRecommendationHandler(app.recommendationService, app.logger)
	musicHandler := api.NewMusicHandler(app.musicStore, app.blobStore, app.logger)
	statsHandler := api.NewStatsHandler(app.statsService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// User profile endpoints
			r.Get("/users/{id}", authHandler.GetUser)
			r.Put("/users/{id}", authHandler.UpdateUser)
			r.Delete("/users/{id}", authHandler.DeleteUser)
			r.Put("/users/{id}/password", authHandler.ChangePassword)

			// Script lifecycle endpoints
			r.Post("/scripts", scriptHandler.Create)
			r.Get("/scripts", scriptHandler.List)
			r.Get("/scripts/{id}", scriptHandler.Get)
			r.Put("/scripts/{id}", scriptHandler.Update)
			r.Post("/scripts/{id}/complete", scriptHandler.Complete)
			r.Delete("/scripts/{id}", scriptHandler.Delete)

			// Recommendation endpoints
			r.Get("/recommendations", recommendationHandler.List)
			r.Post("/recommendations/{id}/promote", recommendationHandler.Promote)

			// Music endpoints
			r.Post("/music", musicHandler.Upload)
			r.Get("/music", musicHandler.List)
			r.Get("/music/{id}", musicHandler.Get)
			r.Get("/music/{id}/file", musicHandler.StreamFile)
			r.Put("/music/{id}", musicHandler.UpdateTitle)
			r.Delete("/music/{id}", musicHandler.Delete)

			// Activity dashboard endpoint
			r.Get("/userstats", statsHandler.Get)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
