package routes

import (
	"github.com/casadocarlos/matriculas/internal/auth"
	"github.com/casadocarlos/matriculas/internal/handlers"
	"github.com/casadocarlos/matriculas/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	plateHandler *handlers.PlateHandler,
	sessions *auth.SessionStore,
	authEnabled bool,
) {
	// Edge rate limit in front of the login endpoint; the attempt tracker
	// behind it enforces the real lockout policy.
	rateLimitConfig := middleware.DefaultAuthRateLimit()
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/login", authHandler.Login)

	// Protected routes - bearer session required (unless auth is disabled)
	router.Route("/matriculas", func(r chi.Router) {
		r.Use(auth.RequireSession(sessions, authEnabled))

		r.Get("/", plateHandler.List)
		r.Post("/", plateHandler.Create)
		r.Put("/{id}", plateHandler.Update)
		r.Delete("/{id}", plateHandler.Delete)
		r.Put("/{id}/visto", plateHandler.MarkSeen)
		r.Get("/{id}/historico", plateHandler.History)
	})
}
