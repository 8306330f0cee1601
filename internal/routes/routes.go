package routes

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scholarspace/user-service/internal/auth"
	"github.com/scholarspace/user-service/internal/handlers"
	"github.com/scholarspace/user-service/internal/middleware"
	"github.com/scholarspace/user-service/internal/models"
)

// Register wires all application routes.
func Register(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	tokenManager *auth.TokenManager,
	users auth.UserFetcher,
	logger *slog.Logger,
) {
	rateLimit := middleware.RateLimitByIP(middleware.DefaultAuthRateLimit())

	// Public auth endpoints, rate limited per client IP.
	router.Group(func(r chi.Router) {
		r.Use(rateLimit)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/login-ad", authHandler.LoginDirectory)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/forgot-password", authHandler.ForgotPassword)
		r.Post("/auth/reset-password", authHandler.ResetPassword)
		r.Get("/auth/validate-reset-token", authHandler.ValidateResetToken)
	})

	// Everything below passes through the authentication filter. The filter
	// never rejects on its own; the authorization middlewares gate access.
	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(tokenManager, users, logger))

		// Any authenticated user.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuthenticated)
			r.Get("/api/users/profile", userHandler.Profile)
			r.Put("/api/users/profile", userHandler.UpdateProfile)
			r.Put("/api/users/change-password", userHandler.ChangePassword)
		})

		// Instructors and admins can look up individual accounts.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuthority(models.RoleAdmin.Authority(), models.RoleInstructor.Authority()))
			r.Get("/api/users/{id}", userHandler.Get)
		})

		// Admin-only account management and analytics surface.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuthority(models.RoleAdmin.Authority()))
			r.Get("/api/users", userHandler.List)
			r.Get("/api/users/role/{role}", userHandler.ListByRole)
			r.Put("/api/users/{id}", userHandler.Update)
			r.Put("/api/users/{id}/activate", userHandler.Activate)
			r.Put("/api/users/{id}/deactivate", userHandler.Deactivate)
			r.Get("/api/analytics/users/by-role", analyticsHandler.UsersByRole)
			r.Get("/api/analytics/users/trends", analyticsHandler.Trends)
		})
	})
}

// RegisterHealth wires the liveness endpoint; it stays outside auth and
// rate limiting.
func RegisterHealth(router chi.Router, check func(ctx context.Context) error) {
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := check(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	})
}
