package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/dextersy/label-dashboard/internal/auth"
	"github.com/dextersy/label-dashboard/internal/handlers"
	"github.com/dextersy/label-dashboard/internal/middleware"
	"github.com/dextersy/label-dashboard/internal/repositories"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	systemAuthHandler *handlers.SystemAuthHandler,
	userHandler *handlers.UserHandler,
	brandHandler *handlers.BrandHandler,
	songwriterHandler *handlers.SongwriterHandler,
	ticketTypeHandler *handlers.TicketTypeHandler,
	tokenManager *auth.TokenManager,
	userRepo *repositories.UserRepository,
) {
	loginRateLimit := middleware.DefaultLoginRateLimit()

	// Public routes - no authentication required
	router.With(middleware.RateLimitByIP(loginRateLimit)).Post("/system/login", systemAuthHandler.Login)
	router.Post("/users/setup-profile", userHandler.SetupProfile)
	router.With(middleware.RateLimitByIP(loginRateLimit)).Post("/users/forgot-password", userHandler.ForgotPassword)
	router.Post("/users/reset-password", userHandler.ResetPassword)

	// Storefront brand resolution, used before any session exists
	router.Get("/brands/by-domain", brandHandler.GetByDomain)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(tokenManager))

		r.Put("/users/password", userHandler.ChangePassword)

		// System console session endpoints
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSystemUser(userRepo))
			r.Get("/system/check-auth", systemAuthHandler.CheckAuth)
			r.Post("/system/refresh", systemAuthHandler.Refresh)
		})

		// Brand-scoped resources. Tenant callers are pinned to their own
		// brand; system callers reach every brand.
		r.Route("/brands/{brandID}", func(r chi.Router) {
			r.Use(auth.RequireBrandAccess())

			r.Get("/", brandHandler.Get)
			r.Get("/songwriters", songwriterHandler.List)
			r.Get("/songwriters/{id}", songwriterHandler.Get)
			r.Get("/ticket-types", ticketTypeHandler.List)
			r.Get("/ticket-types/{id}", ticketTypeHandler.Get)

			// Mutations and brand management require the admin flag
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin(userRepo))

				r.Post("/songwriters", songwriterHandler.Create)
				r.Put("/songwriters/{id}", songwriterHandler.Update)
				r.Delete("/songwriters/{id}", songwriterHandler.Delete)

				r.Post("/ticket-types", ticketTypeHandler.Create)
				r.Put("/ticket-types/{id}", ticketTypeHandler.Update)
				r.Delete("/ticket-types/{id}", ticketTypeHandler.Delete)

				r.Get("/users", userHandler.List)
				r.Get("/email-logs", brandHandler.ListEmailLogs)
				r.Put("/custom-domain", brandHandler.SetCustomDomain)
				r.Post("/verify-domain", brandHandler.VerifyDomain)
			})
		})

		// System-only account administration
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSystemUser(userRepo))
			r.Post("/users/invite", userHandler.Invite)
		})
	})
}
