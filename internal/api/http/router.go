package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/api/http/handlers"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/auth"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Contracts      *handlers.ContractsHandler
	Divisions      *handlers.DivisionsHandler
	Notifications  *handlers.NotificationsHandler
	Settings       *handlers.SettingsHandler
	Reminders      *handlers.RemindersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("", cfg.AuthMiddleware.Handle)
	api.Get("/auth/me", cfg.Auth.Me)

	admin := auth.RequireRole(domain.UserRoleAdmin)
	editor := auth.RequireRole(domain.UserRoleAdmin, domain.UserRoleLegal)

	api.Post("/users", admin, cfg.Auth.CreateUser)

	api.Get("/divisions", cfg.Divisions.List)
	api.Post("/divisions", admin, cfg.Divisions.Create)
	api.Patch("/divisions/:id", admin, cfg.Divisions.Update)

	api.Get("/contracts", cfg.Contracts.List)
	api.Post("/contracts", editor, cfg.Contracts.Create)
	api.Get("/contracts/:id", cfg.Contracts.Get)
	api.Patch("/contracts/:id", editor, cfg.Contracts.Update)
	api.Post("/contracts/:id/terminate", editor, cfg.Contracts.Terminate)

	api.Get("/notifications", cfg.Notifications.List)
	api.Get("/notifications/unread-count", cfg.Notifications.UnreadCount)
	api.Post("/notifications/read-all", cfg.Notifications.MarkAllRead)
	api.Post("/notifications/:id/read", cfg.Notifications.MarkRead)

	api.Get("/settings", admin, cfg.Settings.List)
	api.Put("/settings/:key", admin, cfg.Settings.Put)

	api.Post("/reminders/run", admin, cfg.Reminders.Run)
}
