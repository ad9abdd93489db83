package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shift-roster/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Metrics   *handlers.MetricsHandler
	Schedules *handlers.SchedulesHandler
	Sessions  *handlers.SessionsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Get)

	schedules := app.Group("/schedules")
	schedules.Post("/solve", cfg.Schedules.Solve)
	schedules.Post("/enumerate", cfg.Schedules.Enumerate)

	sessions := app.Group("/sessions")
	sessions.Post("", cfg.Sessions.Create)
	sessions.Get("/:id", cfg.Sessions.Get)
	sessions.Post("/:id/employees", cfg.Sessions.AddEmployee)
	sessions.Post("/:id/rebuild", cfg.Sessions.Rebuild)
	sessions.Post("/:id/solve", cfg.Sessions.Solve)
	sessions.Post("/:id/enumerate", cfg.Sessions.Enumerate)
}
