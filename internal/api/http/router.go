package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/staff-registry/internal/api/http/handlers"
	"github.com/spec-kit/staff-registry/internal/auth"
	"github.com/spec-kit/staff-registry/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Reference      *handlers.ReferenceHandler
	Staff          *handlers.StaffHandler
	Assignments    *handlers.AssignmentHandler
	Export         *handlers.ExportHandler
	Auth           *handlers.AuthHandler
	Devices        *handlers.DeviceHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/healthz", cfg.Health.Live)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Get("/roles", cfg.Reference.ListRoles)
	app.Get("/locations", cfg.Reference.ListLocations)
	app.Get("/staff", cfg.Staff.OnSite)

	app.Post("/admin/login", cfg.Auth.Login)

	protected := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAdmin()}

	admin := app.Group("/admin", protected...)
	admin.Get("/staff", cfg.Staff.List)
	admin.Get("/staff/export.csv", cfg.Export.CSV)
	admin.Get("/staff/export.xlsx", cfg.Export.XLSX)
	admin.Post("/staff", cfg.Staff.Create)
	admin.Get("/staff/:id", cfg.Staff.Get)
	admin.Put("/staff/:id", cfg.Staff.Update)
	admin.Delete("/staff/:id", cfg.Staff.Delete)
	admin.Post("/staff/:id/end", cfg.Staff.End)
	admin.Post("/staff/:id/reactivate", cfg.Staff.Reactivate)
	admin.Get("/staff/:id/assignments", cfg.Assignments.List)
	admin.Post("/staff/:id/assignments", cfg.Assignments.Assign)
	admin.Post("/staff/:id/assignments/:assignmentID/end", cfg.Assignments.End)

	api := app.Group("/api", protected...)
	api.Post("/devices", cfg.Devices.Register)
}
