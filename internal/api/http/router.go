package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/appeal-router/internal/api/http/handlers"
	"github.com/spec-kit/appeal-router/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Appeals        *handlers.AppealsHandler
	Operators      *handlers.OperatorsHandler
	Sources        *handlers.SourcesHandler
	Leads          *handlers.LeadsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Appeal intake and health stay open;
// administration requires ADMIN, reads require any authenticated operator.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	// intake is called by external source systems
	app.Post("/appeals", cfg.Appeals.Create)

	authed := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authed.Get("/appeals", cfg.Appeals.List)
	authed.Get("/appeals/:id", cfg.Appeals.Get)
	authed.Post("/appeals/:id/resolve", cfg.Appeals.Resolve)

	authed.Get("/operators", cfg.Operators.List)
	authed.Get("/sources", cfg.Sources.List)
	authed.Get("/operator-sources", cfg.Operators.ListAffinities)
	authed.Get("/leads", cfg.Leads.List)
	authed.Get("/leads/:id", cfg.Leads.Get)

	admin := authed.Group("", auth.RequireAdmin())
	admin.Post("/operators", cfg.Operators.Create)
	admin.Patch("/operators/:id", cfg.Operators.Update)
	admin.Post("/sources", cfg.Sources.Create)
	admin.Post("/operator-sources", cfg.Operators.SetAffinity)
}
