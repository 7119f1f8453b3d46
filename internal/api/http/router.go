package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/staff-service/internal/api/http/handlers"
	"github.com/spec-kit/staff-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Users    *handlers.UsersHandler
	Teams    *handlers.TeamsHandler
	Roles    *handlers.RolesHandler
	Absences *handlers.AbsencesHandler
	Metrics  *observability.Metrics
}

// NewApp builds the fiber app. Handlers keep path and query values past the
// request, so fiber must hand out copies instead of views into its buffers.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{AppName: name, Immutable: true})
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api/v1")

	users := api.Group("/users")
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)
	users.Post("/:id/roles/:roleId", cfg.Users.AssignRole)
	users.Delete("/:id/roles/:roleId", cfg.Users.UnassignRole)
	users.Post("/:id/avatar-upload", cfg.Users.AvatarUpload)

	teams := api.Group("/teams")
	teams.Get("/", cfg.Teams.List)
	teams.Post("/", cfg.Teams.Create)
	teams.Put("/:id", cfg.Teams.Update)
	teams.Delete("/:id", cfg.Teams.Delete)
	teams.Post("/:id/members/:userId", cfg.Teams.AddMember)
	teams.Delete("/:id/members/:userId", cfg.Teams.RemoveMember)

	roles := api.Group("/roles")
	roles.Get("/", cfg.Roles.List)
	roles.Post("/", cfg.Roles.Create)
	roles.Put("/:id", cfg.Roles.Update)
	roles.Delete("/:id", cfg.Roles.Delete)

	absences := api.Group("/absences")
	absences.Get("/", cfg.Absences.List)
	absences.Post("/", cfg.Absences.Create)
	absences.Put("/:id", cfg.Absences.Update)
	absences.Delete("/:id", cfg.Absences.Delete)

	types := api.Group("/absence-types")
	types.Get("/", cfg.Absences.ListTypes)
	types.Post("/", cfg.Absences.CreateType)
	types.Put("/:id", cfg.Absences.UpdateType)
	types.Delete("/:id", cfg.Absences.DeleteType)
}
