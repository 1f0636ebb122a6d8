package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/moveright/assessadmin-api/internal/config"
	"github.com/moveright/assessadmin-api/internal/handler"
	"github.com/moveright/assessadmin-api/internal/middleware"
	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/observability"
	"github.com/moveright/assessadmin-api/internal/service"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	CountryHandler    *handler.CountryHandler
	RegionHandler     *handler.RegionHandler
	SchoolHandler     *handler.SchoolHandler
	ClassHandler      *handler.ClassHandler
	StudentHandler    *handler.StudentHandler
	AssessmentHandler *handler.AssessmentHandler
	TaskHandler       *handler.TaskHandler
	PermissionHandler *handler.PermissionHandler
	TrainingHandler   *handler.TrainingHandler
	DashboardHandler  *handler.DashboardHandler
	SeedHandler       *handler.SeedHandler
	PermissionService service.PermissionService
	JWTMiddleware     fiber.Handler
	LoginRateLimit    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		if deps.LoginRateLimit != nil {
			auth.Use(deps.LoginRateLimit)
		}
		deps.AuthHandler.Register(auth)
		deps.AuthHandler.RegisterProtected(api.Group("/auth", jwtMiddleware))
	}

	gate := func(module, action string) fiber.Handler {
		if deps.PermissionService == nil {
			return func(c *fiber.Ctx) error { return c.Next() }
		}
		return middleware.RequirePermission(deps.PermissionService, module, action)
	}

	if deps.UserHandler != nil {
		deps.UserHandler.Register(api.Group("/users", jwtMiddleware))
	}
	if deps.CountryHandler != nil {
		deps.CountryHandler.Register(api.Group("/countries", jwtMiddleware, gate("Country", "manage")))
	}
	if deps.RegionHandler != nil {
		deps.RegionHandler.Register(api.Group("/regions", jwtMiddleware, gate("State", "manage")))
	}
	if deps.SchoolHandler != nil {
		deps.SchoolHandler.Register(api.Group("/schools", jwtMiddleware, gate("School", "manage")))
	}
	if deps.ClassHandler != nil {
		deps.ClassHandler.Register(api.Group("/classes", jwtMiddleware, gate("Class", "manage")))
	}
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api.Group("/students", jwtMiddleware, gate("Student", "manage")))
	}
	if deps.AssessmentHandler != nil {
		deps.AssessmentHandler.Register(api.Group("/assessments", jwtMiddleware))
	}
	if deps.TaskHandler != nil {
		deps.TaskHandler.Register(api.Group("/tasks", jwtMiddleware))
	}
	if deps.PermissionHandler != nil {
		deps.PermissionHandler.Register(api.Group("/permissions", jwtMiddleware, middleware.RequireMinRank(models.RoleAdmin)))
	}
	if deps.TrainingHandler != nil {
		deps.TrainingHandler.Register(api.Group("/trainings", jwtMiddleware))
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(api.Group("/dashboard", jwtMiddleware))
	}
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(api.Group("/seed"))
	}
}
