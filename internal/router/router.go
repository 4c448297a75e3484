package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yxngashy/studietid/internal/config"
	"github.com/yxngashy/studietid/internal/handler"
	"github.com/yxngashy/studietid/internal/middleware"
	"github.com/yxngashy/studietid/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler        *handler.AuthHandler
	UserHandler        *handler.UserHandler
	ActivityHandler    *handler.ActivityHandler
	AdminHandler       *handler.AdminHandler
	IdentityMiddleware fiber.Handler
	LoginLimiter       fiber.Handler
}

// Register wires the HTTP routes into the fiber application. The route
// paths mirror the legacy surface; gates are applied per path prefix so
// the policy is declared in exactly one place.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	if deps.IdentityMiddleware != nil {
		app.Use(deps.IdentityMiddleware)
	}

	app.Get("/", handler.Landing(cfg))
	app.Get("/healthz", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	requireUser := middleware.RequireUser()
	requireAdmin := middleware.RequireAdmin()

	app.Use("/user", requireUser)
	app.Use("/update-user", requireUser)
	app.Use("/regActivity", requireUser)
	app.Use("/admin", requireAdmin)
	app.Use("/deleteUser", requireAdmin)
	app.Use("/getUser", requireAdmin)

	if deps.LoginLimiter != nil {
		app.Use("/login", deps.LoginLimiter)
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(app)
	}

	if deps.UserHandler != nil {
		deps.UserHandler.RegisterOpen(app)
		deps.UserHandler.RegisterUser(app)
		deps.UserHandler.RegisterAdmin(app)
	}

	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(app)
	}

	if deps.AdminHandler != nil {
		deps.AdminHandler.Register(app)
	}
}
