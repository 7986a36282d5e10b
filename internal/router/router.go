package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/moonbase-api/internal/config"
	"github.com/noah-isme/moonbase-api/internal/handler"
	"github.com/noah-isme/moonbase-api/internal/middleware"
	"github.com/noah-isme/moonbase-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	ClassroomHandler  *handler.ClassroomHandler
	ExerciseHandler   *handler.ExerciseHandler
	TestCaseHandler   *handler.TestCaseHandler
	SubmissionHandler *handler.SubmissionHandler
	ActivityHandler   *handler.ActivityHandler
	JWTMiddleware     fiber.Handler
	HealthProbes      []handler.HealthProbe
	// LoginLimiter overrides the login rate limiter built from cfg.
	LoginLimiter fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes...))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		limiter := deps.LoginLimiter
		if limiter == nil {
			limiter = middleware.RateLimit("login", cfg.LoginRateLimit, cfg.LoginRateWindow)
		}
		deps.AuthHandler.Register(api.Group("/auth"), jwtMiddleware, limiter)
	}

	classrooms := api.Group("/classrooms", jwtMiddleware)
	if deps.ClassroomHandler != nil {
		deps.ClassroomHandler.Register(classrooms)
	}

	exercises := api.Group("/exercises", jwtMiddleware)
	if deps.ExerciseHandler != nil {
		deps.ExerciseHandler.RegisterClassroomRoutes(classrooms)
		deps.ExerciseHandler.Register(exercises)
	}

	if deps.TestCaseHandler != nil {
		deps.TestCaseHandler.RegisterExerciseRoutes(exercises)
		deps.TestCaseHandler.Register(api.Group("/tests", jwtMiddleware))
	}

	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.RegisterExerciseRoutes(exercises)
		deps.SubmissionHandler.Register(api.Group("/submissions", jwtMiddleware))
	}

	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(api.Group("/activity", jwtMiddleware))
	}
}
