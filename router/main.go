package router

import (
	"time"

	"github.com/JoshCrouch/uq-program-planner/handlers"
	course_handlers "github.com/JoshCrouch/uq-program-planner/handlers/course"
	program_handlers "github.com/JoshCrouch/uq-program-planner/handlers/program"
	"github.com/JoshCrouch/uq-program-planner/utils/auth"
	"github.com/JoshCrouch/uq-program-planner/utils/middleware"
	"github.com/gofiber/fiber/v2"
)

// Dependencies are the services the routes are served from.
type Dependencies struct {
	Health         handlers.HealthChecker
	Catalog        course_handlers.Catalog
	Programs       program_handlers.Programs
	Cache          course_handlers.CacheInvalidator
	JWTManager     *auth.JWTManager
	AllowedOrigins string
	DisableLogger  bool
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    deps.AllowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
		DisableLogger:     deps.DisableLogger,
	})

	authMiddleware := middleware.NewAuthMiddleware(deps.JWTManager)
	curatorOnly := []fiber.Handler{authMiddleware.Required(), middleware.RequireRole(auth.RoleCurator)}

	courseHandler := course_handlers.NewCourseHandler(deps.Catalog, deps.Cache)
	programHandler := program_handlers.NewProgramHandler(deps.Programs)

	// Health check endpoint (public)
	app.Get("/health", handlers.HandleCheckHealth(deps.Health))

	// Enrichment endpoint consumed by the course lookup client
	app.Get("/api/course/:code", courseHandler.LookupCourse)

	api := app.Group("/api/v1")

	// Catalog routes
	courses := api.Group("/courses")
	courses.Get("/", courseHandler.ListCourses)
	courses.Get("/:code", courseHandler.GetCourse)
	courses.Post("/", append(curatorOnly, courseHandler.CreateCourse)...)
	courses.Put("/:code", append(curatorOnly, courseHandler.UpdateCourse)...)
	courses.Delete("/:code", append(curatorOnly, courseHandler.DeleteCourse)...)

	// Program routes
	programs := api.Group("/programs")
	programs.Post("/resolve", programHandler.ResolveProgram)
	programs.Get("/", programHandler.ListPrograms)
	programs.Post("/", programHandler.CreateProgram)
	programs.Get("/:id", programHandler.GetProgram)
	programs.Delete("/:id", programHandler.DeleteProgram)
	programs.Post("/:id/components", programHandler.AddComponent)
}
