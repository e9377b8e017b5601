package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lms-go-api/internal/config"
	"github.com/noah-isme/lms-go-api/internal/handler"
	"github.com/noah-isme/lms-go-api/internal/middleware"
	"github.com/noah-isme/lms-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	CategoryHandler   *handler.CategoryHandler
	CourseHandler     *handler.CourseHandler
	LessonHandler     *handler.LessonHandler
	MaterialHandler   *handler.MaterialHandler
	EnrollmentHandler *handler.EnrollmentHandler
	QuestionHandler   *handler.QuestionHandler
	DashboardHandler  *handler.DashboardHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	if deps.CategoryHandler != nil {
		deps.CategoryHandler.Register(api.Group("/categories"))
	}

	if deps.CourseHandler != nil {
		courses := api.Group("/courses")
		deps.CourseHandler.Register(courses)

		if deps.LessonHandler != nil {
			deps.LessonHandler.Register(courses.Group("/:course_id/lessons"))
		}
		if deps.MaterialHandler != nil {
			deps.MaterialHandler.Register(courses.Group("/:course_id/materials"))
		}
	}

	if deps.EnrollmentHandler != nil {
		deps.EnrollmentHandler.Register(api.Group("/enrollments"))
	}

	if deps.QuestionHandler != nil {
		deps.QuestionHandler.Register(api.Group("/lessons/:lesson_id/questions"))
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(api.Group("/dashboard"))
	}
}
