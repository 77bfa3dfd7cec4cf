package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/unilancer-labs/unilancer-api/internal/config"
	"github.com/unilancer-labs/unilancer-api/internal/handler"
	"github.com/unilancer-labs/unilancer-api/internal/middleware"
	"github.com/unilancer-labs/unilancer-api/internal/models"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	IntakeHandler      *handler.IntakeHandler
	ContactHandler     *handler.ContactHandler
	ApplicationHandler *handler.AdminRecordHandler
	RequestHandler     *handler.AdminRecordHandler
	ApplicationNotes   *handler.NoteHandler
	RequestNotes       *handler.NoteHandler
	ActivityHandler    *handler.ActivityHandler
	AssignmentHandler  *handler.AssignmentHandler
	AnalyticsHandler   *handler.AdminAnalyticsHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Public intake surface; rate limited per client IP.
	publicLimit := middleware.RateLimit("public", 20, time.Minute)
	if deps.IntakeHandler != nil {
		deps.IntakeHandler.Register(api.Group("", publicLimit))
	}
	if deps.ContactHandler != nil {
		deps.ContactHandler.Register(api.Group("", publicLimit))
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole("admin", "manager"))

	if deps.ApplicationHandler != nil {
		applications := admin.Group("/applications")
		deps.ApplicationHandler.Register(applications)
		if deps.ApplicationNotes != nil {
			deps.ApplicationNotes.Register(applications)
		}
		if deps.ActivityHandler != nil {
			deps.ActivityHandler.RegisterForKind(applications, models.KindApplication)
		}
	}

	if deps.RequestHandler != nil {
		requests := admin.Group("/requests")
		deps.RequestHandler.Register(requests)
		if deps.RequestNotes != nil {
			deps.RequestNotes.Register(requests)
		}
		if deps.ActivityHandler != nil {
			deps.ActivityHandler.RegisterForKind(requests, models.KindRequest)
		}
		if deps.AssignmentHandler != nil {
			deps.AssignmentHandler.Register(requests)
		}
	}

	if deps.ActivityHandler != nil {
		deps.ActivityHandler.RegisterGlobal(admin)
	}

	if deps.AnalyticsHandler != nil {
		deps.AnalyticsHandler.Register(admin.Group("/analytics"))
	}
}
