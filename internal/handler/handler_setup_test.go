package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/unilancer-labs/unilancer-api/internal/config"
	"github.com/unilancer-labs/unilancer-api/internal/handler"
	"github.com/unilancer-labs/unilancer-api/internal/models"
	"github.com/unilancer-labs/unilancer-api/internal/repository"
	"github.com/unilancer-labs/unilancer-api/internal/router"
	"github.com/unilancer-labs/unilancer-api/internal/service"
	"github.com/unilancer-labs/unilancer-api/pkg/challenge"
	"github.com/unilancer-labs/unilancer-api/pkg/retry"
)

type openGateStub struct{}

func (openGateStub) ValidateSubmission(_ context.Context, _, _, _ string, _ float64) service.GateDecision {
	return service.GateDecision{Valid: true, Score: 0.9, Reason: service.ReasonAccepted}
}

func (openGateStub) ValidateWithProvider(_ context.Context, _ challenge.TokenProvider, _, _ string, _ float64) service.GateDecision {
	return service.GateDecision{Valid: true, Score: 0.9, Reason: service.ReasonAccepted}
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.FreelancerApplication{},
		&models.ProjectRequest{},
		&models.ProjectAssignment{},
		&models.AdminNote{},
		&models.ActivityLog{},
		&models.ContactMessage{},
		&models.NewsletterSubscription{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	applicationRepo := repository.NewApplicationRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	contactRepo := repository.NewContactRepository(db)
	newsletterRepo := repository.NewNewsletterRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	gate := openGateStub{}
	notifier := service.NewLogNotifier(logger)
	delivery := service.NewLogContactDelivery(logger)

	intakeService := service.NewIntakeService(applicationRepo, requestRepo, activityRepo, gate, notifier, nil, validate, service.IntakeConfig{
		RetryPolicy: retry.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, Multiplier: 2},
	}, logger)
	contactService := service.NewContactService(contactRepo, gate, nil, validate, delivery, 0.2, logger)
	newsletterService := service.NewNewsletterService(newsletterRepo, validate, logger)
	recordService := service.NewRecordService(applicationRepo, requestRepo, logger)
	lifecycleService := service.NewLifecycleService(applicationRepo, requestRepo, activityRepo, notifier, validate, logger)
	annotationService := service.NewAnnotationService(noteRepo, activityRepo, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, applicationRepo, requestRepo, activityRepo, nil, validate, logger)
	analyticsService := service.NewAnalyticsService(analyticsRepo, newsletterRepo, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret"}, router.Dependencies{
		IntakeHandler:      handler.NewIntakeHandler(intakeService, logger),
		ContactHandler:     handler.NewContactHandler(contactService, newsletterService, logger),
		ApplicationHandler: handler.NewAdminRecordHandler(models.KindApplication, recordService, lifecycleService, logger),
		RequestHandler:     handler.NewAdminRecordHandler(models.KindRequest, recordService, lifecycleService, logger),
		ApplicationNotes:   handler.NewNoteHandler(models.KindApplication, annotationService, logger),
		RequestNotes:       handler.NewNoteHandler(models.KindRequest, annotationService, logger),
		ActivityHandler:    handler.NewActivityHandler(annotationService, logger),
		AssignmentHandler:  handler.NewAssignmentHandler(assignmentService, logger),
		AnalyticsHandler:   handler.NewAdminAnalyticsHandler(analyticsService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			c.Locals("user_id", uint(1))
			c.Locals("user_role", "admin")
			c.Locals("actor", "admin@test.local")
			return c.Next()
		},
	})

	return app, db
}

func performJSON(t *testing.T, app *fiber.App, method, target string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.NoError(t, resp.Body.Close())
	return decoded
}
