package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/unilancer-labs/unilancer-api/internal/config"
	"github.com/unilancer-labs/unilancer-api/internal/database"
	"github.com/unilancer-labs/unilancer-api/internal/handler"
	"github.com/unilancer-labs/unilancer-api/internal/middleware"
	"github.com/unilancer-labs/unilancer-api/internal/models"
	"github.com/unilancer-labs/unilancer-api/internal/observability"
	"github.com/unilancer-labs/unilancer-api/internal/repository"
	"github.com/unilancer-labs/unilancer-api/internal/router"
	"github.com/unilancer-labs/unilancer-api/internal/service"
	"github.com/unilancer-labs/unilancer-api/pkg/challenge"
	"github.com/unilancer-labs/unilancer-api/pkg/retry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.FreelancerApplication{},
		&models.ProjectRequest{},
		&models.ProjectAssignment{},
		&models.AdminNote{},
		&models.ActivityLog{},
		&models.ContactMessage{},
		&models.NewsletterSubscription{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable; notifications fall back to log output")
			natsConn = nil
		} else {
			defer natsConn.Close()
		}
	}

	verifier, err := challenge.NewHTTPVerifier(challenge.Config{
		VerifyURL: cfg.ChallengeVerifyURL,
		Secret:    cfg.ChallengeSecret,
		Timeout:   cfg.ChallengeTimeout,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create challenge verifier: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	applicationRepo := repository.NewApplicationRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	contactRepo := repository.NewContactRepository(db)
	newsletterRepo := repository.NewNewsletterRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	gate := service.NewFraudGate(verifier, redisClient, cfg.ChallengeTimeout, logger)

	var notifier service.Notifier
	var contactDelivery service.ContactDelivery
	if natsConn != nil {
		notifier = service.NewBrokerNotifier(redisClient, cfg.NotifyRedisChannel, natsConn, cfg.NotifyNATSSubject, logger)
		contactDelivery = service.NewNATSContactDelivery(natsConn, cfg.ContactNATSSubject, logger)
	} else {
		notifier = service.NewLogNotifier(logger)
		contactDelivery = service.NewLogContactDelivery(logger)
	}

	intakeService := service.NewIntakeService(
		applicationRepo, requestRepo, activityRepo, gate, notifier, redisClient, validate,
		service.IntakeConfig{
			ApplicationMinScore: cfg.ApplicationScore,
			RequestMinScore:     cfg.RequestScore,
			RetryPolicy: retry.Policy{
				MaxAttempts: cfg.SubmitMaxAttempts,
				BaseDelay:   cfg.SubmitBaseDelay,
				Multiplier:  2,
			},
			DedupeTTL: cfg.DedupeTTL,
		},
		logger,
	)
	recordService := service.NewRecordService(applicationRepo, requestRepo, logger)
	lifecycleService := service.NewLifecycleService(applicationRepo, requestRepo, activityRepo, notifier, validate, logger)
	annotationService := service.NewAnnotationService(noteRepo, activityRepo, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, applicationRepo, requestRepo, activityRepo, redisClient, validate, logger)
	contactService := service.NewContactService(contactRepo, gate, redisClient, validate, contactDelivery, cfg.ContactScore, logger)
	newsletterService := service.NewNewsletterService(newsletterRepo, validate, logger)
	analyticsService := service.NewAnalyticsService(analyticsRepo, newsletterRepo, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSOrigins})
	app.Get("/metrics", observability.MetricsHandler())

	router.Register(app, cfg, router.Dependencies{
		IntakeHandler:      handler.NewIntakeHandler(intakeService, logger),
		ContactHandler:     handler.NewContactHandler(contactService, newsletterService, logger),
		ApplicationHandler: handler.NewAdminRecordHandler(models.KindApplication, recordService, lifecycleService, logger),
		RequestHandler:     handler.NewAdminRecordHandler(models.KindRequest, recordService, lifecycleService, logger),
		ApplicationNotes:   handler.NewNoteHandler(models.KindApplication, annotationService, logger),
		RequestNotes:       handler.NewNoteHandler(models.KindRequest, annotationService, logger),
		ActivityHandler:    handler.NewActivityHandler(annotationService, logger),
		AssignmentHandler:  handler.NewAssignmentHandler(assignmentService, logger),
		AnalyticsHandler:   handler.NewAdminAnalyticsHandler(analyticsService, logger),
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
