package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/unilancer-labs/unilancer-api/internal/dto"
	"github.com/unilancer-labs/unilancer-api/internal/models"
	"github.com/unilancer-labs/unilancer-api/internal/observability"
	"github.com/unilancer-labs/unilancer-api/internal/repository"
	"github.com/unilancer-labs/unilancer-api/internal/wizard"
	"github.com/unilancer-labs/unilancer-api/pkg/retry"
)

// Action tags the fraud gate scopes tokens to.
const (
	ActionApplication = "freelancer_application"
	ActionRequest     = "project_request"
	ActionContact     = "contact_form"
)

// ErrDuplicateSubmission indicates the same visitor submitted the same form
// within the dedupe window.
var ErrDuplicateSubmission = errors.New("duplicate submission")

// GateRejection is returned when the fraud gate declines a submission. The
// reason is for internal logging; handlers show clients a generic message.
type GateRejection struct {
	Reason string
	Score  float64
}

func (e *GateRejection) Error() string {
	return fmt.Sprintf("submission rejected by fraud gate: %s", e.Reason)
}

// IntakeConfig tunes the submission pipeline. Each form carries its own
// score threshold.
type IntakeConfig struct {
	ApplicationMinScore float64
	RequestMinScore     float64
	RetryPolicy         retry.Policy
	DedupeTTL           time.Duration
}

// IntakeService is the submission pipeline: it re-validates the wizard
// payload server-side, gates it on the fraud score, persists the record with
// bounded retry, and fires a best-effort staff notification.
type IntakeService interface {
	SubmitApplication(ctx context.Context, req dto.ApplicationSubmitRequest, remoteIP string) (dto.IntakeResponse, error)
	SubmitRequest(ctx context.Context, req dto.RequestSubmitRequest, remoteIP string) (dto.IntakeResponse, error)
}

type intakeService struct {
	applications repository.ApplicationRepository
	requests     repository.RequestRepository
	activity     repository.ActivityLogRepository
	gate         FraudGate
	notifier     Notifier
	cache        *redis.Client
	validator    *validator.Validate
	config       IntakeConfig
	logger       zerolog.Logger
	tracer       trace.Tracer
}

// NewIntakeService constructs the submission pipeline. cache may be nil to
// disable the dedupe window.
func NewIntakeService(
	applications repository.ApplicationRepository,
	requests repository.RequestRepository,
	activity repository.ActivityLogRepository,
	gate FraudGate,
	notifier Notifier,
	cache *redis.Client,
	validate *validator.Validate,
	config IntakeConfig,
	logger zerolog.Logger,
) IntakeService {
	if config.ApplicationMinScore <= 0 {
		config.ApplicationMinScore = 0.3
	}
	if config.RequestMinScore <= 0 {
		config.RequestMinScore = 0.3
	}
	if config.RetryPolicy.MaxAttempts <= 0 {
		config.RetryPolicy = retry.DefaultPolicy()
	}
	if config.DedupeTTL <= 0 {
		config.DedupeTTL = 5 * time.Minute
	}

	return &intakeService{
		applications: applications,
		requests:     requests,
		activity:     activity,
		gate:         gate,
		notifier:     notifier,
		cache:        cache,
		validator:    validate,
		config:       config,
		logger:       logger.With().Str("component", "intake_service").Logger(),
		tracer:       otel.Tracer("github.com/unilancer-labs/unilancer-api/internal/service/intake"),
	}
}

func (s *intakeService) SubmitApplication(ctx context.Context, req dto.ApplicationSubmitRequest, remoteIP string) (dto.IntakeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "intake.submit_application")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		observability.IntakeSubmissions().WithLabelValues(string(models.KindApplication), "invalid").Inc()
		return dto.IntakeResponse{}, err
	}

	score, err := s.admit(ctx, span, models.KindApplication, ActionApplication, req.FormData(), wizard.FreelancerSteps(), req.ChallengeToken, req.Email, remoteIP)
	if err != nil {
		return dto.IntakeResponse{}, err
	}

	record := models.FreelancerApplication{
		ReferenceID:  uuid.NewString(),
		Status:       models.StatusPending,
		FullName:     strings.TrimSpace(req.FullName),
		Email:        normalizeEmail(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Categories:   datatypes.NewJSONSlice(req.Categories),
		Expertise:    datatypes.NewJSONSlice(req.Expertise),
		About:        strings.TrimSpace(req.About),
		PortfolioURL: strings.TrimSpace(req.PortfolioURL),
		FraudScore:   score,
	}

	err = retry.Do(ctx, s.config.RetryPolicy, func(ctx context.Context) error {
		return s.applications.Create(ctx, &record)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		observability.IntakeSubmissions().WithLabelValues(string(models.KindApplication), "error").Inc()
		return dto.IntakeResponse{}, err
	}

	s.afterCreate(ctx, models.KindApplication, record.ID, record.ReferenceID, record.Email, record.FullName)

	return dto.IntakeResponse{ReferenceID: record.ReferenceID, Status: record.Status, FraudScore: score}, nil
}

func (s *intakeService) SubmitRequest(ctx context.Context, req dto.RequestSubmitRequest, remoteIP string) (dto.IntakeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "intake.submit_request")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		observability.IntakeSubmissions().WithLabelValues(string(models.KindRequest), "invalid").Inc()
		return dto.IntakeResponse{}, err
	}

	score, err := s.admit(ctx, span, models.KindRequest, ActionRequest, req.FormData(), wizard.RequestSteps(), req.ChallengeToken, req.Email, remoteIP)
	if err != nil {
		return dto.IntakeResponse{}, err
	}

	record := models.ProjectRequest{
		ReferenceID: uuid.NewString(),
		Status:      models.StatusPending,
		ContactName: strings.TrimSpace(req.ContactName),
		Email:       normalizeEmail(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Company:     strings.TrimSpace(req.Company),
		Services:    datatypes.NewJSONSlice(req.Services),
		Budget:      strings.TrimSpace(req.Budget),
		Timeline:    strings.TrimSpace(req.Timeline),
		Description: strings.TrimSpace(req.Description),
		BriefURL:    strings.TrimSpace(req.BriefURL),
		FraudScore:  score,
	}

	err = retry.Do(ctx, s.config.RetryPolicy, func(ctx context.Context) error {
		return s.requests.Create(ctx, &record)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		observability.IntakeSubmissions().WithLabelValues(string(models.KindRequest), "error").Inc()
		return dto.IntakeResponse{}, err
	}

	s.afterCreate(ctx, models.KindRequest, record.ID, record.ReferenceID, record.Email, record.ContactName)

	return dto.IntakeResponse{ReferenceID: record.ReferenceID, Status: record.Status, FraudScore: score}, nil
}

// admit runs the pre-write pipeline stages: structural validation, the
// wizard rule tables (the same tables that gate UI navigation), the dedupe
// window, and the fraud gate. Validation failures short-circuit before the
// retry loop since retrying cannot fix a structurally invalid payload.
func (s *intakeService) admit(ctx context.Context, span trace.Span, kind models.RecordKind, action string, data wizard.FormData, steps []wizard.Step, token, email, remoteIP string) (float64, error) {
	for i, step := range steps {
		if stepErr := step.Validate(i+1, data); stepErr != nil {
			span.SetStatus(codes.Error, "validation failed")
			observability.IntakeSubmissions().WithLabelValues(string(kind), "invalid").Inc()
			return 0, stepErr
		}
	}

	if s.cache != nil {
		key := fmt.Sprintf("intake:dedupe:%s:%s", kind, checksum(email))
		fresh, err := s.cache.SetNX(ctx, key, 1, s.config.DedupeTTL).Result()
		if err != nil {
			// The dedupe window is advisory; a cache outage never blocks intake.
			s.logger.Warn().Err(err).Msg("dedupe window unavailable")
		} else if !fresh {
			span.SetStatus(codes.Error, "duplicate submission")
			observability.IntakeSubmissions().WithLabelValues(string(kind), "duplicate").Inc()
			return 0, ErrDuplicateSubmission
		}
	}

	minScore := s.config.ApplicationMinScore
	if kind == models.KindRequest {
		minScore = s.config.RequestMinScore
	}
	decision := s.gate.ValidateSubmission(ctx, token, action, remoteIP, minScore)
	span.SetAttributes(attribute.Float64("intake.fraud_score", decision.Score))
	if !decision.Valid {
		observability.IntakeSubmissions().WithLabelValues(string(kind), "rejected").Inc()
		return 0, &GateRejection{Reason: decision.Reason, Score: decision.Score}
	}

	return decision.Score, nil
}

// afterCreate runs the best-effort post-write side effects. Neither the
// activity entry nor the staff notification can fail the submission; the
// record's existence does not depend on them.
func (s *intakeService) afterCreate(ctx context.Context, kind models.RecordKind, id uint, referenceID, email, name string) {
	entry := models.ActivityLog{
		RecordKind: kind,
		RecordID:   id,
		Actor:      "system",
		Action:     "submitted",
		Metadata:   datatypes.JSONMap{"reference_id": referenceID},
	}
	if err := s.activity.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Str("reference_id", referenceID).Msg("failed to record submission activity")
	}

	event := NotificationEvent{
		Kind:        kind,
		RecordID:    id,
		ReferenceID: referenceID,
		Status:      models.StatusPending,
		Email:       email,
		Name:        name,
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		observability.Notifications().WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Str("reference_id", referenceID).Msg("staff notification failed")
	} else {
		observability.Notifications().WithLabelValues("sent").Inc()
	}

	observability.IntakeSubmissions().WithLabelValues(string(kind), "created").Inc()
	s.logger.Info().
		Str("kind", string(kind)).
		Str("reference_id", referenceID).
		Str("email", maskEmail(email)).
		Msg("intake record created")
}

func checksum(parts ...string) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(strings.TrimSpace(strings.ToLower(part))))
		hasher.Write([]byte("|"))
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
