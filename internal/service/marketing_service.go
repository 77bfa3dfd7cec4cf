package service

import (
	"context"
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

	"github.com/unilancer-labs/unilancer-api/internal/dto"
	"github.com/unilancer-labs/unilancer-api/internal/models"
	"github.com/unilancer-labs/unilancer-api/internal/observability"
	"github.com/unilancer-labs/unilancer-api/internal/repository"
)

var (
	// ErrContactSpam indicates the honeypot field was filled.
	ErrContactSpam = errors.New("contact submission flagged as spam")
)

// ContactDelivery defines a transport to deliver contact messages to the
// staff inbox.
type ContactDelivery interface {
	Deliver(ctx context.Context, message models.ContactMessage) error
}

// ContactService exposes the public contact form workflow.
type ContactService interface {
	Submit(ctx context.Context, req dto.ContactRequest, remoteIP string) (dto.ContactResponse, error)
}

type contactService struct {
	repo      repository.ContactRepository
	gate      FraudGate
	cache     *redis.Client
	validator *validator.Validate
	delivery  ContactDelivery
	minScore  float64
	dedupeTTL time.Duration
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewContactService constructs the contact form service. cache may be nil to
// disable the dedupe window; gate may be nil to skip fraud scoring.
func NewContactService(
	repo repository.ContactRepository,
	gate FraudGate,
	cache *redis.Client,
	validate *validator.Validate,
	delivery ContactDelivery,
	minScore float64,
	logger zerolog.Logger,
) ContactService {
	if minScore <= 0 {
		minScore = 0.2
	}
	return &contactService{
		repo:      repo,
		gate:      gate,
		cache:     cache,
		validator: validate,
		delivery:  delivery,
		minScore:  minScore,
		dedupeTTL: 5 * time.Minute,
		logger:    logger.With().Str("component", "contact_service").Logger(),
		tracer:    otel.Tracer("github.com/unilancer-labs/unilancer-api/internal/service/contact"),
	}
}

func (s *contactService) Submit(ctx context.Context, req dto.ContactRequest, remoteIP string) (dto.ContactResponse, error) {
	ctx, span := s.tracer.Start(ctx, "contact.submit")
	defer span.End()

	if req.Honeypot != "" {
		span.SetStatus(codes.Error, "honeypot tripped")
		observability.IntakeSubmissions().WithLabelValues("contact", "spam").Inc()
		return dto.ContactResponse{}, ErrContactSpam
	}

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		observability.IntakeSubmissions().WithLabelValues("contact", "invalid").Inc()
		return dto.ContactResponse{}, err
	}

	sum := checksum(req.Name, req.Email, req.Message)
	span.SetAttributes(attribute.String("contact.checksum", sum))

	if s.cache != nil {
		key := fmt.Sprintf("contact:dedupe:%s", sum)
		ok, err := s.cache.SetNX(ctx, key, 1, s.dedupeTTL).Result()
		if err != nil {
			span.RecordError(err)
			return dto.ContactResponse{}, err
		}
		if !ok {
			span.SetStatus(codes.Error, "duplicate submission")
			observability.IntakeSubmissions().WithLabelValues("contact", "duplicate").Inc()
			return dto.ContactResponse{}, ErrDuplicateSubmission
		}
	}

	var score float64
	if s.gate != nil {
		decision := s.gate.ValidateSubmission(ctx, req.ChallengeToken, ActionContact, remoteIP, s.minScore)
		if !decision.Valid {
			span.SetStatus(codes.Error, "fraud gate rejected")
			observability.IntakeSubmissions().WithLabelValues("contact", "rejected").Inc()
			return dto.ContactResponse{}, &GateRejection{Reason: decision.Reason, Score: decision.Score}
		}
		score = decision.Score
	}

	referenceID := uuid.NewString()
	message := models.ContactMessage{
		ReferenceID: referenceID,
		Name:        strings.TrimSpace(req.Name),
		Email:       normalizeEmail(req.Email),
		Subject:     strings.TrimSpace(req.Subject),
		Message:     strings.TrimSpace(req.Message),
		Status:      "queued",
		Checksum:    sum,
	}

	if err := s.repo.Create(ctx, &message); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		observability.IntakeSubmissions().WithLabelValues("contact", "error").Inc()
		return dto.ContactResponse{}, err
	}

	if err := s.delivery.Deliver(ctx, message); err != nil {
		span.RecordError(err)
		s.logger.Warn().Err(err).Str("reference_id", referenceID).Msg("contact delivery failed")
		observability.IntakeSubmissions().WithLabelValues("contact", "queued").Inc()
		return dto.ContactResponse{ReferenceID: referenceID, Status: "queued"}, nil
	}

	if err := s.repo.UpdateStatus(ctx, message.ID, "sent"); err != nil {
		span.RecordError(err)
		observability.IntakeSubmissions().WithLabelValues("contact", "error").Inc()
		return dto.ContactResponse{}, err
	}

	observability.IntakeSubmissions().WithLabelValues("contact", "accepted").Inc()

	s.logger.Info().
		Str("reference_id", referenceID).
		Str("email", maskEmail(message.Email)).
		Float64("score", score).
		Msg("contact message processed")
	span.SetStatus(codes.Ok, "delivered")

	return dto.ContactResponse{ReferenceID: referenceID, Status: "sent"}, nil
}

// NewsletterService manages newsletter opt-ins.
type NewsletterService interface {
	Subscribe(ctx context.Context, req dto.NewsletterRequest) (dto.NewsletterResponse, error)
}

type newsletterService struct {
	repo      repository.NewsletterRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewNewsletterService constructs the newsletter service.
func NewNewsletterService(repo repository.NewsletterRepository, validate *validator.Validate, logger zerolog.Logger) NewsletterService {
	return &newsletterService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "newsletter_service").Logger(),
	}
}

// Subscribe records the opt-in. Re-subscribing an existing address reports
// success without creating a second row.
func (s *newsletterService) Subscribe(ctx context.Context, req dto.NewsletterRequest) (dto.NewsletterResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.NewsletterResponse{}, err
	}

	subscription := models.NewsletterSubscription{
		Email:  normalizeEmail(req.Email),
		Source: strings.TrimSpace(req.Source),
	}
	created, err := s.repo.Subscribe(ctx, &subscription)
	if err != nil {
		return dto.NewsletterResponse{}, err
	}

	if created {
		s.logger.Info().Str("email", maskEmail(subscription.Email)).Msg("newsletter subscription added")
	}

	return dto.NewsletterResponse{Subscribed: true}, nil
}
