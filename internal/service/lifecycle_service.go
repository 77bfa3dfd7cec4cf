package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/unilancer-labs/unilancer-api/internal/dto"
	"github.com/unilancer-labs/unilancer-api/internal/models"
	"github.com/unilancer-labs/unilancer-api/internal/observability"
	"github.com/unilancer-labs/unilancer-api/internal/repository"
)

var (
	// ErrRecordNotFound indicates the record does not exist.
	ErrRecordNotFound = errors.New("record not found")
	// ErrUnknownStatus indicates the requested status is outside the enum
	// for the record kind.
	ErrUnknownStatus = errors.New("unknown status")
	// ErrTerminalStatus indicates the record is in a terminal status; moving
	// it further requires an explicit override.
	ErrTerminalStatus = errors.New("record is in a terminal status")
	// ErrEmptyPatch indicates a detail update with no allow-listed fields.
	ErrEmptyPatch = errors.New("no updatable fields in patch")
)

const (
	warnActivityLogFailed  = "activity log write failed"
	warnNotificationFailed = "notification dispatch failed"
)

// LifecycleService governs record statuses after intake. Any enumerated
// transition is permitted for an administrative actor; there is no enforced
// precondition graph beyond the terminal-status override rule.
type LifecycleService interface {
	Transition(ctx context.Context, kind models.RecordKind, id uint, req dto.TransitionRequest, actor string) (dto.TransitionResult, error)
	UpdateDetails(ctx context.Context, kind models.RecordKind, id uint, patch dto.DetailsPatch, actor string) error
}

type recordSnapshot struct {
	Status string
	Email  string
	Name   string
}

type lifecycleService struct {
	applications repository.ApplicationRepository
	requests     repository.RequestRepository
	activity     repository.ActivityLogRepository
	notifier     Notifier
	validator    *validator.Validate
	logger       zerolog.Logger
	tracer       trace.Tracer
}

// NewLifecycleService constructs the lifecycle service.
func NewLifecycleService(
	applications repository.ApplicationRepository,
	requests repository.RequestRepository,
	activity repository.ActivityLogRepository,
	notifier Notifier,
	validate *validator.Validate,
	logger zerolog.Logger,
) LifecycleService {
	return &lifecycleService{
		applications: applications,
		requests:     requests,
		activity:     activity,
		notifier:     notifier,
		validator:    validate,
		logger:       logger.With().Str("component", "lifecycle_service").Logger(),
		tracer:       otel.Tracer("github.com/unilancer-labs/unilancer-api/internal/service/lifecycle"),
	}
}

// Transition moves a record to a new status. The status write is the source
// of truth: the activity entry is attempted immediately after it and the
// notification after that, and a failure of either surfaces as a warning on
// the result rather than reverting the status.
func (s *lifecycleService) Transition(ctx context.Context, kind models.RecordKind, id uint, req dto.TransitionRequest, actor string) (dto.TransitionResult, error) {
	ctx, span := s.tracer.Start(ctx, "lifecycle.transition", trace.WithAttributes(
		attribute.String("record.kind", string(kind)),
		attribute.String("record.status", req.Status),
	))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return dto.TransitionResult{}, err
	}
	if !models.ValidStatus(kind, req.Status) {
		return dto.TransitionResult{}, fmt.Errorf("%w: %q for kind %s", ErrUnknownStatus, req.Status, kind)
	}

	snapshot, err := s.snapshot(ctx, kind, id)
	if err != nil {
		return dto.TransitionResult{}, err
	}

	if models.TerminalStatus(snapshot.Status) && !req.Override {
		return dto.TransitionResult{}, fmt.Errorf("%w: %s", ErrTerminalStatus, snapshot.Status)
	}

	if err := s.updateStatus(ctx, kind, id, req.Status); err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TransitionResult{}, ErrRecordNotFound
		}
		return dto.TransitionResult{}, err
	}

	observability.StatusTransitions().WithLabelValues(string(kind), req.Status).Inc()

	result := dto.TransitionResult{Status: req.Status}

	action := "status_changed"
	if req.Override {
		action = "status_overridden"
	}
	entry := models.ActivityLog{
		RecordKind: kind,
		RecordID:   id,
		Actor:      actor,
		Action:     action,
		Metadata: datatypes.JSONMap{
			"from": snapshot.Status,
			"to":   req.Status,
		},
	}
	if err := s.activity.Create(ctx, &entry); err != nil {
		span.RecordError(err)
		s.logger.Error().Err(err).
			Str("kind", string(kind)).Uint("record_id", id).
			Msg("activity log write failed after status change")
		result.Warnings = append(result.Warnings, warnActivityLogFailed)
	}

	if req.Notify && snapshot.Email != "" {
		event := NotificationEvent{
			Kind:     kind,
			RecordID: id,
			Status:   req.Status,
			Email:    snapshot.Email,
			Name:     snapshot.Name,
		}
		if err := s.notifier.Notify(ctx, event); err != nil {
			observability.Notifications().WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).
				Str("kind", string(kind)).Uint("record_id", id).
				Msg("status notification failed")
			result.Warnings = append(result.Warnings, warnNotificationFailed)
		} else {
			observability.Notifications().WithLabelValues("sent").Inc()
			result.NotificationSent = true
		}
	}

	return result, nil
}

// UpdateDetails patches the administrative metadata block. Only the fixed
// allow-list of fields is reachable; the activity entry records which fields
// changed, never their values.
func (s *lifecycleService) UpdateDetails(ctx context.Context, kind models.RecordKind, id uint, patch dto.DetailsPatch, actor string) error {
	if err := s.validator.Struct(patch); err != nil {
		return err
	}

	fields := make(map[string]interface{})
	if patch.AdminSummary != nil {
		fields["admin_summary"] = *patch.AdminSummary
	}
	if patch.Rating != nil {
		fields["rating"] = *patch.Rating
	}
	if patch.Priority != nil {
		fields["priority"] = *patch.Priority
	}
	if patch.FollowUpAt != nil {
		fields["follow_up_at"] = *patch.FollowUpAt
	}
	if patch.InterviewAt != nil && kind == models.KindApplication {
		fields["interview_at"] = *patch.InterviewAt
	}
	if patch.EstimatedBudget != nil && kind == models.KindRequest {
		fields["estimated_budget"] = *patch.EstimatedBudget
	}

	if len(fields) == 0 {
		return ErrEmptyPatch
	}

	if err := s.updateFields(ctx, kind, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}

	changed := make([]string, 0, len(fields))
	for name := range fields {
		changed = append(changed, name)
	}
	sort.Strings(changed)

	entry := models.ActivityLog{
		RecordKind: kind,
		RecordID:   id,
		Actor:      actor,
		Action:     "details_updated",
		Metadata:   datatypes.JSONMap{"fields": changed},
	}
	if err := s.activity.Create(ctx, &entry); err != nil {
		s.logger.Error().Err(err).
			Str("kind", string(kind)).Uint("record_id", id).
			Msg("activity log write failed after detail update")
	}

	return nil
}

func (s *lifecycleService) snapshot(ctx context.Context, kind models.RecordKind, id uint) (recordSnapshot, error) {
	switch kind {
	case models.KindApplication:
		application, err := s.applications.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return recordSnapshot{}, ErrRecordNotFound
			}
			return recordSnapshot{}, err
		}
		return recordSnapshot{Status: application.Status, Email: application.Email, Name: application.FullName}, nil
	case models.KindRequest:
		request, err := s.requests.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return recordSnapshot{}, ErrRecordNotFound
			}
			return recordSnapshot{}, err
		}
		return recordSnapshot{Status: request.Status, Email: request.Email, Name: request.ContactName}, nil
	default:
		return recordSnapshot{}, fmt.Errorf("unknown record kind %q", kind)
	}
}

func (s *lifecycleService) updateStatus(ctx context.Context, kind models.RecordKind, id uint, status string) error {
	if kind == models.KindApplication {
		return s.applications.UpdateStatus(ctx, id, status)
	}
	return s.requests.UpdateStatus(ctx, id, status)
}

func (s *lifecycleService) updateFields(ctx context.Context, kind models.RecordKind, id uint, fields map[string]interface{}) error {
	if kind == models.KindApplication {
		return s.applications.UpdateFields(ctx, id, fields)
	}
	return s.requests.UpdateFields(ctx, id, fields)
}
