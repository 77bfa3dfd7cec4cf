package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/unilancer-labs/unilancer-api/internal/dto"
	"github.com/unilancer-labs/unilancer-api/internal/models"
	"github.com/unilancer-labs/unilancer-api/internal/repository"
)

var (
	// ErrAlreadyAssigned indicates the freelancer already holds an
	// assignment on the request.
	ErrAlreadyAssigned = errors.New("freelancer is already assigned to this request")
	// ErrAssignmentNotFound indicates the assignment does not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrFreelancerNotEligible indicates the referenced application is not
	// in the accepted status.
	ErrFreelancerNotEligible = errors.New("freelancer application is not accepted")
)

// AssignmentService links accepted freelancers to project requests. A
// freelancer can hold at most one assignment per request.
type AssignmentService interface {
	Assign(ctx context.Context, requestID uint, req dto.AssignmentCreateRequest, actor string) (dto.AssignmentResponse, error)
	Remove(ctx context.Context, assignmentID uint, actor string) error
	UpdateStatus(ctx context.Context, assignmentID uint, req dto.AssignmentStatusRequest, actor string) (dto.AssignmentResponse, error)
	List(ctx context.Context, requestID uint) ([]dto.AssignmentResponse, error)
	Candidates(ctx context.Context, requestID uint, search string) ([]dto.CandidateResponse, error)
}

const candidateCacheTTL = 30 * time.Second

type assignmentService struct {
	assignments  repository.AssignmentRepository
	applications repository.ApplicationRepository
	requests     repository.RequestRepository
	activity     repository.ActivityLogRepository
	cache        *redis.Client
	validator    *validator.Validate
	logger       zerolog.Logger
}

// NewAssignmentService constructs the assignment service. cache may be nil
// to disable candidate list caching.
func NewAssignmentService(
	assignments repository.AssignmentRepository,
	applications repository.ApplicationRepository,
	requests repository.RequestRepository,
	activity repository.ActivityLogRepository,
	cache *redis.Client,
	validate *validator.Validate,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignments:  assignments,
		applications: applications,
		requests:     requests,
		activity:     activity,
		cache:        cache,
		validator:    validate,
		logger:       logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) Assign(ctx context.Context, requestID uint, req dto.AssignmentCreateRequest, actor string) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AssignmentResponse{}, err
	}

	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrRecordNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	application, err := s.applications.GetByID(ctx, req.FreelancerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrRecordNotFound
		}
		return dto.AssignmentResponse{}, err
	}
	if application.Status != models.StatusAccepted {
		return dto.AssignmentResponse{}, ErrFreelancerNotEligible
	}

	if _, err := s.assignments.GetByPair(ctx, requestID, req.FreelancerID); err == nil {
		return dto.AssignmentResponse{}, ErrAlreadyAssigned
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.ProjectAssignment{
		RequestID:    requestID,
		FreelancerID: req.FreelancerID,
		Role:         req.Role,
		Status:       models.AssignmentNotStarted,
	}
	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.record(ctx, requestID, actor, "freelancer_assigned", datatypes.JSONMap{
		"freelancer_id": req.FreelancerID,
		"role":          req.Role,
	})
	s.dropCandidateCache(ctx, requestID)

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Remove(ctx context.Context, assignmentID uint, actor string) error {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	if err := s.assignments.Delete(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	s.record(ctx, assignment.RequestID, actor, "freelancer_unassigned", datatypes.JSONMap{
		"freelancer_id": assignment.FreelancerID,
	})
	s.dropCandidateCache(ctx, assignment.RequestID)

	return nil
}

func (s *assignmentService) UpdateStatus(ctx context.Context, assignmentID uint, req dto.AssignmentStatusRequest, actor string) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	if err := s.assignments.UpdateStatus(ctx, assignmentID, req.Status); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.record(ctx, assignment.RequestID, actor, "assignment_status_changed", datatypes.JSONMap{
		"freelancer_id": assignment.FreelancerID,
		"from":          assignment.Status,
		"to":            req.Status,
	})

	assignment.Status = req.Status
	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) List(ctx context.Context, requestID uint) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, dto.NewAssignmentResponse(assignment))
	}
	return responses, nil
}

// Candidates returns accepted freelancers not yet assigned to the request.
// Unfiltered lookups are served from a short-lived cache; the cache is
// dropped whenever the request's assignments change.
func (s *assignmentService) Candidates(ctx context.Context, requestID uint, search string) ([]dto.CandidateResponse, error) {
	cacheable := s.cache != nil && search == ""
	key := candidateCacheKey(requestID)

	if cacheable {
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var cached []dto.CandidateResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	applications, err := s.applications.ListCandidates(ctx, requestID, search)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CandidateResponse, 0, len(applications))
	for _, application := range applications {
		responses = append(responses, dto.NewCandidateResponse(application))
	}

	if cacheable {
		if raw, err := json.Marshal(responses); err == nil {
			if err := s.cache.Set(ctx, key, raw, candidateCacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("candidate cache write failed")
			}
		}
	}

	return responses, nil
}

func candidateCacheKey(requestID uint) string {
	return fmt.Sprintf("assign:candidates:%d", requestID)
}

func (s *assignmentService) dropCandidateCache(ctx context.Context, requestID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, candidateCacheKey(requestID)).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("candidate cache invalidation failed")
	}
}

func (s *assignmentService) record(ctx context.Context, requestID uint, actor, action string, metadata datatypes.JSONMap) {
	entry := models.ActivityLog{
		RecordKind: models.KindRequest,
		RecordID:   requestID,
		Actor:      actor,
		Action:     action,
		Metadata:   metadata,
	}
	if err := s.activity.Create(ctx, &entry); err != nil {
		s.logger.Error().Err(err).
			Uint("request_id", requestID).Str("action", action).
			Msg("activity log write failed")
	}
}
