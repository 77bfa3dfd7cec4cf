package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/unilancer-labs/unilancer-api/internal/dto"
	"github.com/unilancer-labs/unilancer-api/internal/repository"
)

const (
	defaultRecordPageSize = 20
	maxRecordPageSize     = 100
)

// RecordService is the admin read side over intake records.
type RecordService interface {
	ListApplications(ctx context.Context, req dto.RecordListRequest) (dto.ApplicationListResponse, error)
	GetApplication(ctx context.Context, id uint) (dto.ApplicationResponse, error)
	ListRequests(ctx context.Context, req dto.RecordListRequest) (dto.RequestListResponse, error)
	GetRequest(ctx context.Context, id uint) (dto.RequestResponse, error)
}

type recordService struct {
	applications repository.ApplicationRepository
	requests     repository.RequestRepository
	logger       zerolog.Logger
}

// NewRecordService constructs the admin record read service.
func NewRecordService(applications repository.ApplicationRepository, requests repository.RequestRepository, logger zerolog.Logger) RecordService {
	return &recordService{
		applications: applications,
		requests:     requests,
		logger:       logger.With().Str("component", "record_service").Logger(),
	}
}

func (s *recordService) ListApplications(ctx context.Context, req dto.RecordListRequest) (dto.ApplicationListResponse, error) {
	filter := recordFilter(req)

	applications, total, err := s.applications.List(ctx, filter)
	if err != nil {
		return dto.ApplicationListResponse{}, err
	}

	items := make([]dto.ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		items = append(items, dto.NewApplicationResponse(application))
	}

	return dto.ApplicationListResponse{
		Items:      items,
		Pagination: paginationMeta(filter, total),
	}, nil
}

func (s *recordService) GetApplication(ctx context.Context, id uint) (dto.ApplicationResponse, error) {
	application, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrRecordNotFound
		}
		return dto.ApplicationResponse{}, err
	}
	return dto.NewApplicationResponse(application), nil
}

func (s *recordService) ListRequests(ctx context.Context, req dto.RecordListRequest) (dto.RequestListResponse, error) {
	filter := recordFilter(req)

	requests, total, err := s.requests.List(ctx, filter)
	if err != nil {
		return dto.RequestListResponse{}, err
	}

	items := make([]dto.RequestResponse, 0, len(requests))
	for _, request := range requests {
		items = append(items, dto.NewRequestResponse(request))
	}

	return dto.RequestListResponse{
		Items:      items,
		Pagination: paginationMeta(filter, total),
	}, nil
}

func (s *recordService) GetRequest(ctx context.Context, id uint) (dto.RequestResponse, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RequestResponse{}, ErrRecordNotFound
		}
		return dto.RequestResponse{}, err
	}
	return dto.NewRequestResponse(request), nil
}

func recordFilter(req dto.RecordListRequest) repository.RecordFilter {
	return repository.RecordFilter{
		Search:   req.Search,
		Status:   req.Status,
		Sort:     req.Sort,
		Page:     normalizePage(req.Page),
		PageSize: clampPageSize(req.PageSize, defaultRecordPageSize, maxRecordPageSize),
	}
}

func paginationMeta(filter repository.RecordFilter, total int64) dto.PaginationMeta {
	return dto.PaginationMeta{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalItems: total,
		TotalPages: totalPages(total, filter.PageSize),
	}
}
