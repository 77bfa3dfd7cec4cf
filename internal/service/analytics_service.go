package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/unilancer-labs/unilancer-api/internal/dto"
	"github.com/unilancer-labs/unilancer-api/internal/repository"
)

// AnalyticsService aggregates intake counts for the admin dashboard.
type AnalyticsService interface {
	Summary(ctx context.Context) (dto.AnalyticsSummary, error)
}

type analyticsService struct {
	analytics  repository.AnalyticsRepository
	newsletter repository.NewsletterRepository
	logger     zerolog.Logger
}

// NewAnalyticsService constructs the analytics service.
func NewAnalyticsService(analytics repository.AnalyticsRepository, newsletter repository.NewsletterRepository, logger zerolog.Logger) AnalyticsService {
	return &analyticsService{
		analytics:  analytics,
		newsletter: newsletter,
		logger:     logger.With().Str("component", "analytics_service").Logger(),
	}
}

func (s *analyticsService) Summary(ctx context.Context) (dto.AnalyticsSummary, error) {
	applications, err := s.analytics.ApplicationStatusCounts(ctx)
	if err != nil {
		return dto.AnalyticsSummary{}, err
	}

	requests, err := s.analytics.RequestStatusCounts(ctx)
	if err != nil {
		return dto.AnalyticsSummary{}, err
	}

	contacts, err := s.analytics.ContactCount(ctx)
	if err != nil {
		return dto.AnalyticsSummary{}, err
	}

	subscribers, err := s.newsletter.Count(ctx)
	if err != nil {
		return dto.AnalyticsSummary{}, err
	}

	return dto.AnalyticsSummary{
		Applications:          applications,
		Requests:              requests,
		ContactMessages:       contacts,
		NewsletterSubscribers: subscribers,
	}, nil
}
