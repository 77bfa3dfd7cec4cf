package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unilancer-labs/unilancer-api/internal/dto"
	"github.com/unilancer-labs/unilancer-api/internal/models"
	"github.com/unilancer-labs/unilancer-api/internal/repository"
)

func TestListApplicationsClampsPaging(t *testing.T) {
	apps := &applicationRepoStub{created: []models.FreelancerApplication{
		{ID: 1, FullName: "Derya Aksoy", Status: models.StatusPending},
	}}
	svc := NewRecordService(apps, &requestRepoStub{}, testLogger())

	response, err := svc.ListApplications(context.Background(), dto.RecordListRequest{Page: 0, PageSize: 9999})
	require.NoError(t, err)
	require.Equal(t, 1, response.Pagination.Page)
	require.Equal(t, maxRecordPageSize, response.Pagination.PageSize)
	require.Equal(t, int64(1), response.Pagination.TotalItems)
	require.Len(t, response.Items, 1)

	response, err = svc.ListApplications(context.Background(), dto.RecordListRequest{})
	require.NoError(t, err)
	require.Equal(t, defaultRecordPageSize, response.Pagination.PageSize)
}

func TestGetApplicationNotFound(t *testing.T) {
	svc := NewRecordService(&applicationRepoStub{}, &requestRepoStub{}, testLogger())

	_, err := svc.GetApplication(context.Background(), 404)
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestGetRequestNotFound(t *testing.T) {
	svc := NewRecordService(&applicationRepoStub{}, &requestRepoStub{}, testLogger())

	_, err := svc.GetRequest(context.Background(), 404)
	require.ErrorIs(t, err, ErrRecordNotFound)
}

type analyticsRepoStub struct {
	applications []repository.StatusCount
	requests     []repository.StatusCount
	contacts     int64
	err          error
}

func (s *analyticsRepoStub) ApplicationStatusCounts(ctx context.Context) ([]repository.StatusCount, error) {
	return s.applications, s.err
}

func (s *analyticsRepoStub) RequestStatusCounts(ctx context.Context) ([]repository.StatusCount, error) {
	return s.requests, s.err
}

func (s *analyticsRepoStub) ContactCount(ctx context.Context) (int64, error) {
	return s.contacts, s.err
}

func TestAnalyticsSummary(t *testing.T) {
	analytics := &analyticsRepoStub{
		applications: []repository.StatusCount{{Status: models.StatusPending, Count: 3}},
		requests:     []repository.StatusCount{{Status: models.StatusReviewing, Count: 2}},
		contacts:     7,
	}
	newsletter := &newsletterRepoStub{emails: map[string]struct{}{"a@example.com": {}}}
	svc := NewAnalyticsService(analytics, newsletter, testLogger())

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), summary.Applications[0].Count)
	require.Equal(t, int64(2), summary.Requests[0].Count)
	require.Equal(t, int64(7), summary.ContactMessages)
	require.Equal(t, int64(1), summary.NewsletterSubscribers)
}

func TestAnalyticsSummaryPropagatesErrors(t *testing.T) {
	analytics := &analyticsRepoStub{err: errors.New("db unavailable")}
	svc := NewAnalyticsService(analytics, &newsletterRepoStub{}, testLogger())

	_, err := svc.Summary(context.Background())
	require.Error(t, err)
}
