package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/unilancer-labs/unilancer-api/internal/models"
)

func TestRequestRepositoryListSearchesCompany(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRequestRepository(db)

	first := models.ProjectRequest{ReferenceID: "req-1", ContactName: "Pelin Demir", Email: "pelin@acme.example", Company: "Acme Ltd", Status: models.StatusPending, CreatedAt: time.Now().Add(-2 * time.Hour)}
	second := models.ProjectRequest{ReferenceID: "req-2", ContactName: "Umut Kaya", Email: "umut@beta.example", Company: "Beta Inc", Status: models.StatusReviewing, CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	requests, total, err := repo.List(context.Background(), RecordFilter{Search: "acme", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Acme Ltd", requests[0].Company)

	requests, total, err = repo.List(context.Background(), RecordFilter{PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Equal(t, "Umut Kaya", requests[0].ContactName, "expected newest record first")
}

func TestRequestRepositoryUpdateStatusMissingRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRequestRepository(db)

	require.ErrorIs(t, repo.UpdateStatus(context.Background(), 99, models.StatusReviewing), gorm.ErrRecordNotFound)
	require.ErrorIs(t, repo.UpdateFields(context.Background(), 99, map[string]interface{}{"priority": "high"}), gorm.ErrRecordNotFound)
}

func TestAnalyticsRepositoryStatusCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnalyticsRepository(db)

	require.NoError(t, db.Create(&models.FreelancerApplication{ReferenceID: "ref-1", FullName: "A", Email: "a@example.com", Status: models.StatusPending}).Error)
	require.NoError(t, db.Create(&models.FreelancerApplication{ReferenceID: "ref-2", FullName: "B", Email: "b@example.com", Status: models.StatusPending}).Error)
	require.NoError(t, db.Create(&models.FreelancerApplication{ReferenceID: "ref-3", FullName: "C", Email: "c@example.com", Status: models.StatusAccepted}).Error)
	require.NoError(t, db.Create(&models.ProjectRequest{ReferenceID: "req-1", ContactName: "D", Email: "d@example.com", Status: models.StatusReviewing}).Error)
	require.NoError(t, db.Create(&models.ContactMessage{ReferenceID: "msg-1", Name: "E", Email: "e@example.com", Message: "Hi", Status: "queued"}).Error)

	counts, err := repo.ApplicationStatusCounts(context.Background())
	require.NoError(t, err)
	byStatus := make(map[string]int64, len(counts))
	for _, count := range counts {
		byStatus[count.Status] = count.Count
	}
	require.Equal(t, int64(2), byStatus[models.StatusPending])
	require.Equal(t, int64(1), byStatus[models.StatusAccepted])

	counts, err = repo.RequestStatusCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 1)

	contacts, err := repo.ContactCount(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), contacts)
}
