package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/unilancer-labs/unilancer-api/internal/models"
)

// StatusCount pairs a lifecycle status with the number of records holding it.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// AnalyticsRepository aggregates intake counts for the admin dashboard.
type AnalyticsRepository interface {
	ApplicationStatusCounts(ctx context.Context) ([]StatusCount, error)
	RequestStatusCounts(ctx context.Context) ([]StatusCount, error)
	ContactCount(ctx context.Context) (int64, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository constructs the analytics repository.
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) ApplicationStatusCounts(ctx context.Context) ([]StatusCount, error) {
	return r.statusCounts(ctx, &models.FreelancerApplication{})
}

func (r *analyticsRepository) RequestStatusCounts(ctx context.Context) ([]StatusCount, error) {
	return r.statusCounts(ctx, &models.ProjectRequest{})
}

func (r *analyticsRepository) statusCounts(ctx context.Context, model interface{}) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.WithContext(ctx).
		Model(model).
		Select("status, COUNT(*) as count").
		Group("status").
		Order("status ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *analyticsRepository) ContactCount(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.ContactMessage{}).Count(&total).Error
	return total, err
}
