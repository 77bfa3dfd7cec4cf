package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/unilancer-labs/unilancer-api/internal/models"
)

// RequestRepository persists project requests.
type RequestRepository interface {
	Create(ctx context.Context, request *models.ProjectRequest) error
	GetByID(ctx context.Context, id uint) (models.ProjectRequest, error)
	List(ctx context.Context, filter RecordFilter) ([]models.ProjectRequest, int64, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
}

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository constructs a repository backed by GORM.
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *models.ProjectRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *requestRepository) GetByID(ctx context.Context, id uint) (models.ProjectRequest, error) {
	var request models.ProjectRequest
	if err := r.db.WithContext(ctx).Preload("Assignments").First(&request, id).Error; err != nil {
		return models.ProjectRequest{}, err
	}
	return request, nil
}

func (r *requestRepository) List(ctx context.Context, filter RecordFilter) ([]models.ProjectRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProjectRequest{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(contact_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company) LIKE ?", pattern, pattern, pattern)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(normalizeRecordSort(filter.Sort))
	query = paginate(query, filter.Page, filter.PageSize)

	var requests []models.ProjectRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProjectRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *requestRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProjectRequest{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
