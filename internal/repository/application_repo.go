package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/unilancer-labs/unilancer-api/internal/models"
)

// RecordFilter narrows admin record listings.
type RecordFilter struct {
	Search   string
	Status   string
	Sort     string
	Page     int
	PageSize int
}

// ApplicationRepository persists freelancer applications.
type ApplicationRepository interface {
	Create(ctx context.Context, application *models.FreelancerApplication) error
	GetByID(ctx context.Context, id uint) (models.FreelancerApplication, error)
	List(ctx context.Context, filter RecordFilter) ([]models.FreelancerApplication, int64, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	ListCandidates(ctx context.Context, requestID uint, search string) ([]models.FreelancerApplication, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository constructs a repository backed by GORM.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *models.FreelancerApplication) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepository) GetByID(ctx context.Context, id uint) (models.FreelancerApplication, error) {
	var application models.FreelancerApplication
	if err := r.db.WithContext(ctx).First(&application, id).Error; err != nil {
		return models.FreelancerApplication{}, err
	}
	return application, nil
}

func (r *applicationRepository) List(ctx context.Context, filter RecordFilter) ([]models.FreelancerApplication, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.FreelancerApplication{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(normalizeRecordSort(filter.Sort))
	query = paginate(query, filter.Page, filter.PageSize)

	var applications []models.FreelancerApplication
	if err := query.Find(&applications).Error; err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.FreelancerApplication{}).
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

func (r *applicationRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.FreelancerApplication{}).
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

// ListCandidates returns accepted freelancers not yet assigned to the given
// request.
func (r *applicationRepository) ListCandidates(ctx context.Context, requestID uint, search string) ([]models.FreelancerApplication, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", models.StatusAccepted).
		Where("id NOT IN (?)", r.db.Model(&models.ProjectAssignment{}).
			Select("freelancer_id").
			Where("request_id = ?", requestID))

	if search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var candidates []models.FreelancerApplication
	err := query.Order("full_name ASC").Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

func normalizeRecordSort(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case "created_at", "created_at:asc":
		return "created_at ASC"
	case "", "-created_at", "created_at:desc":
		return "created_at DESC"
	case "updated_at", "updated_at:asc":
		return "updated_at ASC"
	case "-updated_at", "updated_at:desc":
		return "updated_at DESC"
	case "status", "status:asc":
		return "status ASC"
	case "-status", "status:desc":
		return "status DESC"
	default:
		return "created_at DESC"
	}
}

func paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	if pageSize <= 0 {
		return query
	}
	if page <= 0 {
		page = 1
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}
