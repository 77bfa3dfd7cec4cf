package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/unilancer-labs/unilancer-api/internal/models"
)

// AssignmentRepository persists request-to-freelancer assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.ProjectAssignment) error
	GetByID(ctx context.Context, id uint) (models.ProjectAssignment, error)
	GetByPair(ctx context.Context, requestID, freelancerID uint) (models.ProjectAssignment, error)
	ListByRequest(ctx context.Context, requestID uint) ([]models.ProjectAssignment, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository constructs the assignment repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.ProjectAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.ProjectAssignment, error) {
	var assignment models.ProjectAssignment
	if err := r.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return models.ProjectAssignment{}, err
	}
	return assignment, nil
}

func (r *assignmentRepository) GetByPair(ctx context.Context, requestID, freelancerID uint) (models.ProjectAssignment, error) {
	var assignment models.ProjectAssignment
	err := r.db.WithContext(ctx).
		Where("request_id = ? AND freelancer_id = ?", requestID, freelancerID).
		First(&assignment).Error
	if err != nil {
		return models.ProjectAssignment{}, err
	}
	return assignment, nil
}

func (r *assignmentRepository) ListByRequest(ctx context.Context, requestID uint) ([]models.ProjectAssignment, error) {
	var assignments []models.ProjectAssignment
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProjectAssignment{}).
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

func (r *assignmentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.ProjectAssignment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
