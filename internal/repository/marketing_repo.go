package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unilancer-labs/unilancer-api/internal/models"
)

// ContactRepository persists contact form messages.
type ContactRepository interface {
	Create(ctx context.Context, message *models.ContactMessage) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	List(ctx context.Context, filter RecordFilter) ([]models.ContactMessage, int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository constructs a repository backed by GORM.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, message *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *contactRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.ContactMessage{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

func (r *contactRepository) List(ctx context.Context, filter RecordFilter) ([]models.ContactMessage, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ContactMessage{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = paginate(query, filter.Page, filter.PageSize)

	var messages []models.ContactMessage
	if err := query.Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// NewsletterRepository persists newsletter opt-ins.
type NewsletterRepository interface {
	Subscribe(ctx context.Context, subscription *models.NewsletterSubscription) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type newsletterRepository struct {
	db *gorm.DB
}

// NewNewsletterRepository constructs the newsletter repository.
func NewNewsletterRepository(db *gorm.DB) NewsletterRepository {
	return &newsletterRepository{db: db}
}

// Subscribe inserts the address, returning false when it was already present.
func (r *newsletterRepository) Subscribe(ctx context.Context, subscription *models.NewsletterSubscription) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(subscription)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *newsletterRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.NewsletterSubscription{}).Count(&total).Error
	return total, err
}
