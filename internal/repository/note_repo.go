package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/unilancer-labs/unilancer-api/internal/models"
)

// NoteRepository persists administrator notes.
type NoteRepository interface {
	Create(ctx context.Context, note *models.AdminNote) error
	ListByRecord(ctx context.Context, kind models.RecordKind, recordID uint) ([]models.AdminNote, error)
	Delete(ctx context.Context, id uint) error
}

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository constructs the note repository.
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *models.AdminNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepository) ListByRecord(ctx context.Context, kind models.RecordKind, recordID uint) ([]models.AdminNote, error) {
	var notes []models.AdminNote
	err := r.db.WithContext(ctx).
		Where("record_kind = ? AND record_id = ?", kind, recordID).
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *noteRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.AdminNote{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
