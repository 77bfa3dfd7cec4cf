package service

import (
	"context"
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/unilancer-labs/unilancer-api/internal/dto"
	"github.com/unilancer-labs/unilancer-api/internal/models"
	"github.com/unilancer-labs/unilancer-api/internal/repository"
)

var (
	// ErrEmptyNote indicates the note body is empty after trimming.
	ErrEmptyNote = errors.New("note body is empty")
	// ErrNoteNotFound indicates the note does not exist.
	ErrNoteNotFound = errors.New("note not found")
)

const (
	defaultActivityPageSize = 20
	maxActivityPageSize     = 50
)

// AnnotationService manages administrator notes and exposes the read side of
// the activity trail. Notes can be created and deleted but never edited.
type AnnotationService interface {
	AddNote(ctx context.Context, kind models.RecordKind, recordID uint, req dto.NoteCreateRequest, author string) (dto.NoteResponse, error)
	ListNotes(ctx context.Context, kind models.RecordKind, recordID uint) ([]dto.NoteResponse, error)
	DeleteNote(ctx context.Context, noteID uint) error
	ListActivity(ctx context.Context, filter repository.ActivityLogFilter) (dto.ActivityListResponse, error)
}

type annotationService struct {
	notes     repository.NoteRepository
	activity  repository.ActivityLogRepository
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewAnnotationService constructs the annotation service.
func NewAnnotationService(notes repository.NoteRepository, activity repository.ActivityLogRepository, logger zerolog.Logger) AnnotationService {
	return &annotationService{
		notes:     notes,
		activity:  activity,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "annotation_service").Logger(),
	}
}

func (s *annotationService) AddNote(ctx context.Context, kind models.RecordKind, recordID uint, req dto.NoteCreateRequest, author string) (dto.NoteResponse, error) {
	body := strings.TrimSpace(s.sanitizer.Sanitize(req.Body))
	if body == "" {
		return dto.NoteResponse{}, ErrEmptyNote
	}

	note := models.AdminNote{
		RecordKind: kind,
		RecordID:   recordID,
		Author:     author,
		Body:       body,
	}
	if err := s.notes.Create(ctx, &note); err != nil {
		return dto.NoteResponse{}, err
	}

	return dto.NewNoteResponse(note), nil
}

func (s *annotationService) ListNotes(ctx context.Context, kind models.RecordKind, recordID uint) ([]dto.NoteResponse, error) {
	notes, err := s.notes.ListByRecord(ctx, kind, recordID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.NoteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, dto.NewNoteResponse(note))
	}
	return responses, nil
}

// DeleteNote removes a note permanently. Deletions are not mirrored into the
// activity trail.
func (s *annotationService) DeleteNote(ctx context.Context, noteID uint) error {
	if err := s.notes.Delete(ctx, noteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		return err
	}
	return nil
}

func (s *annotationService) ListActivity(ctx context.Context, filter repository.ActivityLogFilter) (dto.ActivityListResponse, error) {
	filter.Page = normalizePage(filter.Page)
	filter.PageSize = clampPageSize(filter.PageSize, defaultActivityPageSize, maxActivityPageSize)

	entries, total, err := s.activity.List(ctx, filter)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	items := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewActivityResponse(entry))
	}

	return dto.ActivityListResponse{
		Items: items,
		Pagination: dto.PaginationMeta{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalItems: total,
			TotalPages: totalPages(total, filter.PageSize),
		},
	}, nil
}
