package dto

import (
	"time"

	"github.com/unilancer-labs/unilancer-api/internal/models"
)

// NoteCreateRequest adds a note to a record.
type NoteCreateRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}

// NoteResponse is a serialized administrator note.
type NoteResponse struct {
	ID         uint              `json:"id"`
	RecordKind models.RecordKind `json:"record_kind"`
	RecordID   uint              `json:"record_id"`
	Author     string            `json:"author,omitempty"`
	Body       string            `json:"body"`
	CreatedAt  time.Time         `json:"created_at"`
}

// NewNoteResponse converts a model into a DTO.
func NewNoteResponse(model models.AdminNote) NoteResponse {
	return NoteResponse{
		ID:         model.ID,
		RecordKind: model.RecordKind,
		RecordID:   model.RecordID,
		Author:     model.Author,
		Body:       model.Body,
		CreatedAt:  model.CreatedAt,
	}
}

// ActivityResponse is a serialized audit trail entry.
type ActivityResponse struct {
	ID         uint                   `json:"id"`
	RecordKind models.RecordKind      `json:"record_kind"`
	RecordID   uint                   `json:"record_id"`
	Actor      string                 `json:"actor"`
	Action     string                 `json:"action"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewActivityResponse converts a model into a DTO.
func NewActivityResponse(model models.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:         model.ID,
		RecordKind: model.RecordKind,
		RecordID:   model.RecordID,
		Actor:      model.Actor,
		Action:     model.Action,
		Metadata:   model.Metadata,
		CreatedAt:  model.CreatedAt,
	}
}

// ActivityListResponse pages activity trail entries.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}
