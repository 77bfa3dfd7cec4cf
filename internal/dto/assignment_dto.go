package dto

import (
	"time"

	"github.com/unilancer-labs/unilancer-api/internal/models"
)

// AssignmentCreateRequest links a freelancer to a project request.
type AssignmentCreateRequest struct {
	FreelancerID uint   `json:"freelancer_id" validate:"required"`
	Role         string `json:"role" validate:"required,max=64"`
}

// AssignmentStatusRequest updates an assignment sub-status.
type AssignmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=not_started in_progress completed"`
}

// AssignmentResponse is a serialized request-to-freelancer link.
type AssignmentResponse struct {
	ID           uint      `json:"id"`
	RequestID    uint      `json:"request_id"`
	FreelancerID uint      `json:"freelancer_id"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.ProjectAssignment) AssignmentResponse {
	return AssignmentResponse{
		ID:           model.ID,
		RequestID:    model.RequestID,
		FreelancerID: model.FreelancerID,
		Role:         model.Role,
		Status:       model.Status,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// CandidateResponse is a freelancer offered for assignment to a request.
type CandidateResponse struct {
	ID         uint     `json:"id"`
	FullName   string   `json:"full_name"`
	Email      string   `json:"email"`
	Categories []string `json:"categories"`
	Expertise  []string `json:"expertise"`
}

// NewCandidateResponse converts a model into a DTO.
func NewCandidateResponse(model models.FreelancerApplication) CandidateResponse {
	return CandidateResponse{
		ID:         model.ID,
		FullName:   model.FullName,
		Email:      model.Email,
		Categories: []string(model.Categories),
		Expertise:  []string(model.Expertise),
	}
}
