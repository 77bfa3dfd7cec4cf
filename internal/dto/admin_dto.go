package dto

import (
	"time"

	"github.com/unilancer-labs/unilancer-api/internal/models"
	"github.com/unilancer-labs/unilancer-api/internal/repository"
)

// RecordListRequest carries admin list filters.
type RecordListRequest struct {
	Page     int
	PageSize int
	Status   string
	Search   string
	Sort     string
}

// ApplicationResponse is the admin view of a freelancer application.
type ApplicationResponse struct {
	ID           uint       `json:"id"`
	ReferenceID  string     `json:"reference_id"`
	Status       string     `json:"status"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Categories   []string   `json:"categories"`
	Expertise    []string   `json:"expertise"`
	About        string     `json:"about"`
	PortfolioURL string     `json:"portfolio_url,omitempty"`
	FraudScore   float64    `json:"fraud_score"`
	AdminSummary string     `json:"admin_summary,omitempty"`
	Rating       *int       `json:"rating,omitempty"`
	Priority     string     `json:"priority,omitempty"`
	FollowUpAt   *time.Time `json:"follow_up_at,omitempty"`
	InterviewAt  *time.Time `json:"interview_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewApplicationResponse converts a model into a DTO.
func NewApplicationResponse(model models.FreelancerApplication) ApplicationResponse {
	return ApplicationResponse{
		ID:           model.ID,
		ReferenceID:  model.ReferenceID,
		Status:       model.Status,
		FullName:     model.FullName,
		Email:        model.Email,
		Phone:        model.Phone,
		Categories:   []string(model.Categories),
		Expertise:    []string(model.Expertise),
		About:        model.About,
		PortfolioURL: model.PortfolioURL,
		FraudScore:   model.FraudScore,
		AdminSummary: model.AdminSummary,
		Rating:       model.Rating,
		Priority:     model.Priority,
		FollowUpAt:   model.FollowUpAt,
		InterviewAt:  model.InterviewAt,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// RequestResponse is the admin view of a project request.
type RequestResponse struct {
	ID              uint                 `json:"id"`
	ReferenceID     string               `json:"reference_id"`
	Status          string               `json:"status"`
	ContactName     string               `json:"contact_name"`
	Email           string               `json:"email"`
	Phone           string               `json:"phone"`
	Company         string               `json:"company,omitempty"`
	Services        []string             `json:"services"`
	Budget          string               `json:"budget"`
	Timeline        string               `json:"timeline,omitempty"`
	Description     string               `json:"description"`
	BriefURL        string               `json:"brief_url,omitempty"`
	FraudScore      float64              `json:"fraud_score"`
	AdminSummary    string               `json:"admin_summary,omitempty"`
	Rating          *int                 `json:"rating,omitempty"`
	Priority        string               `json:"priority,omitempty"`
	FollowUpAt      *time.Time           `json:"follow_up_at,omitempty"`
	EstimatedBudget *float64             `json:"estimated_budget,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	Assignments     []AssignmentResponse `json:"assignments,omitempty"`
}

// NewRequestResponse converts a model into a DTO.
func NewRequestResponse(model models.ProjectRequest) RequestResponse {
	response := RequestResponse{
		ID:              model.ID,
		ReferenceID:     model.ReferenceID,
		Status:          model.Status,
		ContactName:     model.ContactName,
		Email:           model.Email,
		Phone:           model.Phone,
		Company:         model.Company,
		Services:        []string(model.Services),
		Budget:          model.Budget,
		Timeline:        model.Timeline,
		Description:     model.Description,
		BriefURL:        model.BriefURL,
		FraudScore:      model.FraudScore,
		AdminSummary:    model.AdminSummary,
		Rating:          model.Rating,
		Priority:        model.Priority,
		FollowUpAt:      model.FollowUpAt,
		EstimatedBudget: model.EstimatedBudget,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
	for _, assignment := range model.Assignments {
		response.Assignments = append(response.Assignments, NewAssignmentResponse(assignment))
	}
	return response
}

// TransitionRequest moves a record to a new lifecycle status.
type TransitionRequest struct {
	Status   string `json:"status" validate:"required,max=32"`
	Notify   bool   `json:"notify"`
	Override bool   `json:"override"`
}

// TransitionResult reports the outcome of a status change. Warnings carry
// non-fatal follow-up failures (activity log append, notification dispatch)
// distinctly from the status write itself.
type TransitionResult struct {
	Status           string   `json:"status"`
	NotificationSent bool     `json:"notification_sent"`
	Warnings         []string `json:"warnings,omitempty"`
}

// DetailsPatch carries the administrative metadata fields an admin may edit.
// Applicant-supplied payload fields are deliberately absent.
type DetailsPatch struct {
	AdminSummary    *string    `json:"admin_summary" validate:"omitempty,max=5000"`
	Rating          *int       `json:"rating" validate:"omitempty,min=1,max=5"`
	Priority        *string    `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	FollowUpAt      *time.Time `json:"follow_up_at"`
	InterviewAt     *time.Time `json:"interview_at"`
	EstimatedBudget *float64   `json:"estimated_budget" validate:"omitempty,gte=0"`
}

// ApplicationListResponse pages admin application listings.
type ApplicationListResponse struct {
	Items      []ApplicationResponse `json:"items"`
	Pagination PaginationMeta        `json:"pagination"`
}

// RequestListResponse pages admin request listings.
type RequestListResponse struct {
	Items      []RequestResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// AnalyticsSummary aggregates intake counts for the admin dashboard.
type AnalyticsSummary struct {
	Applications          []repository.StatusCount `json:"applications"`
	Requests              []repository.StatusCount `json:"requests"`
	ContactMessages       int64                    `json:"contact_messages"`
	NewsletterSubscribers int64                    `json:"newsletter_subscribers"`
}
