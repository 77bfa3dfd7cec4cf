package models

import (
	"time"

	"gorm.io/datatypes"
)

// RecordKind discriminates the two intake record families.
type RecordKind string

const (
	KindApplication RecordKind = "application"
	KindRequest     RecordKind = "request"
)

// Record lifecycle statuses. Applications move through interview, project
// requests through in_progress; the remaining statuses are shared.
const (
	StatusPending    = "pending"
	StatusReviewing  = "reviewing"
	StatusInterview  = "interview"
	StatusInProgress = "in_progress"
	StatusAccepted   = "accepted"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
	StatusCancelled  = "cancelled"
)

var applicationStatuses = map[string]struct{}{
	StatusPending:   {},
	StatusReviewing: {},
	StatusInterview: {},
	StatusAccepted:  {},
	StatusRejected:  {},
	StatusCancelled: {},
}

var requestStatuses = map[string]struct{}{
	StatusPending:    {},
	StatusReviewing:  {},
	StatusInProgress: {},
	StatusCompleted:  {},
	StatusRejected:   {},
	StatusCancelled:  {},
}

var terminalStatuses = map[string]struct{}{
	StatusAccepted:  {},
	StatusCompleted: {},
	StatusRejected:  {},
	StatusCancelled: {},
}

// ValidStatus reports whether status belongs to the enumerated set for kind.
func ValidStatus(kind RecordKind, status string) bool {
	switch kind {
	case KindApplication:
		_, ok := applicationStatuses[status]
		return ok
	case KindRequest:
		_, ok := requestStatuses[status]
		return ok
	default:
		return false
	}
}

// TerminalStatus reports whether status ends the normal review lifecycle.
func TerminalStatus(status string) bool {
	_, ok := terminalStatuses[status]
	return ok
}

// FreelancerApplication is a freelancer sign-up produced by the intake wizard.
// Applicant-supplied fields are immutable after creation; only the admin
// metadata block is reachable through detail updates.
type FreelancerApplication struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ReferenceID string `gorm:"size:64;uniqueIndex;not null" json:"reference_id"`
	Status      string `gorm:"size:32;not null;default:pending;index" json:"status"`

	FullName     string                      `gorm:"size:255;not null" json:"full_name"`
	Email        string                      `gorm:"size:255;not null;index" json:"email"`
	Phone        string                      `gorm:"size:32" json:"phone"`
	Categories   datatypes.JSONSlice[string] `json:"categories"`
	Expertise    datatypes.JSONSlice[string] `json:"expertise"`
	About        string                      `gorm:"type:text" json:"about"`
	PortfolioURL string                      `gorm:"size:512" json:"portfolio_url"`

	// Captured at submission time for audit, never mutated.
	FraudScore float64 `gorm:"not null" json:"fraud_score"`

	// Admin metadata, reachable only through the detail-update allow-list.
	AdminSummary string     `gorm:"type:text" json:"admin_summary"`
	Rating       *int       `json:"rating"`
	Priority     string     `gorm:"size:32" json:"priority"`
	FollowUpAt   *time.Time `json:"follow_up_at"`
	InterviewAt  *time.Time `json:"interview_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectRequest is a project brief submitted by a prospective client.
type ProjectRequest struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ReferenceID string `gorm:"size:64;uniqueIndex;not null" json:"reference_id"`
	Status      string `gorm:"size:32;not null;default:pending;index" json:"status"`

	ContactName string                      `gorm:"size:255;not null" json:"contact_name"`
	Email       string                      `gorm:"size:255;not null;index" json:"email"`
	Phone       string                      `gorm:"size:32" json:"phone"`
	Company     string                      `gorm:"size:255" json:"company"`
	Services    datatypes.JSONSlice[string] `json:"services"`
	Budget      string                      `gorm:"size:64" json:"budget"`
	Timeline    string                      `gorm:"size:64" json:"timeline"`
	Description string                      `gorm:"type:text" json:"description"`
	BriefURL    string                      `gorm:"size:512" json:"brief_url"`

	FraudScore float64 `gorm:"not null" json:"fraud_score"`

	AdminSummary    string     `gorm:"type:text" json:"admin_summary"`
	Rating          *int       `json:"rating"`
	Priority        string     `gorm:"size:32" json:"priority"`
	FollowUpAt      *time.Time `json:"follow_up_at"`
	EstimatedBudget *float64   `json:"estimated_budget"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Assignments []ProjectAssignment `gorm:"foreignKey:RequestID" json:"assignments,omitempty"`
}
