package models

import "time"

// Assignment sub-statuses, independent of the parent request lifecycle.
const (
	AssignmentNotStarted = "not_started"
	AssignmentInProgress = "in_progress"
	AssignmentCompleted  = "completed"
)

var assignmentStatuses = map[string]struct{}{
	AssignmentNotStarted: {},
	AssignmentInProgress: {},
	AssignmentCompleted:  {},
}

// ValidAssignmentStatus reports whether status is a known assignment sub-status.
func ValidAssignmentStatus(status string) bool {
	_, ok := assignmentStatuses[status]
	return ok
}

// ProjectAssignment links one freelancer application to one project request.
// The (request, freelancer) pair is unique; re-assigning the same pair is
// rejected rather than duplicated.
type ProjectAssignment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RequestID    uint      `gorm:"not null;uniqueIndex:idx_assignment_pair" json:"request_id"`
	FreelancerID uint      `gorm:"not null;uniqueIndex:idx_assignment_pair" json:"freelancer_id"`
	Role         string    `gorm:"size:64;not null" json:"role"`
	Status       string    `gorm:"size:32;not null;default:not_started" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
