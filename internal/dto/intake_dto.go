package dto

import (
	"github.com/unilancer-labs/unilancer-api/internal/wizard"
)

// ApplicationSubmitRequest is the finalized freelancer wizard payload.
type ApplicationSubmitRequest struct {
	FullName       string   `json:"full_name" validate:"required,max=255"`
	Email          string   `json:"email" validate:"required,email,max=255"`
	Phone          string   `json:"phone" validate:"required,max=32"`
	Categories     []string `json:"categories" validate:"required,min=1"`
	Expertise      []string `json:"expertise" validate:"required,min=1"`
	About          string   `json:"about" validate:"required"`
	PortfolioURL   string   `json:"portfolio_url" validate:"omitempty,url,max=512"`
	Consent        bool     `json:"consent"`
	ChallengeToken string   `json:"challenge_token"`
}

// FormData maps the request onto the wizard payload so the same rule tables
// gate the UI and the server-side check.
func (r ApplicationSubmitRequest) FormData() wizard.FormData {
	return wizard.FormData{
		FullName:     r.FullName,
		Email:        r.Email,
		Phone:        r.Phone,
		Categories:   r.Categories,
		Expertise:    r.Expertise,
		About:        r.About,
		PortfolioURL: r.PortfolioURL,
		Consent:      r.Consent,
	}
}

// RequestSubmitRequest is the finalized project request wizard payload.
type RequestSubmitRequest struct {
	ContactName    string   `json:"contact_name" validate:"required,max=255"`
	Email          string   `json:"email" validate:"required,email,max=255"`
	Phone          string   `json:"phone" validate:"required,max=32"`
	Company        string   `json:"company" validate:"omitempty,max=255"`
	Services       []string `json:"services" validate:"required,min=1"`
	Budget         string   `json:"budget" validate:"required,max=64"`
	Timeline       string   `json:"timeline" validate:"omitempty,max=64"`
	Description    string   `json:"description" validate:"required"`
	BriefURL       string   `json:"brief_url" validate:"omitempty,url,max=512"`
	Consent        bool     `json:"consent"`
	ChallengeToken string   `json:"challenge_token"`
}

// FormData maps the request onto the wizard payload.
func (r RequestSubmitRequest) FormData() wizard.FormData {
	return wizard.FormData{
		FullName:    r.ContactName,
		Email:       r.Email,
		Phone:       r.Phone,
		Company:     r.Company,
		Services:    r.Services,
		Budget:      r.Budget,
		Timeline:    r.Timeline,
		Description: r.Description,
		BriefURL:    r.BriefURL,
		Consent:     r.Consent,
	}
}

// IntakeResponse acknowledges an accepted submission.
type IntakeResponse struct {
	ReferenceID string  `json:"reference_id"`
	Status      string  `json:"status"`
	FraudScore  float64 `json:"-"`
}

// ContactRequest is the public contact form payload.
type ContactRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=255"`
	Email          string `json:"email" validate:"required,email,max=255"`
	Subject        string `json:"subject" validate:"omitempty,max=255"`
	Message        string `json:"message" validate:"required,min=10,max=5000"`
	Honeypot       string `json:"_note" validate:"omitempty"`
	ChallengeToken string `json:"challenge_token"`
}

// ContactResponse acknowledges a contact message.
type ContactResponse struct {
	ReferenceID string `json:"reference_id"`
	Status      string `json:"status"`
}

// NewsletterRequest is a newsletter opt-in payload.
type NewsletterRequest struct {
	Email  string `json:"email" validate:"required,email,max=255"`
	Source string `json:"source" validate:"omitempty,max=64"`
}

// NewsletterResponse acknowledges an opt-in.
type NewsletterResponse struct {
	Subscribed bool `json:"subscribed"`
}
