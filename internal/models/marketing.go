package models

import "time"

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ReferenceID string    `gorm:"size:64;uniqueIndex;not null" json:"reference_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Email       string    `gorm:"size:255;not null" json:"email"`
	Subject     string    `gorm:"size:255" json:"subject"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	Status      string    `gorm:"size:32;not null;default:queued" json:"status"`
	Checksum    string    `gorm:"size:64;index" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewsletterSubscription records an opt-in email address. Subscribing an
// address twice is a no-op rather than an error.
type NewsletterSubscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Source    string    `gorm:"size:64" json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
