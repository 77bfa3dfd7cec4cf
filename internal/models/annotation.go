package models

import (
	"time"

	"gorm.io/datatypes"
)

// AdminNote is a free-text annotation an administrator attaches to a record.
// Notes are immutable once written; the only mutation is a hard delete.
type AdminNote struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	RecordKind RecordKind `gorm:"size:16;not null;index:idx_note_record" json:"record_kind"`
	RecordID   uint       `gorm:"not null;index:idx_note_record" json:"record_id"`
	Author     string     `gorm:"size:128" json:"author"`
	Body       string     `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ActivityLog is the append-only audit trail of system-generated events on a
// record. Entries are never authored directly, edited, or removed.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	RecordKind RecordKind        `gorm:"size:16;not null;index:idx_activity_record" json:"record_kind"`
	RecordID   uint              `gorm:"not null;index:idx_activity_record" json:"record_id"`
	Actor      string            `gorm:"size:128;not null" json:"actor"`
	Action     string            `gorm:"size:64;not null" json:"action"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}
