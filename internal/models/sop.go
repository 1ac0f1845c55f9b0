package models

import (
	"time"
)

// SOP status values. Transitions are not constrained server-side; any
// authorized editor may set any status.
const (
	StatusDraft     = "draft"
	StatusReview    = "review"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// ValidStatus reports whether s is one of the known SOP statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusReview, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// SOP represents a Standard Operating Procedure document
type SOP struct {
	SopID       string    `gorm:"primaryKey;type:char(36)" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Category    string    `gorm:"size:255" json:"category,omitempty"`
	Status      string    `gorm:"size:32;not null;default:'draft'" json:"status"`
	OwnerID     string    `gorm:"type:char(36);not null;index" json:"owner_id"`
	Equipment   JSON      `gorm:"type:json" json:"equipment,omitempty"`
	FiveS       JSON      `gorm:"type:json" json:"five_s,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Steps       []Step    `gorm:"foreignKey:SopID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
}

// TableName overrides the table name for SOP
func (SOP) TableName() string {
	return "sops"
}
