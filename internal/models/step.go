package models

import (
	"time"
)

// Step represents one ordered instruction unit within an SOP.
// OrderIndex values are kept contiguous starting at 1 within an SOP:
// every mutation that disturbs the run (delete, move, reorder) renumbers
// inside the same transaction.
type Step struct {
	StepID       string    `gorm:"primaryKey;type:char(36)" json:"id"`
	SopID        string    `gorm:"type:char(36);not null;index" json:"sop_id"`
	OrderIndex   int       `gorm:"not null" json:"order_index"`
	Title        string    `gorm:"size:255" json:"title,omitempty"`
	Instructions string    `gorm:"type:text" json:"instructions"`
	Role         string    `gorm:"size:255" json:"role,omitempty"`
	SafetyNotes  string    `gorm:"type:text" json:"safety_notes,omitempty"`
	Verification string    `gorm:"type:text" json:"verification,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Media        []Media   `gorm:"foreignKey:StepID;constraint:OnDelete:CASCADE" json:"media"`
}

// TableName overrides the table name for Step
func (Step) TableName() string {
	return "steps"
}
