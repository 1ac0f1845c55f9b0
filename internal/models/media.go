package models

import (
	"time"
)

// Media type values
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Media display modes
const (
	DisplayModeContain = "contain"
	DisplayModeCover   = "cover"
)

// Media represents an image or video attachment belonging to exactly one
// Step. Media is always appended to a step's list (Position = len+1) and
// never moved between steps.
type Media struct {
	MediaID     string `gorm:"primaryKey;type:char(36)" json:"id"`
	StepID      string `gorm:"type:char(36);not null;index" json:"step_id"`
	Type        string `gorm:"size:16;not null" json:"type"`
	URL         string `gorm:"size:2048;not null" json:"url"`
	Filename    string `gorm:"size:512" json:"filename"`
	Size        int64  `json:"size"`
	Caption     string `gorm:"size:1024" json:"caption,omitempty"`
	DisplayMode string `gorm:"size:16;not null;default:'contain'" json:"display_mode"`
	Position    int    `gorm:"not null" json:"position"`
	// Synthetic marks a record fabricated client-side after the fallback
	// upload path succeeded without a server-confirmed media response.
	Synthetic bool      `json:"synthetic,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for Media
func (Media) TableName() string {
	return "media"
}
