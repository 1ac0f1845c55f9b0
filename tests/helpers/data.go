// data.go
//
// sopdb: SOP authoring data service
// Copyright (c) 2026 SOPWorks LLC (https://www.sopworks.io)
// SPDX-License-Identifier: MIT

package helpers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sopworks/sopdb/internal/models"
	"gorm.io/gorm"
)

// CreateTestSOP creates an SOP owned by the given user and returns its id.
func CreateTestSOP(t *testing.T, db *gorm.DB, ownerID, title string) string {
	sop := models.SOP{
		SopID:   uuid.NewString(),
		Title:   title,
		Status:  models.StatusDraft,
		OwnerID: ownerID,
	}
	if err := db.Create(&sop).Error; err != nil {
		t.Fatalf("Failed to create SOP: %v", err)
	}
	return sop.SopID
}

// CreateTestSteps appends numbered steps to an SOP and returns their ids
// in order.
func CreateTestSteps(t *testing.T, db *gorm.DB, sopID string, instructions []string) []string {
	ids := make([]string, 0, len(instructions))
	for i, text := range instructions {
		step := models.Step{
			StepID:       uuid.NewString(),
			SopID:        sopID,
			OrderIndex:   i + 1,
			Instructions: text,
		}
		if err := db.Create(&step).Error; err != nil {
			t.Fatalf("Failed to create step %d: %v", i+1, err)
		}
		ids = append(ids, step.StepID)
	}
	return ids
}

// CreateTestMedia attaches a media record at the end of a step's list.
func CreateTestMedia(t *testing.T, db *gorm.DB, stepID, mediaType, url string, position int) string {
	media := models.Media{
		MediaID:     uuid.NewString(),
		StepID:      stepID,
		Type:        mediaType,
		URL:         url,
		DisplayMode: models.DisplayModeContain,
		Position:    position,
	}
	if err := db.Create(&media).Error; err != nil {
		t.Fatalf("Failed to create media: %v", err)
	}
	return media.MediaID
}
