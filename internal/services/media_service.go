// media_service.go
//
// sopdb: SOP authoring data service
// Copyright (c) 2026 SOPWorks LLC (https://www.sopworks.io)
// SPDX-License-Identifier: MIT

package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sopworks/sopdb/internal/models"
	"github.com/sopworks/sopdb/internal/types"
	"gorm.io/gorm"
)

// MediaInput is one entry of a step's media list in an update payload.
// Entries with a known ID are updated in place; entries without one are
// created (synthetic records arrive this way after a fallback upload).
type MediaInput struct {
	ID          string           `json:"id"`
	Type        string           `json:"type"`
	URL         string           `json:"url"`
	Filename    string           `json:"filename"`
	Size        types.FlexUint64 `json:"size"`
	Caption     string           `json:"caption"`
	DisplayMode string           `json:"display_mode"`
	Synthetic   bool             `json:"synthetic"`
}

// AppendMedia attaches a media record to the end of a step's media list.
func AppendMedia(db *gorm.DB, stepID string, media *models.Media) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Step{}).Where("step_id = ?", stepID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}

		var listLen int64
		if err := tx.Model(&models.Media{}).Where("step_id = ?", stepID).Count(&listLen).Error; err != nil {
			return err
		}

		media.StepID = stepID
		media.Position = int(listLen) + 1
		if media.MediaID == "" {
			media.MediaID = uuid.NewString()
		}
		if media.DisplayMode == "" {
			media.DisplayMode = models.DisplayModeContain
		}
		return tx.Create(media).Error
	})
}

// replaceStepMedia makes the step's media rows match the given list, in
// order. Rows absent from the list are deleted; last write wins. Callers
// hold the transaction.
func replaceStepMedia(tx *gorm.DB, stepID string, inputs []MediaInput) error {
	var existing []models.Media
	if err := tx.Where("step_id = ?", stepID).Find(&existing).Error; err != nil {
		return err
	}
	known := make(map[string]models.Media, len(existing))
	for _, m := range existing {
		known[m.MediaID] = m
	}

	keep := make(map[string]struct{}, len(inputs))
	for i, in := range inputs {
		position := i + 1
		if current, ok := known[in.ID]; in.ID != "" && ok {
			keep[in.ID] = struct{}{}
			updates := map[string]interface{}{
				"caption":  in.Caption,
				"position": position,
			}
			if in.DisplayMode != "" {
				updates["display_mode"] = in.DisplayMode
			}
			if err := tx.Model(&current).Updates(updates).Error; err != nil {
				return err
			}
			continue
		}

		media := models.Media{
			MediaID:     in.ID,
			StepID:      stepID,
			Type:        in.Type,
			URL:         in.URL,
			Filename:    in.Filename,
			Size:        int64(in.Size.Uint64()),
			Caption:     in.Caption,
			DisplayMode: in.DisplayMode,
			Position:    position,
			Synthetic:   in.Synthetic,
		}
		if media.MediaID == "" {
			media.MediaID = uuid.NewString()
		}
		if media.DisplayMode == "" {
			media.DisplayMode = models.DisplayModeContain
		}
		if err := tx.Create(&media).Error; err != nil {
			return err
		}
		keep[media.MediaID] = struct{}{}
	}

	for id := range known {
		if _, ok := keep[id]; !ok {
			if err := tx.Where("media_id = ?", id).Delete(&models.Media{}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// GetStepMedia returns a step's media in display order.
func GetStepMedia(db *gorm.DB, stepID string) ([]models.Media, error) {
	var media []models.Media
	err := db.Where("step_id = ?", stepID).Order("position ASC").Find(&media).Error
	return media, err
}

// StepExists reports whether a step belongs to the given SOP.
func StepExists(db *gorm.DB, sopID, stepID string) (bool, error) {
	var count int64
	err := db.Model(&models.Step{}).
		Where("sop_id = ? AND step_id = ?", sopID, stepID).
		Count(&count).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return count > 0, nil
}
