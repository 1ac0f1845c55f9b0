package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sopworks/sopdb/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// SOPInput is the create payload for an SOP.
type SOPInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Status      string            `json:"status"`
	Equipment   []string          `json:"equipment"`
	FiveS       map[string]string `json:"five_s"`
}

// SOPUpdate is the patch payload for an SOP. Nil fields are left alone.
type SOPUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Status      *string `json:"status"`
}

// CreateSOP creates an SOP record. Title is required; status defaults to
// draft and is otherwise unconstrained.
func CreateSOP(db *gorm.DB, ownerID string, input SOPInput) (*models.SOP, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	status := input.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("unknown status: %s", status)
	}

	sop := &models.SOP{
		SopID:       uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Status:      status,
		OwnerID:     ownerID,
	}
	if len(input.Equipment) > 0 {
		raw, err := json.Marshal(input.Equipment)
		if err != nil {
			return nil, err
		}
		sop.Equipment = models.JSON{JSON: datatypes.JSON(raw)}
	}
	if len(input.FiveS) > 0 {
		raw, err := json.Marshal(input.FiveS)
		if err != nil {
			return nil, err
		}
		sop.FiveS = models.JSON{JSON: datatypes.JSON(raw)}
	}

	if err := db.Create(sop).Error; err != nil {
		return nil, err
	}
	return sop, nil
}

// GetSOP returns an SOP with its steps (and their media) in display order.
func GetSOP(db *gorm.DB, sopID string) (*models.SOP, error) {
	var sop models.SOP
	err := db.
		Preload("Steps", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_index ASC")
		}).
		Preload("Steps.Media", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Where("sop_id = ?", sopID).
		First(&sop).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sop, nil
}

// ListSOPs returns all SOPs owned by a user, newest first. Steps are not
// loaded; the list view only needs metadata.
func ListSOPs(db *gorm.DB, ownerID string) ([]models.SOP, error) {
	var sops []models.SOP
	err := db.Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&sops).Error
	return sops, err
}

// UpdateSOP patches SOP metadata. There is no status state machine: any
// valid status may be set by any authorized editor.
func UpdateSOP(db *gorm.DB, sopID string, input SOPUpdate) (*models.SOP, error) {
	var sop models.SOP
	if err := db.Where("sop_id = ?", sopID).First(&sop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		if *input.Title == "" {
			return nil, fmt.Errorf("title is required")
		}
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			return nil, fmt.Errorf("unknown status: %s", *input.Status)
		}
		updates["status"] = *input.Status
	}

	if len(updates) > 0 {
		if err := db.Model(&sop).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &sop, nil
}

// BulkCreateSOP creates an SOP and its steps in one transaction. All or
// nothing: a failure on any step leaves no SOP behind.
func BulkCreateSOP(db *gorm.DB, ownerID string, input SOPInput, steps []StepInput) (*models.SOP, error) {
	var created *models.SOP
	err := db.Transaction(func(tx *gorm.DB) error {
		sop, err := CreateSOP(tx, ownerID, input)
		if err != nil {
			return err
		}
		for i, stepInput := range steps {
			step := &models.Step{
				StepID:       uuid.NewString(),
				SopID:        sop.SopID,
				OrderIndex:   i + 1,
				Title:        stepInput.Title,
				Instructions: stepInput.Instructions,
				Role:         stepInput.Role,
				SafetyNotes:  stepInput.SafetyNotes,
				Verification: stepInput.Verification,
			}
			if err := tx.Create(step).Error; err != nil {
				return err
			}
		}
		created = sop
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetSOP(db, created.SopID)
}
