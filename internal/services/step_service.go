package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sopworks/sopdb/internal/models"
	"github.com/sopworks/sopdb/internal/types"
	"github.com/sopworks/sopdb/internal/utils"
	"gorm.io/gorm"
)

// StepInput is the create payload for a step.
type StepInput struct {
	Title        string `json:"title"`
	Instructions string `json:"instructions"`
	Role         string `json:"role"`
	SafetyNotes  string `json:"safety_notes"`
	Verification string `json:"verification"`
}

// StepUpdate is the patch payload for a step. Nil fields are left alone.
// A non-nil Media replaces the step's media list (last write wins). Older
// editor builds send a single media object instead of an array, so the
// field is a FlexList.
type StepUpdate struct {
	Title        *string                    `json:"title"`
	Instructions *string                    `json:"instructions"`
	Role         *string                    `json:"role"`
	SafetyNotes  *string                    `json:"safety_notes"`
	Verification *string                    `json:"verification"`
	Media        types.FlexList[MediaInput] `json:"media"`
	HasMedia     bool                       `json:"-"`
}

// StepRetry is the retry policy applied to media-bearing step updates.
// Tests shrink the delays.
var StepRetry = utils.DefaultRetry

// AddStep appends a step to an SOP with order_index = max(existing)+1,
// or 1 when the SOP has no steps yet.
func AddStep(db *gorm.DB, sopID string, input StepInput) (*models.Step, error) {
	var step *models.Step
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.SOP{}).Where("sop_id = ?", sopID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}

		var maxIndex int
		if err := tx.Model(&models.Step{}).
			Where("sop_id = ?", sopID).
			Select("COALESCE(MAX(order_index), 0)").
			Scan(&maxIndex).Error; err != nil {
			return err
		}

		step = &models.Step{
			StepID:       uuid.NewString(),
			SopID:        sopID,
			OrderIndex:   maxIndex + 1,
			Title:        input.Title,
			Instructions: input.Instructions,
			Role:         input.Role,
			SafetyNotes:  input.SafetyNotes,
			Verification: input.Verification,
		}
		return tx.Create(step).Error
	})
	if err != nil {
		return nil, err
	}
	return step, nil
}

// UpdateStep patches step fields. When the patch includes a media change
// the whole persistence runs under the retry policy (3 attempts, backoff
// with jitter) because editors batch media saves with debounced field
// saves and the combined write must not be lost to a transient failure.
func UpdateStep(ctx context.Context, db *gorm.DB, stepID string, input StepUpdate) (*models.Step, error) {
	apply := func() error {
		return db.Transaction(func(tx *gorm.DB) error {
			var step models.Step
			if err := tx.Where("step_id = ?", stepID).First(&step).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}

			updates := map[string]interface{}{}
			if input.Title != nil {
				updates["title"] = *input.Title
			}
			if input.Instructions != nil {
				updates["instructions"] = *input.Instructions
			}
			if input.Role != nil {
				updates["role"] = *input.Role
			}
			if input.SafetyNotes != nil {
				updates["safety_notes"] = *input.SafetyNotes
			}
			if input.Verification != nil {
				updates["verification"] = *input.Verification
			}
			if len(updates) > 0 {
				if err := tx.Model(&step).Updates(updates).Error; err != nil {
					return err
				}
			}

			if input.HasMedia {
				if err := replaceStepMedia(tx, stepID, input.Media.Slice()); err != nil {
					return err
				}
			}
			return nil
		})
	}

	var err error
	if input.HasMedia {
		// Retrying cannot create a missing step; check once up front.
		var count int64
		if err := db.Model(&models.Step{}).Where("step_id = ?", stepID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrNotFound
		}
		err = utils.Retry(ctx, StepRetry, apply)
	} else {
		err = apply()
	}
	if err != nil {
		return nil, err
	}

	var step models.Step
	if err := db.Preload("Media", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	}).Where("step_id = ?", stepID).First(&step).Error; err != nil {
		return nil, err
	}
	return &step, nil
}

// DeleteStep removes a step and renumbers the remaining steps of the SOP
// to a contiguous 1..N run, all inside one transaction. The old per-step
// renumbering loop could be interrupted mid-way and leave holes; this
// cannot.
func DeleteStep(db *gorm.DB, stepID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var step models.Step
		if err := tx.Where("step_id = ?", stepID).First(&step).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Where("step_id = ?", stepID).Delete(&models.Step{}).Error; err != nil {
			return err
		}

		return renumber(tx, step.SopID)
	})
}

// MoveStep swaps order_index with the adjacent step. Moving the first step
// up or the last step down is a no-op; the returned bool reports whether a
// move happened.
func MoveStep(db *gorm.DB, stepID, direction string) (bool, error) {
	if direction != "up" && direction != "down" {
		return false, fmt.Errorf("unknown direction: %s", direction)
	}

	moved := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var step models.Step
		if err := tx.Where("step_id = ?", stepID).First(&step).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		target := step.OrderIndex - 1
		if direction == "down" {
			target = step.OrderIndex + 1
		}

		var neighbor models.Step
		err := tx.Where("sop_id = ? AND order_index = ?", step.SopID, target).First(&neighbor).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // boundary, nothing to do
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Step{}).Where("step_id = ?", step.StepID).
			Update("order_index", neighbor.OrderIndex).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Step{}).Where("step_id = ?", neighbor.StepID).
			Update("order_index", step.OrderIndex).Error; err != nil {
			return err
		}
		moved = true
		return nil
	})
	return moved, err
}

// ReorderSteps applies a full ordering in one transaction. The id list
// must contain exactly the SOP's steps; order_index becomes the position
// in the list (1-based).
func ReorderSteps(db *gorm.DB, sopID string, orderedIDs []string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var steps []models.Step
		if err := tx.Where("sop_id = ?", sopID).Find(&steps).Error; err != nil {
			return err
		}
		if len(steps) == 0 {
			return ErrNotFound
		}
		if len(orderedIDs) != len(steps) {
			return fmt.Errorf("reorder list has %d ids, sop has %d steps", len(orderedIDs), len(steps))
		}

		existing := make(map[string]struct{}, len(steps))
		for _, s := range steps {
			existing[s.StepID] = struct{}{}
		}
		for _, id := range orderedIDs {
			if _, ok := existing[id]; !ok {
				return fmt.Errorf("step %s does not belong to sop %s", id, sopID)
			}
		}

		for i, id := range orderedIDs {
			if err := tx.Model(&models.Step{}).Where("step_id = ?", id).
				Update("order_index", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// renumber rewrites order_index as 1..N in current display order.
func renumber(tx *gorm.DB, sopID string) error {
	var steps []models.Step
	if err := tx.Where("sop_id = ?", sopID).Order("order_index ASC").Find(&steps).Error; err != nil {
		return err
	}
	for i, step := range steps {
		if step.OrderIndex == i+1 {
			continue
		}
		if err := tx.Model(&models.Step{}).Where("step_id = ?", step.StepID).
			Update("order_index", i+1).Error; err != nil {
			return err
		}
	}
	return nil
}
