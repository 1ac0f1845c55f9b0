package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/sopworks/sopdb/internal/services"
	"github.com/sopworks/sopdb/internal/utils"
	"gorm.io/gorm"
)

// StepHandler handles step routes
type StepHandler struct {
	DB *gorm.DB
}

// MoveRequest asks to move a step one position.
type MoveRequest struct {
	Direction string `json:"direction"` // "up" or "down"
}

// ReorderRequest carries the full step ordering for an SOP.
type ReorderRequest struct {
	StepIDs []string `json:"step_ids"`
}

// AddStep handles POST /api/sops/:id/steps
// @Summary Add a step
// @Description Append a step to an SOP; the step is numbered after the current last step
// @Tags Step
// @Accept json
// @Produce json
// @Param id path string true "SOP ID"
// @Param body body services.StepInput true "Step fields"
// @Success 201 {object} models.Step
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sops/{id}/steps [post]
func (h *StepHandler) AddStep(c *fiber.Ctx) error {
	var input services.StepInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "addStep")
	}

	step, err := services.AddStep(h.DB, c.Params("id"), input)
	if err != nil {
		return serviceError(c, err, "addStep")
	}
	return c.Status(fiber.StatusCreated).JSON(step)
}

// UpdateStep handles PUT /api/steps/:id
// @Summary Update a step
// @Description Patch step fields; a media array in the body replaces the step's media list
// @Tags Step
// @Accept json
// @Produce json
// @Param id path string true "Step ID"
// @Param body body services.StepUpdate true "Fields to update"
// @Success 200 {object} models.Step
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /steps/{id} [put]
func (h *StepHandler) UpdateStep(c *fiber.Ctx) error {
	var input services.StepUpdate
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "updateStep")
	}

	// Distinguish "media omitted" from "media: []", which clears the list.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &probe); err == nil {
		_, input.HasMedia = probe["media"]
	}

	step, err := services.UpdateStep(c.UserContext(), h.DB, c.Params("id"), input)
	if err != nil {
		return serviceError(c, err, "updateStep")
	}
	return c.Status(fiber.StatusOK).JSON(step)
}

// DeleteStep handles DELETE /api/steps/:id
// @Summary Delete a step
// @Description Delete a step and renumber the SOP's remaining steps contiguously
// @Tags Step
// @Produce json
// @Param id path string true "Step ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /steps/{id} [delete]
func (h *StepHandler) DeleteStep(c *fiber.Ctx) error {
	if err := services.DeleteStep(h.DB, c.Params("id")); err != nil {
		return serviceError(c, err, "deleteStep")
	}
	return utils.MutationSuccessResponse(c, 1)
}

// MoveStep handles POST /api/steps/:id/move
// @Summary Move a step
// @Description Swap a step with its neighbor; moving past either end is a no-op
// @Tags Step
// @Accept json
// @Produce json
// @Param id path string true "Step ID"
// @Param body body MoveRequest true "Move direction"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /steps/{id}/move [post]
func (h *StepHandler) MoveStep(c *fiber.Ctx) error {
	var req MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "moveStep")
	}

	moved, err := services.MoveStep(h.DB, c.Params("id"), req.Direction)
	if err != nil {
		return serviceError(c, err, "moveStep")
	}
	affected := int64(0)
	if moved {
		affected = 2
	}
	return utils.MutationSuccessResponse(c, affected)
}

// ReorderSteps handles POST /api/sops/:id/steps/reorder
// @Summary Reorder steps
// @Description Apply a complete new ordering to an SOP's steps in one transaction
// @Tags Step
// @Accept json
// @Produce json
// @Param id path string true "SOP ID"
// @Param body body ReorderRequest true "Step IDs in display order"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sops/{id}/steps/reorder [post]
func (h *StepHandler) ReorderSteps(c *fiber.Ctx) error {
	var req ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "reorderSteps")
	}

	if err := services.ReorderSteps(h.DB, c.Params("id"), req.StepIDs); err != nil {
		return serviceError(c, err, "reorderSteps")
	}
	return utils.MutationSuccessResponse(c, int64(len(req.StepIDs)))
}
