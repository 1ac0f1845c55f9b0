// sop.go
//
// sopdb: SOP authoring data service
// Copyright (c) 2026 SOPWorks LLC (https://www.sopworks.io)
// SPDX-License-Identifier: MIT

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sopworks/sopdb/internal/services"
	"github.com/sopworks/sopdb/internal/utils"
	"gorm.io/gorm"
)

// SOPHandler handles SOP routes
type SOPHandler struct {
	DB *gorm.DB
}

// BulkCreateRequest is the transactional create payload: SOP metadata
// plus all steps in display order.
type BulkCreateRequest struct {
	services.SOPInput
	Steps []services.StepInput `json:"steps"`
}

// ListSOPs handles GET /api/sops
// @Summary List SOPs
// @Description List all SOPs owned by the authenticated user
// @Tags SOP
// @Produce json
// @Success 200 {array} models.SOP
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sops [get]
func (h *SOPHandler) ListSOPs(c *fiber.Ctx) error {
	ident := identityFrom(c)

	sops, err := services.ListSOPs(h.DB, ident.ID)
	if err != nil {
		return serviceError(c, err, "listSops")
	}
	return c.Status(fiber.StatusOK).JSON(sops)
}

// CreateSOP handles POST /api/sops
// @Summary Create an SOP
// @Description Create a new SOP owned by the authenticated user
// @Tags SOP
// @Accept json
// @Produce json
// @Param body body services.SOPInput true "SOP fields"
// @Success 201 {object} models.SOP
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sops [post]
func (h *SOPHandler) CreateSOP(c *fiber.Ctx) error {
	ident := identityFrom(c)

	var input services.SOPInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "createSop")
	}

	sop, err := services.CreateSOP(h.DB, ident.ID, input)
	if err != nil {
		return serviceError(c, err, "createSop")
	}
	return c.Status(fiber.StatusCreated).JSON(sop)
}

// GetSOP handles GET /api/sops/:id
// @Summary Get an SOP
// @Description Get an SOP with its steps and media in display order
// @Tags SOP
// @Produce json
// @Param id path string true "SOP ID"
// @Success 200 {object} models.SOP
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sops/{id} [get]
func (h *SOPHandler) GetSOP(c *fiber.Ctx) error {
	sop, err := services.GetSOP(h.DB, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "getSop")
	}
	return c.Status(fiber.StatusOK).JSON(sop)
}

// UpdateSOP handles PUT /api/sops/:id
// @Summary Update an SOP
// @Description Patch SOP title, description, category or status
// @Tags SOP
// @Accept json
// @Produce json
// @Param id path string true "SOP ID"
// @Param body body services.SOPUpdate true "Fields to update"
// @Success 200 {object} models.SOP
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sops/{id} [put]
func (h *SOPHandler) UpdateSOP(c *fiber.Ctx) error {
	var input services.SOPUpdate
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "updateSop")
	}

	sop, err := services.UpdateSOP(h.DB, c.Params("id"), input)
	if err != nil {
		return serviceError(c, err, "updateSop")
	}
	return c.Status(fiber.StatusOK).JSON(sop)
}

// BulkCreateSOP handles POST /api/sops/bulk
// @Summary Create an SOP with steps
// @Description Create an SOP and all of its steps in one transaction
// @Tags SOP
// @Accept json
// @Produce json
// @Param body body BulkCreateRequest true "SOP and steps"
// @Success 201 {object} models.SOP
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sops/bulk [post]
func (h *SOPHandler) BulkCreateSOP(c *fiber.Ctx) error {
	ident := identityFrom(c)

	var req BulkCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "bulkCreateSop")
	}

	sop, err := services.BulkCreateSOP(h.DB, ident.ID, req.SOPInput, req.Steps)
	if err != nil {
		return serviceError(c, err, "bulkCreateSop")
	}
	return c.Status(fiber.StatusCreated).JSON(sop)
}
