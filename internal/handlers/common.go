// common.go
//
// sopdb: SOP authoring data service
// Copyright (c) 2026 SOPWorks LLC (https://www.sopworks.io)
// SPDX-License-Identifier: MIT

package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sopworks/sopdb/internal/identity"
	"github.com/sopworks/sopdb/internal/services"
	"github.com/sopworks/sopdb/internal/types"
	"github.com/sopworks/sopdb/internal/utils"
)

// identityFrom returns the authenticated identity set by the auth
// middleware.
func identityFrom(c *fiber.Ctx) identity.Identity {
	ident, _ := c.Locals("identity").(identity.Identity)
	return ident
}

// isValidationError reports whether a store error is the caller's fault.
func isValidationError(err error) bool {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "required"),
		strings.Contains(msg, "unknown status"),
		strings.Contains(msg, "unknown direction"),
		strings.Contains(msg, "reorder list"),
		strings.Contains(msg, "does not belong"):
		return true
	}
	return false
}

// serviceError converts a store error into the standard error envelope.
func serviceError(c *fiber.Ctx, err error, errorType string) error {
	if errors.Is(err, services.ErrNotFound) {
		return utils.NotFoundResponse(c, "Resource not found")
	}
	if isValidationError(err) {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, errorType)
	}
	kind := types.Classify(err)
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, kind)
}
