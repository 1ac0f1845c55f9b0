package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sopworks/sopdb/internal/services"
	"github.com/sopworks/sopdb/internal/types"
	"github.com/sopworks/sopdb/internal/utils"
)

// AIHandler handles suggestion routes
type AIHandler struct {
	Suggestions *services.SuggestionService
}

// SuggestRequest asks for generated text.
type SuggestRequest struct {
	Kind   string `json:"kind"` // "instructions", "steps" or "media"
	Prompt string `json:"prompt"`
}

// SuggestResponse carries the generated text.
type SuggestResponse struct {
	Suggestion string `json:"suggestion"`
}

// Suggest handles POST /api/ai/suggest
// @Summary Generate a suggestion
// @Description Generate instruction text, step proposals or media ideas for a procedure
// @Tags AI
// @Accept json
// @Produce json
// @Param body body SuggestRequest true "Suggestion request"
// @Success 200 {object} SuggestResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /ai/suggest [post]
func (h *AIHandler) Suggest(c *fiber.Ctx) error {
	if h.Suggestions == nil {
		return utils.ErrorResponse(c, "Suggestions are not configured", fiber.StatusServiceUnavailable, "aiSuggest")
	}

	var req SuggestRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "aiSuggest")
	}
	if req.Prompt == "" {
		return utils.ErrorResponse(c, "prompt is required", fiber.StatusBadRequest, "aiSuggest")
	}

	text, err := h.Suggestions.Suggest(c.UserContext(), req.Kind, req.Prompt)
	if err != nil {
		kind := types.Classify(err)
		status := fiber.StatusBadGateway
		if kind == types.KindTimeout {
			status = fiber.StatusGatewayTimeout
		}
		return utils.ErrorResponse(c, err.Error(), status, kind)
	}
	return c.Status(fiber.StatusOK).JSON(SuggestResponse{Suggestion: text})
}
