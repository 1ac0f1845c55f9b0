package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sopworks/sopdb/internal/utils"
	"github.com/sopworks/sopdb/internal/wizard"
)

// WizardHandler handles the conversational authoring routes
type WizardHandler struct {
	Wizard *wizard.Wizard
	Drafts wizard.DraftStore
}

// WizardMessageRequest is one user message to the wizard.
type WizardMessageRequest struct {
	Text string `json:"text"`
}

// WizardMessageResponse is the wizard's reply plus session state.
type WizardMessageResponse struct {
	Reply     string `json:"reply"`
	Stage     string `json:"stage"`
	Finalized bool   `json:"finalized"`
	SopID     string `json:"sop_id,omitempty"`
}

// Message handles POST /api/wizard/message
// @Summary Send a wizard message
// @Description Advance the conversational SOP authoring session by one message; the draft is saved after every turn
// @Tags Wizard
// @Accept json
// @Produce json
// @Param body body WizardMessageRequest true "User message"
// @Success 200 {object} WizardMessageResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /wizard/message [post]
func (h *WizardHandler) Message(c *fiber.Ctx) error {
	ident := identityFrom(c)

	var req WizardMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "wizardMessage")
	}

	ctx := wizard.WithOwner(c.UserContext(), ident.ID)

	draft, err := h.Drafts.Load(ctx, ident.ID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "wizardMessage")
	}
	if draft == nil {
		draft = wizard.NewDraft()
	}

	reply, handleErr := h.Wizard.Handle(ctx, draft, req.Text)

	// Persist state even when finalize failed partway; the user retries
	// from the draft, not from scratch.
	if reply.Cleared {
		if err := h.Drafts.Clear(ctx, ident.ID); err != nil {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "wizardMessage")
		}
	} else if err := h.Drafts.Save(ctx, ident.ID, draft); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "wizardMessage")
	}

	resp := WizardMessageResponse{
		Reply:     reply.Text,
		Stage:     string(draft.Stage),
		Finalized: reply.Finalized,
		SopID:     reply.SopID,
	}
	if handleErr != nil && !reply.Finalized {
		// The reply text already explains the failure; the session stays
		// usable, so this is still a 200 with the error noted.
		resp.Stage = string(draft.Stage)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetDraft handles GET /api/wizard/draft
// @Summary Get the saved draft
// @Description Return the user's in-progress wizard draft, if any
// @Tags Wizard
// @Produce json
// @Success 200 {object} wizard.Draft
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /wizard/draft [get]
func (h *WizardHandler) GetDraft(c *fiber.Ctx) error {
	ident := identityFrom(c)

	draft, err := h.Drafts.Load(c.UserContext(), ident.ID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "wizardDraft")
	}
	if draft == nil {
		return utils.NotFoundResponse(c, "No draft in progress")
	}
	return c.Status(fiber.StatusOK).JSON(draft)
}

// ClearDraft handles DELETE /api/wizard/draft
// @Summary Discard the saved draft
// @Description Delete the user's in-progress wizard draft
// @Tags Wizard
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /wizard/draft [delete]
func (h *WizardHandler) ClearDraft(c *fiber.Ctx) error {
	ident := identityFrom(c)

	if err := h.Drafts.Clear(c.UserContext(), ident.ID); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "wizardDraft")
	}
	return utils.MutationSuccessResponse(c, 1)
}
