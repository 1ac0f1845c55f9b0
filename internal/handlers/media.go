package handlers

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/sopworks/sopdb/internal/services"
	"github.com/sopworks/sopdb/internal/types"
	"github.com/sopworks/sopdb/internal/upload"
	"github.com/sopworks/sopdb/internal/utils"
	"gorm.io/gorm"
)

// MediaHandler handles media upload and listing routes
type MediaHandler struct {
	DB             *gorm.DB
	Pipeline       *upload.Pipeline
	MaxUploadBytes int64
}

// UploadMedia handles POST /api/sops/:sop/steps/:step/media
// @Summary Upload a media file
// @Description Upload an image or video for a step; the server path is tried first with a direct-storage fallback
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Param sop path string true "SOP ID"
// @Param step path string true "Step ID"
// @Param file formData file true "Image or video file"
// @Success 201 {object} models.Media
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 413 {object} utils.ErrorResponseStruct
// @Failure 415 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sops/{sop}/steps/{step}/media [post]
func (h *MediaHandler) UploadMedia(c *fiber.Ctx) error {
	sopID := c.Params("sop")
	stepID := c.Params("step")

	ok, err := services.StepExists(h.DB, sopID, stepID)
	if err != nil {
		return serviceError(c, err, "uploadMedia")
	}
	if !ok {
		return utils.NotFoundResponse(c, "Step not found")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, "Missing file field", fiber.StatusBadRequest, "uploadMedia")
	}
	if h.MaxUploadBytes > 0 && fileHeader.Size > h.MaxUploadBytes {
		return utils.ErrorResponse(c,
			fmt.Sprintf("File exceeds the %d byte upload limit", h.MaxUploadBytes),
			fiber.StatusRequestEntityTooLarge, types.KindFileTooLarge)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if _, err := upload.MediaTypeFor(contentType); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnsupportedMediaType, types.KindUnsupportedFormat)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(c, "Could not read uploaded file", fiber.StatusBadRequest, "uploadMedia")
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		return utils.ErrorResponse(c, "Could not read uploaded file", fiber.StatusBadRequest, "uploadMedia")
	}

	req := &upload.Request{
		SopID:       sopID,
		StepID:      stepID,
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Size:        fileHeader.Size,
		Content:     content,
		Credential:  bearerCredential(c),
	}

	media, err := h.Pipeline.Run(c.UserContext(), req)
	if err != nil {
		kind := types.Classify(err)
		status := fiber.StatusBadGateway
		if errors.Is(err, types.ErrStorageMisconfigured) {
			status = fiber.StatusServiceUnavailable
		}
		return utils.ErrorResponse(c, err.Error(), status, kind)
	}

	if err := services.AppendMedia(h.DB, stepID, media); err != nil {
		return serviceError(c, err, "uploadMedia")
	}
	return c.Status(fiber.StatusCreated).JSON(media)
}

// ListMedia handles GET /api/sops/:sop/steps/:step/media
// @Summary List step media
// @Description List a step's media in display order
// @Tags Media
// @Produce json
// @Param sop path string true "SOP ID"
// @Param step path string true "Step ID"
// @Success 200 {array} models.Media
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sops/{sop}/steps/{step}/media [get]
func (h *MediaHandler) ListMedia(c *fiber.Ctx) error {
	ok, err := services.StepExists(h.DB, c.Params("sop"), c.Params("step"))
	if err != nil {
		return serviceError(c, err, "listMedia")
	}
	if !ok {
		return utils.NotFoundResponse(c, "Step not found")
	}

	media, err := services.GetStepMedia(h.DB, c.Params("step"))
	if err != nil {
		return serviceError(c, err, "listMedia")
	}
	return c.Status(fiber.StatusOK).JSON(media)
}

// bearerCredential extracts the raw bearer token so the primary upload
// path can forward it to the legacy route.
func bearerCredential(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
