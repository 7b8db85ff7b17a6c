package handlers

import (
	"time"

	"github.com/amirphl/mushola/app/dto"
	businessflow "github.com/amirphl/mushola/business_flow"
	"github.com/gofiber/fiber/v3"
)

// UploadHandlerInterface defines the contract for upload handlers
type UploadHandlerInterface interface {
	Upload(c fiber.Ctx) error
	UploadChunk(c fiber.Ctx) error
	Options(c fiber.Ctx) error
}

// UploadHandler proxies uploads to the pinning provider
type UploadHandler struct {
	uploadFlow     businessflow.UploadFlow
	chunkFlow      businessflow.ChunkUploadFlow
	production     bool
	requestTimeout time.Duration
}

// NewUploadHandler creates a new upload handler. requestTimeout must exceed the provider timeout.
func NewUploadHandler(uploadFlow businessflow.UploadFlow, chunkFlow businessflow.ChunkUploadFlow, production bool, requestTimeout time.Duration) *UploadHandler {
	return &UploadHandler{
		uploadFlow:     uploadFlow,
		chunkFlow:      chunkFlow,
		production:     production,
		requestTimeout: requestTimeout,
	}
}

// Upload forwards one image to the pinning provider.
// @Summary Upload image
// @Description Upload a JPEG, PNG or GIF image (<=50MB) to IPFS through Filebase
// @Tags Upload
// @Accept mpfd
// @Produce json
// @Param file formData file true "Image file (<=50MB)"
// @Success 200 {object} dto.UploadFileResponse "Upload successful"
// @Failure 400 {object} dto.ErrorResponse "Missing file, invalid type or too large"
// @Failure 500 {object} dto.ErrorResponse "Provider failure"
// @Router /api/upload [post]
func (h *UploadHandler) Upload(c fiber.Ctx) error {
	req := dto.UploadFileRequest{}

	if fileHeader, err := c.FormFile("file"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, businessflow.MsgNoFile, businessflow.CodeNoFile, err, h.production)
		}
		defer file.Close()

		req.OriginalFilename = fileHeader.Filename
		req.FileSize = fileHeader.Size
		req.ContentType = fileHeader.Header.Get("Content-Type")
		req.File = file
	}

	ctx, cancel := createRequestContext(h.requestTimeout)
	defer cancel()

	result, err := h.uploadFlow.UploadFile(ctx, &req, clientMetadata(c))
	if err != nil {
		return businessErrorResponse(c, err, h.production)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// UploadChunk acknowledges one chunk of a chunked upload.
// @Summary Upload chunk
// @Description Acknowledge a chunk; the final chunk completes the upload with a generated CID
// @Tags Upload
// @Accept mpfd
// @Produce json
// @Param chunk formData file true "Chunk bytes"
// @Param chunkIndex formData int true "Zero based chunk index"
// @Param totalChunks formData int true "Number of chunks"
// @Param fileName formData string true "Original file name"
// @Param fileId formData string true "Client generated file id"
// @Success 200 {object} dto.UploadChunkResponse "Chunk accepted"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid fields"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/upload/chunk [post]
func (h *UploadHandler) UploadChunk(c fiber.Ctx) error {
	req := dto.UploadChunkRequest{
		ChunkIndex:  c.FormValue("chunkIndex"),
		TotalChunks: c.FormValue("totalChunks"),
		FileName:    c.FormValue("fileName"),
		FileID:      c.FormValue("fileId"),
	}

	if fileHeader, err := c.FormFile("chunk"); err == nil && fileHeader != nil {
		chunk, err := fileHeader.Open()
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, businessflow.MsgMissingFields, businessflow.CodeMissingFields, err, h.production)
		}
		defer chunk.Close()

		req.Chunk = chunk
	}

	ctx, cancel := createRequestContext(h.requestTimeout)
	defer cancel()

	result, err := h.chunkFlow.UploadChunk(ctx, &req, clientMetadata(c))
	if err != nil {
		return businessErrorResponse(c, err, h.production)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// Options answers CORS preflight requests with an empty body
// @Summary Upload preflight
// @Tags Upload
// @Success 204
// @Router /api/upload [options]
// @Router /api/upload/chunk [options]
func (h *UploadHandler) Options(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
