package handlers

import (
	"log"

	businessflow "github.com/amirphl/mushola/business_flow"
	"github.com/amirphl/mushola/utils"
	"github.com/gofiber/fiber/v3"
)

// ContentHandlerInterface defines the contract for static content handlers
type ContentHandlerInterface interface {
	Adzan(c fiber.Ctx) error
	Doa(c fiber.Ctx) error
}

// ContentHandler serves the fixed devotional documents
type ContentHandler struct {
	flow       businessflow.ContentFlow
	production bool
}

// NewContentHandler creates a new content handler
func NewContentHandler(flow businessflow.ContentFlow, production bool) *ContentHandler {
	return &ContentHandler{flow: flow, production: production}
}

// Adzan returns the adzan text with audio references.
// @Summary Adzan
// @Description Adzan phrases in Arabic with transliteration, translation and audio ranges
// @Tags Content
// @Produce json
// @Success 200 {object} dto.ContentResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/adzan [get]
func (h *ContentHandler) Adzan(c fiber.Ctx) error {
	return h.serve(c, businessflow.TopicAdzan)
}

// Doa returns the prayer recited after the adzan.
// @Summary Doa
// @Description Doa after adzan in Arabic with transliteration, translation and audio ranges
// @Tags Content
// @Produce json
// @Success 200 {object} dto.ContentResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/doa [get]
func (h *ContentHandler) Doa(c fiber.Ctx) error {
	return h.serve(c, businessflow.TopicDoa)
}

func (h *ContentHandler) serve(c fiber.Ctx, topic string) error {
	ctx, cancel := createRequestContext(0)
	defer cancel()

	resp, err := h.flow.GetContent(ctx, topic, c.BaseURL())
	if err != nil {
		log.Printf("content: %s failed: %v", topic, err)
		if businessflow.IsUnknownTopic(err) {
			return businessErrorResponse(c, err, h.production)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR", err, h.production)
	}

	c.Set(fiber.HeaderCacheControl, utils.ContentCacheControl)
	return c.Status(fiber.StatusOK).JSON(resp)
}
