package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/ports"
)

type MirandaHandler struct {
	miranda   ports.MirandaService
	assistant ports.AssistantService
	log       *zap.Logger
}

func NewMirandaHandler(miranda ports.MirandaService, assistant ports.AssistantService, log *zap.Logger) *MirandaHandler {
	return &MirandaHandler{
		miranda:   miranda,
		assistant: assistant,
		log:       log,
	}
}

func (h *MirandaHandler) Languages(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"languages": h.miranda.Languages()})
}

func (h *MirandaHandler) GetRights(c *fiber.Ctx) error {
	language := c.Params("language")

	text, err := h.miranda.GetRights(c.Context(), language)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"language": language,
		"text":     text,
	})
}

type DeliverRequest struct {
	Language string `json:"language"`
}

// Deliver announces and speaks the Miranda rights through the assistant.
func (h *MirandaHandler) Deliver(c *fiber.Ctx) error {
	var req DeliverRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	resp, err := h.assistant.DeliverMirandaRights(c.Context(), req.Language, officerProfile(c))
	if err != nil {
		h.log.Error("failed to deliver miranda rights", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deliver Miranda rights"})
	}
	return c.JSON(resp)
}
