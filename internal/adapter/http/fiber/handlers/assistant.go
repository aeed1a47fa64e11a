package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/ports"
)

// AssistantHandler exposes the dialogue engine over plain HTTP for clients
// that do their own speech capture.
type AssistantHandler struct {
	assistant ports.AssistantService
	log       *zap.Logger
}

func NewAssistantHandler(assistant ports.AssistantService, log *zap.Logger) *AssistantHandler {
	return &AssistantHandler{
		assistant: assistant,
		log:       log,
	}
}

func officerProfile(c *fiber.Ctx) domain.OfficerProfile {
	if profile, ok := c.Locals("officer_profile").(domain.OfficerProfile); ok {
		return profile
	}
	return domain.OfficerProfile{}
}

type CommandRequest struct {
	Text string `json:"text"`
}

func (h *AssistantHandler) ProcessCommand(c *fiber.Ctx) error {
	var req CommandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Command text is required"})
	}

	resp, err := h.assistant.ProcessCommand(c.Context(), req.Text, officerProfile(c))
	if err != nil {
		h.log.Error("failed to process command", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process command"})
	}
	return c.JSON(resp)
}

type ThreatAlertRequest struct {
	Threat string `json:"threat"`
}

func (h *AssistantHandler) AlertThreat(c *fiber.Ctx) error {
	var req ThreatAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Threat == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Threat is required"})
	}

	resp, err := h.assistant.AlertThreat(c.Context(), req.Threat, officerProfile(c))
	if err != nil {
		h.log.Error("failed to raise threat alert", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to raise threat alert"})
	}
	return c.JSON(resp)
}

type BackupRequestBody struct {
	Situation string `json:"situation"`
}

func (h *AssistantHandler) RequestBackup(c *fiber.Ctx) error {
	var req BackupRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	resp, err := h.assistant.RequestBackup(c.Context(), req.Situation, officerProfile(c))
	if err != nil {
		h.log.Error("failed to request backup", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to request backup"})
	}
	return c.JSON(resp)
}

type TranslateRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (h *AssistantHandler) Translate(c *fiber.Ctx) error {
	var req TranslateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Text == "" || req.Language == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Text and language are required"})
	}

	resp, err := h.assistant.TranslateCommunication(c.Context(), req.Text, req.Language, officerProfile(c))
	if err != nil {
		h.log.Error("failed to translate", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to translate"})
	}
	return c.JSON(resp)
}

type OfflineModeRequest struct {
	Offline bool `json:"offline"`
}

func (h *AssistantHandler) SetOfflineMode(c *fiber.Ctx) error {
	var req OfflineModeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	h.assistant.SetOfflineMode(req.Offline)
	return c.JSON(fiber.Map{"offline": req.Offline})
}

func (h *AssistantHandler) GetHistory(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"recentCommands":  h.assistant.RecentCommands(),
		"detectedThreats": h.assistant.DetectedThreats(),
	})
}
