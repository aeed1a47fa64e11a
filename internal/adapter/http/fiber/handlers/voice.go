package handlers

import (
	"encoding/base64"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/ports"
)

// VoiceHandler handles batch audio: transcription of a recorded utterance and
// ambient threat scanning. Streaming audio goes over the websocket instead.
type VoiceHandler struct {
	assistant   ports.AssistantService
	transcriber ports.Transcriber
	analyzer    ports.AudioAnalyzer
	log         *zap.Logger
}

func NewVoiceHandler(assistant ports.AssistantService, transcriber ports.Transcriber, analyzer ports.AudioAnalyzer, log *zap.Logger) *VoiceHandler {
	return &VoiceHandler{
		assistant:   assistant,
		transcriber: transcriber,
		analyzer:    analyzer,
		log:         log,
	}
}

type AudioCommandRequest struct {
	Audio    string `json:"audio"` // base64
	Filename string `json:"filename"`
}

// ProcessCommand transcribes the uploaded audio and runs the transcript
// through the assistant.
func (h *VoiceHandler) ProcessCommand(c *fiber.Ctx) error {
	var req AudioCommandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid base64 audio"})
	}

	transcript, err := h.transcriber.Transcribe(c.Context(), audio, req.Filename)
	if err != nil {
		h.log.Error("failed to transcribe audio", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to transcribe audio"})
	}

	resp, err := h.assistant.ProcessCommand(c.Context(), transcript, officerProfile(c))
	if err != nil {
		h.log.Error("failed to process voice command", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process voice command"})
	}

	return c.JSON(fiber.Map{
		"transcript": transcript,
		"response":   resp,
	})
}

func (h *VoiceHandler) Transcribe(c *fiber.Ctx) error {
	var req AudioCommandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid base64 audio"})
	}

	text, err := h.transcriber.Transcribe(c.Context(), audio, req.Filename)
	if err != nil {
		h.log.Error("failed to transcribe audio", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to transcribe audio"})
	}

	return c.JSON(domain.Transcription{Text: text})
}

// AnalyzeAudio scans an ambient audio snippet for threat sounds and raises an
// assistant alert for each detection.
func (h *VoiceHandler) AnalyzeAudio(c *fiber.Ctx) error {
	var req AudioCommandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid base64 audio"})
	}

	analysis, err := h.analyzer.AnalyzeAudio(c.Context(), audio)
	if err != nil {
		h.log.Error("failed to analyze audio", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to analyze audio"})
	}

	profile := officerProfile(c)
	for _, threat := range analysis.DetectedThreats {
		if _, err := h.assistant.AlertThreat(c.Context(), threat, profile); err != nil {
			h.log.Error("failed to raise threat alert", zap.String("threat", threat), zap.Error(err))
		}
	}

	return c.JSON(analysis)
}
