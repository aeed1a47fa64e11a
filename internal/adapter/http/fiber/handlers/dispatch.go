package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/ports"
)

type DispatchHandler struct {
	dispatch  ports.DispatchService
	assistant ports.AssistantService
	log       *zap.Logger
}

func NewDispatchHandler(dispatch ports.DispatchService, assistant ports.AssistantService, log *zap.Logger) *DispatchHandler {
	return &DispatchHandler{
		dispatch:  dispatch,
		assistant: assistant,
		log:       log,
	}
}

type LocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UpdateLocation forwards the officer's position to dispatch and keeps the
// assistant's situational context current.
func (h *DispatchHandler) UpdateLocation(c *fiber.Ctx) error {
	var req LocationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	officerID, _ := c.Locals("officer_id").(string)
	update := domain.LocationUpdate{
		OfficerID: officerID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Timestamp: time.Now().UTC(),
	}

	if err := h.dispatch.SendLocation(c.Context(), update); err != nil {
		h.log.Error("failed to send location update", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send location update"})
	}

	h.assistant.SetLocation(domain.Location{Latitude: req.Latitude, Longitude: req.Longitude})
	return c.SendStatus(fiber.StatusAccepted)
}

type DispatchBackupRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Situation string  `json:"situation"`
}

func (h *DispatchHandler) RequestBackup(c *fiber.Ctx) error {
	var req DispatchBackupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	officerID, _ := c.Locals("officer_id").(string)
	backup := domain.BackupRequest{
		OfficerID: officerID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Situation: req.Situation,
		Timestamp: time.Now().UTC(),
	}

	if err := h.dispatch.RequestBackup(c.Context(), backup); err != nil {
		h.log.Error("failed to request backup", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to request backup"})
	}
	return c.SendStatus(fiber.StatusAccepted)
}
