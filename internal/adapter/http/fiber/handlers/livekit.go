package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/adapter/livekit"
)

// LiveKitHandler mints room access tokens for clients using LiveKit as their
// realtime audio transport.
type LiveKitHandler struct {
	tokens *livekit.TokenProvider
	log    *zap.Logger
}

func NewLiveKitHandler(tokens *livekit.TokenProvider, log *zap.Logger) *LiveKitHandler {
	return &LiveKitHandler{
		tokens: tokens,
		log:    log,
	}
}

type TokenRequest struct {
	Room string `json:"room"`
}

func (h *LiveKitHandler) Token(c *fiber.Ctx) error {
	var req TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Room == "" {
		req.Room = "field-ops"
	}

	officerID, _ := c.Locals("officer_id").(string)
	if officerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	token, err := h.tokens.Mint(officerID, req.Room)
	if err != nil {
		h.log.Error("failed to mint room token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mint token"})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"room":  req.Room,
	})
}
