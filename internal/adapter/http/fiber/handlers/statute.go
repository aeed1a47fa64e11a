package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/ports"
	"github.com/larkfield/lark-server/internal/service/statute"
)

type StatuteHandler struct {
	service ports.StatuteService
	log     *zap.Logger
}

func NewStatuteHandler(service ports.StatuteService, log *zap.Logger) *StatuteHandler {
	return &StatuteHandler{
		service: service,
		log:     log,
	}
}

func (h *StatuteHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Query parameter q is required"})
	}

	statutes, err := h.service.Search(c.Context(), query)
	if err != nil {
		h.log.Error("statute search failed", zap.String("query", query), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Search failed"})
	}
	return c.JSON(statutes)
}

func (h *StatuteHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	s, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, statute.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Statute not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s)
}

type SuggestRequest struct {
	Description string `json:"description"`
}

func (h *StatuteHandler) Suggest(c *fiber.Ctx) error {
	var req SuggestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Description is required"})
	}

	suggestions, err := h.service.Suggest(c.Context(), req.Description)
	if err != nil {
		h.log.Error("statute suggestion failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Suggestion failed"})
	}
	return c.JSON(fiber.Map{"suggestions": suggestions})
}
