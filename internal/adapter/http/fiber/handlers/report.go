package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/ports"
	"github.com/larkfield/lark-server/internal/service/report"
)

type ReportHandler struct {
	service ports.ReportService
	log     *zap.Logger
}

func NewReportHandler(service ports.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		log:     log,
	}
}

type CreateReportRequest struct {
	IncidentType string `json:"incidentType"`
	Location     string `json:"location"`
	Narrative    string `json:"narrative"`
}

func (h *ReportHandler) Create(c *fiber.Ctx) error {
	var req CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	officerID, _ := c.Locals("officer_id").(string)
	r := domain.Report{
		OfficerID:    officerID,
		IncidentType: req.IncidentType,
		Location:     req.Location,
		Narrative:    req.Narrative,
	}

	if err := h.service.Create(c.Context(), &r); err != nil {
		h.log.Error("failed to create report", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create report"})
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	r, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(r)
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	officerID, _ := c.Locals("officer_id").(string)

	reports, err := h.service.ListByOfficer(c.Context(), officerID)
	if err != nil {
		h.log.Error("failed to list reports", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list reports"})
	}
	return c.JSON(reports)
}

type UpdateReportRequest struct {
	IncidentType string              `json:"incidentType"`
	Location     string              `json:"location"`
	Narrative    string              `json:"narrative"`
	Status       domain.ReportStatus `json:"status"`
}

func (h *ReportHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	r, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if req.IncidentType != "" {
		r.IncidentType = req.IncidentType
	}
	if req.Location != "" {
		r.Location = req.Location
	}
	if req.Narrative != "" {
		r.Narrative = req.Narrative
	}
	if req.Status != "" {
		r.Status = req.Status
	}

	if err := h.service.Update(c.Context(), r); err != nil {
		h.log.Error("failed to update report", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update report"})
	}
	return c.JSON(r)
}

type AnalyzeRequest struct {
	Content           string `json:"content"`
	UseAlternateModel bool   `json:"useAlternateModel"`
}

// Analyze reviews a narrative without persisting anything.
func (h *ReportHandler) Analyze(c *fiber.Ctx) error {
	var req AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Content is required"})
	}

	analysis, err := h.service.Analyze(c.Context(), req.Content, req.UseAlternateModel)
	if err != nil {
		h.log.Error("report analysis failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Analysis failed"})
	}
	return c.JSON(analysis)
}
