package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/yxngashy/studietid/internal/service"
	"github.com/yxngashy/studietid/internal/utils"
)

// AdminHandler wires the admin reporting endpoints.
type AdminHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(svc service.ReportService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: svc,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches the admin routes to an admin-gated group.
func (h *AdminHandler) Register(app fiber.Router) {
	app.Get("/admin", h.activities)
	app.Get("/admin/logs", h.auditLog)
}

// activities returns the complete, unfiltered activity log.
func (h *AdminHandler) activities(c *fiber.Ctx) error {
	report, err := h.service.Activities(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch activities")
		return utils.SendError(c, fiber.StatusInternalServerError, utils.KindInternal, "Error fetching activities")
	}

	return utils.SendSuccess(c, "activities", report)
}

func (h *AdminHandler) auditLog(c *fiber.Ctx) error {
	limit := c.QueryInt("limit")

	entries, err := h.service.AuditLog(c.Context(), limit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch audit log")
		return utils.SendError(c, fiber.StatusInternalServerError, utils.KindInternal, "Error fetching audit log")
	}

	return utils.SendSuccess(c, "audit log", entries)
}
