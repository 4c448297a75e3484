package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/yxngashy/studietid/internal/dto"
	"github.com/yxngashy/studietid/internal/service"
	"github.com/yxngashy/studietid/internal/utils"
)

// ActivityHandler wires the activity registration endpoint.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(svc service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: svc,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches the activity routes to an authenticated group.
func (h *ActivityHandler) Register(app fiber.Router) {
	app.Post("/regActivity", h.register)
}

// register logs one activity for the authenticated identity. The owner is
// taken from the session; anything owner-like in the body is ignored.
func (h *ActivityHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterActivityRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, utils.KindValidation, "invalid payload")
	}

	activity, err := h.service.Register(c.Context(), identityEmail(c), payload)
	if err != nil {
		if errors.Is(err, service.ErrInvalidActivity) {
			return utils.SendError(c, fiber.StatusBadRequest, utils.KindValidation, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to register activity")
		return utils.SendError(c, fiber.StatusInternalServerError, utils.KindInternal, "Error registering activity")
	}

	return utils.SendSuccess(c, "Activity logged", activity)
}
