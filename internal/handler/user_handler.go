package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/yxngashy/studietid/internal/dto"
	"github.com/yxngashy/studietid/internal/middleware"
	"github.com/yxngashy/studietid/internal/service"
	"github.com/yxngashy/studietid/internal/utils"
)

// UserHandler wires the user CRUD endpoints.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(svc service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: svc,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// RegisterOpen attaches the routes that do not require authentication.
func (h *UserHandler) RegisterOpen(app fiber.Router) {
	app.Post("/addUser", h.addUser)
}

// RegisterUser attaches the routes gated on an authenticated identity.
func (h *UserHandler) RegisterUser(app fiber.Router) {
	app.Get("/user", h.profile)
	app.Post("/update-user", h.updateUser)
}

// RegisterAdmin attaches the admin-gated routes.
func (h *UserHandler) RegisterAdmin(app fiber.Router) {
	app.Post("/deleteUser", h.deleteUser)
	app.Post("/getUser", h.getUser)
}

// addUser creates a user. Duplicate emails keep the legacy 200-with-failure
// contract; the envelope kind distinguishes the outcome.
func (h *UserHandler) addUser(c *fiber.Ctx) error {
	var payload dto.AddUserRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, utils.KindValidation, "invalid payload")
	}

	user, err := h.service.Add(c.Context(), payload, identityEmail(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			return utils.SendFailure(c, utils.KindConflict, "Email already exists")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, utils.KindValidation, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to add user")
			return utils.SendError(c, fiber.StatusInternalServerError, utils.KindInternal, "failed to add user")
		}
	}

	return utils.SendSuccess(c, fmt.Sprintf("User added with ID: %s", user.ID), user)
}

// profile renders the current user, or a queried user for admins.
func (h *UserHandler) profile(c *fiber.Ctx) error {
	current, _ := middleware.IdentityFromContext(c)

	email := current.Email
	if queried := strings.TrimSpace(c.Query("email")); queried != "" && current.IsAdmin {
		email = queried
	}

	user, err := h.service.Get(c.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, utils.KindNotFound, "User not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch profile")
		return utils.SendError(c, fiber.StatusInternalServerError, utils.KindInternal, "failed to fetch profile")
	}

	return utils.SendSuccess(c, "profile", user)
}

func (h *UserHandler) updateUser(c *fiber.Ctx) error {
	var payload dto.UpdateUserRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, utils.KindValidation, "invalid payload")
	}

	current, _ := middleware.IdentityFromContext(c)
	if !current.IsAdmin && !strings.EqualFold(strings.TrimSpace(payload.Email), current.Email) {
		return utils.SendError(c, fiber.StatusForbidden, utils.KindForbidden, "cannot update another user")
	}

	user, err := h.service.UpdateName(c.Context(), payload, identityEmail(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, utils.KindNotFound, "User not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, utils.KindValidation, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update user")
			return utils.SendError(c, fiber.StatusInternalServerError, utils.KindInternal, "Error updating user")
		}
	}

	return utils.SendSuccess(c, "user updated", user)
}

func (h *UserHandler) deleteUser(c *fiber.Ctx) error {
	var payload dto.DeleteUserRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, utils.KindValidation, "invalid payload")
	}

	rows, err := h.service.Delete(c.Context(), payload, identityEmail(c))
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, utils.KindValidation, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete user")
		return utils.SendError(c, fiber.StatusInternalServerError, utils.KindInternal, "Error deleting user")
	}

	// Composite match: any field mismatch deletes nothing. Report that
	// outcome instead of claiming success.
	if rows == 0 {
		return utils.SendFailure(c, utils.KindNotFound, "no user matched all fields")
	}

	return utils.SendSuccess(c, "user deleted", fiber.Map{"rows_affected": rows})
}

func (h *UserHandler) getUser(c *fiber.Ctx) error {
	var payload dto.GetUserRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, utils.KindValidation, "invalid payload")
	}

	user, err := h.service.Get(c.Context(), payload.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, utils.KindNotFound, "User not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch user")
		return utils.SendError(c, fiber.StatusInternalServerError, utils.KindInternal, "Error fetching user")
	}

	return utils.SendSuccess(c, "user", user)
}
