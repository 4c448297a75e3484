package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yxngashy/studietid/internal/dto"
	"github.com/yxngashy/studietid/internal/middleware"
	"github.com/yxngashy/studietid/internal/service"
	"github.com/yxngashy/studietid/internal/utils"
	"github.com/yxngashy/studietid/pkg/googleauth"
)

const oauthStateKey = "oauth_state"

// AuthHandler wires the login, logout and OAuth endpoints.
type AuthHandler struct {
	service   service.AuthService
	google    *googleauth.Client
	sessions  *session.Store
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthHandler constructs the handler. google may be nil when the OAuth
// flow is not configured.
func NewAuthHandler(svc service.AuthService, google *googleauth.Client, sessions *session.Store, validate *validator.Validate, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:   svc,
		google:    google,
		sessions:  sessions,
		validator: validate,
		logger:    logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the authentication routes.
func (h *AuthHandler) Register(app fiber.Router) {
	app.Get("/auth/google", h.googleLogin)
	app.Get("/auth/google/callback", h.googleCallback)
	app.Post("/login", h.login)
	app.Post("/logout", h.logout)
}

func (h *AuthHandler) googleLogin(c *fiber.Ctx) error {
	if h.google == nil {
		return c.Redirect("/", fiber.StatusFound)
	}

	state := uuid.NewString()
	sess, err := h.sessions.Get(c)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to open session for oauth state")
		return c.Redirect("/", fiber.StatusFound)
	}
	sess.Set(oauthStateKey, state)
	if err := sess.Save(); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to persist oauth state")
		return c.Redirect("/", fiber.StatusFound)
	}

	return c.Redirect(h.google.AuthCodeURL(state), fiber.StatusFound)
}

// googleCallback completes the OAuth exchange. Every failure path redirects
// to the landing page without establishing a session: the flow fails closed.
func (h *AuthHandler) googleCallback(c *fiber.Ctx) error {
	if h.google == nil {
		return c.Redirect("/", fiber.StatusFound)
	}

	log := requestLogger(h.logger, c)

	code := strings.TrimSpace(c.Query("code"))
	state := strings.TrimSpace(c.Query("state"))
	if code == "" || state == "" {
		log.Warn().Msg("oauth callback missing code or state")
		return c.Redirect("/", fiber.StatusFound)
	}

	sess, err := h.sessions.Get(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to open session during oauth callback")
		return c.Redirect("/", fiber.StatusFound)
	}
	expected, _ := sess.Get(oauthStateKey).(string)
	sess.Delete(oauthStateKey)
	_ = sess.Save()
	if expected == "" || expected != state {
		log.Warn().Msg("oauth state mismatch")
		return c.Redirect("/", fiber.StatusFound)
	}

	profile, err := h.google.Exchange(c.Context(), code)
	if err != nil {
		log.Warn().Err(err).Msg("oauth code exchange failed")
		return c.Redirect("/", fiber.StatusFound)
	}

	user, err := h.service.ResolveExternalProfile(c.Context(), service.ExternalProfile{
		Email:      profile.Email,
		GivenName:  profile.GivenName,
		FamilyName: profile.FamilyName,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve external identity")
		return c.Redirect("/", fiber.StatusFound)
	}

	if err := middleware.EstablishSession(c, h.sessions, user.Email); err != nil {
		log.Error().Err(err).Msg("failed to establish session")
		return c.Redirect("/", fiber.StatusFound)
	}

	return c.Redirect("/user", fiber.StatusFound)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, utils.KindValidation, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, utils.KindValidation, "a valid email is required")
	}

	user, err := h.service.LoginByEmail(c.Context(), payload.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, utils.KindNotFound, "User not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("login failed")
		return utils.SendError(c, fiber.StatusInternalServerError, utils.KindInternal, "login failed")
	}

	if err := middleware.EstablishSession(c, h.sessions, user.Email); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to establish session")
		return utils.SendError(c, fiber.StatusInternalServerError, utils.KindInternal, "login failed")
	}

	token, err := h.service.IssueToken(user)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to issue token")
		return utils.SendError(c, fiber.StatusInternalServerError, utils.KindInternal, "login failed")
	}

	return utils.SendSuccess(c, "Login successful", dto.LoginResponse{
		UserID:    user.PublicID,
		UserEmail: user.Email,
		Token:     token,
	})
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	if err := middleware.DestroySession(c, h.sessions); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to destroy session")
	}
	return utils.SendSuccess(c, "logged out", nil)
}
