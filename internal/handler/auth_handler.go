package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/service"
	"github.com/moveright/assessadmin-api/internal/utils"
)

// AuthHandler exposes login and first-login password endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the public auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/login", h.login)
}

// RegisterProtected wires the auth routes that require a valid token.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Post("/set-password", h.setPassword)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Login(c.UserContext(), req)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("login failed")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "login successful", response)
}

func (h *AuthHandler) setPassword(c *fiber.Ctx) error {
	var req dto.SetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.SetPassword(c.UserContext(), userIDFromContext(c), req); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("set password failed")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "password updated", nil)
}
