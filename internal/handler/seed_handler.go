package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/moveright/assessadmin-api/internal/service"
	"github.com/moveright/assessadmin-api/internal/utils"
)

// SeedHandler exposes tooling endpoints for bootstrapping a deployment.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler constructs a seed handler.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register wires seed routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/roles", h.roles)
	router.Post("/superadmin", h.superAdmin)
}

type seedSuperAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *SeedHandler) roles(c *fiber.Ctx) error {
	token := c.Get("X-Seed-Token")

	created, err := h.service.SeedRoles(c.Context(), token)
	if err != nil {
		return h.seedError(c, err)
	}

	return utils.SendSuccess(c, "roles seeded", fiber.Map{"created": created})
}

func (h *SeedHandler) superAdmin(c *fiber.Ctx) error {
	token := c.Get("X-Seed-Token")
	var payload seedSuperAdminRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	userID, err := h.service.SeedSuperAdmin(c.Context(), token, payload.Email, payload.Password)
	if err != nil {
		return h.seedError(c, err)
	}

	return utils.SendCreated(c, "superadmin seeded", fiber.Map{"user_id": userID})
}

func (h *SeedHandler) seedError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSeedDisabled):
		return utils.SendError(c, fiber.StatusForbidden, "seeding is disabled")
	case errors.Is(err, service.ErrSeedUnauthorized):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid seed token")
	case errors.Is(err, service.ErrAlreadyExists):
		return utils.SendError(c, fiber.StatusBadRequest, "record already exists")
	case errors.Is(err, service.ErrInadequateData):
		return utils.SendError(c, fiber.StatusBadRequest, "inadequate data")
	default:
		h.logger.Error().Err(err).Msg("seed operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "seed operation failed")
	}
}
