package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/service"
	"github.com/moveright/assessadmin-api/internal/utils"
)

// PermissionHandler exposes the role permission matrix.
type PermissionHandler struct {
	service service.PermissionService
	logger  zerolog.Logger
}

// NewPermissionHandler constructs a permission handler.
func NewPermissionHandler(service service.PermissionService, logger zerolog.Logger) *PermissionHandler {
	return &PermissionHandler{
		service: service,
		logger:  logger.With().Str("component", "permission_handler").Logger(),
	}
}

// Register wires permission routes.
func (h *PermissionHandler) Register(router fiber.Router) {
	router.Get("/roles/:roleId", h.listForRole)
	router.Put("/", h.save)
}

func (h *PermissionHandler) listForRole(c *fiber.Ctx) error {
	roleID, err := parseIDParam(c, "roleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid role id")
	}

	permissions, err := h.service.ListForRole(c.UserContext(), roleID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list permissions")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "permissions retrieved", permissions)
}

func (h *PermissionHandler) save(c *fiber.Ctx) error {
	var req dto.SavePermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	permission, err := h.service.Save(c.UserContext(), actorFromContext(c), req.RoleID, req.Module, req.Entries)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("permission save failed")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "permissions saved", permission)
}
