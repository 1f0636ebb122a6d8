package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/moveright/assessadmin-api/internal/service"
	"github.com/moveright/assessadmin-api/internal/utils"
)

// DashboardHandler exposes the scoped entity count summary.
type DashboardHandler struct {
	service service.DashboardService
	users   service.UserService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(service service.DashboardService, users service.UserService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		users:   users,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register wires dashboard routes.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/", h.counts)
}

func (h *DashboardHandler) counts(c *fiber.Ctx) error {
	actor, err := h.users.CurrentUser(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return sendServiceError(c, err)
	}

	counts, err := h.service.GetCounts(c.UserContext(), actor)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build dashboard")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "dashboard retrieved", counts)
}
