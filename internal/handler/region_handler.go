package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/service"
	"github.com/moveright/assessadmin-api/internal/utils"
)

// RegionHandler exposes region endpoints.
type RegionHandler struct {
	service service.RegionService
	users   service.UserService
	logger  zerolog.Logger
}

// NewRegionHandler constructs a region handler.
func NewRegionHandler(service service.RegionService, users service.UserService, logger zerolog.Logger) *RegionHandler {
	return &RegionHandler{
		service: service,
		users:   users,
		logger:  logger.With().Str("component", "region_handler").Logger(),
	}
}

// Register wires region routes.
func (h *RegionHandler) Register(router fiber.Router) {
	router.Post("/", h.create)
	router.Get("/", h.list)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.remove)
}

func (h *RegionHandler) create(c *fiber.Ctx) error {
	var req dto.CreateRegionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	region, err := h.service.Create(c.UserContext(), actorFromContext(c), req)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("region creation failed")
		return sendServiceError(c, err)
	}

	return utils.SendCreated(c, "region created", region)
}

func (h *RegionHandler) list(c *fiber.Ctx) error {
	actor, err := h.users.CurrentUser(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return sendServiceError(c, err)
	}

	regions, err := h.service.List(c.UserContext(), actor, parseQueryUint(c, "country_id"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list regions")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "regions retrieved", regions)
}

func (h *RegionHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	region, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "region retrieved", region)
}

func (h *RegionHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req dto.UpdateRegionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	region, err := h.service.Update(c.UserContext(), actorFromContext(c), id, req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "region updated", region)
}

func (h *RegionHandler) remove(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := h.service.Delete(c.UserContext(), id, actorFromContext(c)); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Uint("region_id", id).Msg("region deletion failed")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "region deleted", nil)
}
