package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/service"
	"github.com/moveright/assessadmin-api/internal/utils"
)

// ClassHandler exposes class endpoints.
type ClassHandler struct {
	service service.ClassService
	users   service.UserService
	logger  zerolog.Logger
}

// NewClassHandler constructs a class handler.
func NewClassHandler(service service.ClassService, users service.UserService, logger zerolog.Logger) *ClassHandler {
	return &ClassHandler{
		service: service,
		users:   users,
		logger:  logger.With().Str("component", "class_handler").Logger(),
	}
}

// Register wires class routes.
func (h *ClassHandler) Register(router fiber.Router) {
	router.Post("/", h.create)
	router.Get("/", h.list)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.remove)
}

func (h *ClassHandler) create(c *fiber.Ctx) error {
	var req dto.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	class, err := h.service.Create(c.UserContext(), actorFromContext(c), req)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("class creation failed")
		return sendServiceError(c, err)
	}

	return utils.SendCreated(c, "class created", class)
}

func (h *ClassHandler) list(c *fiber.Ctx) error {
	actor, err := h.users.CurrentUser(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return sendServiceError(c, err)
	}

	classes, err := h.service.List(c.UserContext(), actor)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list classes")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "classes retrieved", classes)
}

func (h *ClassHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	class, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "class retrieved", class)
}

func (h *ClassHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req dto.UpdateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	class, err := h.service.Update(c.UserContext(), actorFromContext(c), id, req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "class updated", class)
}

func (h *ClassHandler) remove(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := h.service.Delete(c.UserContext(), id, actorFromContext(c)); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Uint("class_id", id).Msg("class deletion failed")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "class deleted", nil)
}
