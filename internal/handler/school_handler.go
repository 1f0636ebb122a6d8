package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/service"
	"github.com/moveright/assessadmin-api/internal/utils"
)

// SchoolHandler exposes school endpoints.
type SchoolHandler struct {
	service service.SchoolService
	users   service.UserService
	logger  zerolog.Logger
}

// NewSchoolHandler constructs a school handler.
func NewSchoolHandler(service service.SchoolService, users service.UserService, logger zerolog.Logger) *SchoolHandler {
	return &SchoolHandler{
		service: service,
		users:   users,
		logger:  logger.With().Str("component", "school_handler").Logger(),
	}
}

// Register wires school routes.
func (h *SchoolHandler) Register(router fiber.Router) {
	router.Post("/", h.create)
	router.Get("/", h.list)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.remove)
}

func (h *SchoolHandler) create(c *fiber.Ctx) error {
	var req dto.CreateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	school, err := h.service.Create(c.UserContext(), actorFromContext(c), req)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("school creation failed")
		return sendServiceError(c, err)
	}

	return utils.SendCreated(c, "school created", school)
}

func (h *SchoolHandler) list(c *fiber.Ctx) error {
	actor, err := h.users.CurrentUser(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return sendServiceError(c, err)
	}

	schools, err := h.service.List(c.UserContext(), actor)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list schools")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "schools retrieved", schools)
}

func (h *SchoolHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	school, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "school retrieved", school)
}

func (h *SchoolHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req dto.UpdateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	school, err := h.service.Update(c.UserContext(), actorFromContext(c), id, req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "school updated", school)
}

func (h *SchoolHandler) remove(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := h.service.Delete(c.UserContext(), id, actorFromContext(c)); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Uint("school_id", id).Msg("school deletion failed")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "school deleted", nil)
}
