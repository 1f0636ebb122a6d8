package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/service"
	"github.com/moveright/assessadmin-api/internal/utils"
)

// StudentHandler exposes student enrollment endpoints.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register wires student routes.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Post("/", h.create)
	router.Get("/", h.listByClass)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.remove)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.service.Create(c.UserContext(), actorFromContext(c), req)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("student enrollment failed")
		return sendServiceError(c, err)
	}

	return utils.SendCreated(c, "student enrolled", student)
}

func (h *StudentHandler) listByClass(c *fiber.Ctx) error {
	classID := parseQueryUint(c, "class_id")
	if classID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "class_id is required")
	}

	students, err := h.service.ListByClass(c.UserContext(), classID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list students")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	student, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.service.Update(c.UserContext(), actorFromContext(c), id, req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "student updated", student)
}

func (h *StudentHandler) remove(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := h.service.Delete(c.UserContext(), id, actorFromContext(c)); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Uint("student_id", id).Msg("student deletion failed")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "student deleted", nil)
}
