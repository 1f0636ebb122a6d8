package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/repository"
	"github.com/moveright/assessadmin-api/internal/service"
	"github.com/moveright/assessadmin-api/internal/utils"
)

// AssessmentHandler exposes assessment recording and analysis endpoints.
type AssessmentHandler struct {
	service service.AssessmentService
	users   service.UserService
	logger  zerolog.Logger
}

// NewAssessmentHandler constructs an assessment handler.
func NewAssessmentHandler(service service.AssessmentService, users service.UserService, logger zerolog.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		service: service,
		users:   users,
		logger:  logger.With().Str("component", "assessment_handler").Logger(),
	}
}

// Register wires assessment routes.
func (h *AssessmentHandler) Register(router fiber.Router) {
	router.Post("/", h.create)
	router.Get("/", h.list)
	router.Get("/analyse", h.analyse)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.remove)
}

func (h *AssessmentHandler) create(c *fiber.Ctx) error {
	var req dto.CreateAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assessment, err := h.service.Create(c.UserContext(), actorFromContext(c), req)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("assessment recording failed")
		return sendServiceError(c, err)
	}

	return utils.SendCreated(c, "assessment recorded", assessment)
}

func (h *AssessmentHandler) list(c *fiber.Ctx) error {
	actor, err := h.users.CurrentUser(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return sendServiceError(c, err)
	}

	filter := repository.AssessmentFilter{
		TaskID:     parseQueryUint(c, "task_id"),
		ClassIDs:   parseUintList(c.Query("class_ids")),
		StudentIDs: parseUintList(c.Query("student_ids")),
	}

	assessments, err := h.service.List(c.UserContext(), actor, filter)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list assessments")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "assessments retrieved", assessments)
}

func (h *AssessmentHandler) analyse(c *fiber.Ctx) error {
	classID := parseQueryUint(c, "class_id")
	taskID := parseQueryUint(c, "task_id")
	if classID == 0 || taskID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "class_id and task_id are required")
	}

	averages, err := h.service.ClassAverages(c.UserContext(), classID, taskID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "class averages computed", averages)
}

func (h *AssessmentHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req dto.UpdateAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assessment, err := h.service.Update(c.UserContext(), actorFromContext(c), id, req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "assessment updated", assessment)
}

func (h *AssessmentHandler) remove(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := h.service.Delete(c.UserContext(), id, actorFromContext(c)); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Uint("assessment_id", id).Msg("assessment deletion failed")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "assessment deleted", nil)
}
