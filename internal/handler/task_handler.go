package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/moveright/assessadmin-api/internal/service"
	"github.com/moveright/assessadmin-api/internal/utils"
)

// TaskHandler exposes the assessment task catalogue.
type TaskHandler struct {
	service service.TaskService
	logger  zerolog.Logger
}

// NewTaskHandler constructs a task handler.
func NewTaskHandler(service service.TaskService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		logger:  logger.With().Str("component", "task_handler").Logger(),
	}
}

// Register wires task routes.
func (h *TaskHandler) Register(router fiber.Router) {
	router.Post("/", h.create)
	router.Get("/", h.list)
	router.Get("/:id", h.get)
}

func (h *TaskHandler) create(c *fiber.Ctx) error {
	var req service.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	task, err := h.service.Create(c.UserContext(), actorFromContext(c), req)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("task creation failed")
		return sendServiceError(c, err)
	}

	return utils.SendCreated(c, "task created", task)
}

func (h *TaskHandler) list(c *fiber.Ctx) error {
	tasks, err := h.service.List(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list tasks")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "tasks retrieved", tasks)
}

func (h *TaskHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	task, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "task retrieved", task)
}
