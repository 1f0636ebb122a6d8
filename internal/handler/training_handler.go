package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/service"
	"github.com/moveright/assessadmin-api/internal/utils"
)

// TrainingHandler exposes the practitioner reliability training workflow.
type TrainingHandler struct {
	service service.TrainingService
	users   service.UserService
	logger  zerolog.Logger
}

// NewTrainingHandler constructs a training handler.
func NewTrainingHandler(service service.TrainingService, users service.UserService, logger zerolog.Logger) *TrainingHandler {
	return &TrainingHandler{
		service: service,
		users:   users,
		logger:  logger.With().Str("component", "training_handler").Logger(),
	}
}

// Register wires training routes.
func (h *TrainingHandler) Register(router fiber.Router) {
	router.Post("/assign", h.assign)
	router.Post("/submit", h.submit)
	router.Get("/status", h.status)
	router.Get("/results", h.results)
	router.Get("/results/:testId", h.resultDetails)
}

func (h *TrainingHandler) assign(c *fiber.Ctx) error {
	finishLater := strings.EqualFold(c.Query("finish_later"), "true")

	assignment, err := h.service.AssignCycle(c.UserContext(), actorFromContext(c), finishLater)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("training assignment failed")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "training assigned", assignment)
}

func (h *TrainingHandler) submit(c *fiber.Ctx) error {
	var req dto.SubmitAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	summary, err := h.service.SubmitAnswers(c.UserContext(), actorFromContext(c), req)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("training submission failed")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "answers submitted", summary)
}

func (h *TrainingHandler) status(c *fiber.Ctx) error {
	status, err := h.service.CurrentStatus(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "training status retrieved", status)
}

func (h *TrainingHandler) results(c *fiber.Ctx) error {
	actor, err := h.users.CurrentUser(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return sendServiceError(c, err)
	}

	results, err := h.service.ListVisible(c.UserContext(), actor)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list training results")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "training results retrieved", results)
}

func (h *TrainingHandler) resultDetails(c *fiber.Ctx) error {
	testID := strings.TrimSpace(c.Params("testId"))
	if testID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid test id")
	}

	details, err := h.service.ResultDetails(c.UserContext(), testID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "training result details retrieved", details)
}
