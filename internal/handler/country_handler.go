package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/service"
	"github.com/moveright/assessadmin-api/internal/utils"
)

// CountryHandler exposes country endpoints.
type CountryHandler struct {
	service service.CountryService
	logger  zerolog.Logger
}

// NewCountryHandler constructs a country handler.
func NewCountryHandler(service service.CountryService, logger zerolog.Logger) *CountryHandler {
	return &CountryHandler{
		service: service,
		logger:  logger.With().Str("component", "country_handler").Logger(),
	}
}

// Register wires country routes.
func (h *CountryHandler) Register(router fiber.Router) {
	router.Post("/", h.create)
	router.Get("/", h.list)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.remove)
}

func (h *CountryHandler) create(c *fiber.Ctx) error {
	var req dto.CreateCountryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	country, err := h.service.Create(c.UserContext(), actorFromContext(c), req)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("country creation failed")
		return sendServiceError(c, err)
	}

	return utils.SendCreated(c, "country created", country)
}

func (h *CountryHandler) list(c *fiber.Ctx) error {
	var active *bool
	switch strings.ToLower(c.Query("status")) {
	case "active":
		value := true
		active = &value
	case "retired":
		value := false
		active = &value
	}

	countries, err := h.service.List(c.UserContext(), active)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list countries")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "countries retrieved", countries)
}

func (h *CountryHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	detail, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "country retrieved", detail)
}

func (h *CountryHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req dto.UpdateCountryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	country, err := h.service.Update(c.UserContext(), actorFromContext(c), id, req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "country updated", country)
}

func (h *CountryHandler) remove(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := h.service.Delete(c.UserContext(), id, actorFromContext(c)); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Uint("country_id", id).Msg("country deletion failed")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "country deleted", nil)
}
