package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/moveright/assessadmin-api/internal/middleware"
	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/service"
	"github.com/moveright/assessadmin-api/internal/utils"
)

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseUintList(input string) []uint {
	parts := splitAndTrim(input)
	result := make([]uint, 0, len(parts))
	for _, part := range parts {
		if parsed, err := strconv.ParseUint(part, 10, 64); err == nil {
			result = append(result, uint(parsed))
		}
	}
	return result
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	value := strings.TrimSpace(c.Params(name))
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(parsed), nil
}

func parseQueryUint(c *fiber.Ctx, key string) uint {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0
	}
	return uint(parsed)
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok {
			if id < 0 {
				return 0
			}
			return uint(id)
		}
	}
	return 0
}

func roleIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("role_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func userRoleFromContext(c *fiber.Ctx) models.RoleName {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return models.RoleName(role)
		}
	}
	return ""
}

func actorFromContext(c *fiber.Ctx) service.Actor {
	return service.Actor{
		ID:     userIDFromContext(c),
		RoleID: roleIDFromContext(c),
		Role:   userRoleFromContext(c),
		IP:     c.IP(),
	}
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// sendServiceError translates the service error taxonomy into the
// response envelope. Validation failures surface as 400 with the
// validator's message.
func sendServiceError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return utils.SendError(c, fiber.StatusBadRequest, "record not found")
	case errors.Is(err, service.ErrAlreadyExists):
		return utils.SendError(c, fiber.StatusBadRequest, "record already exists")
	case errors.Is(err, service.ErrInadequateData):
		return utils.SendError(c, fiber.StatusBadRequest, "inadequate data")
	case errors.Is(err, service.ErrNotAllowed):
		return utils.SendError(c, fiber.StatusBadRequest, "not allowed yet")
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrUnauthorized):
		return utils.SendError(c, fiber.StatusUnauthorized, "You are not authorized")
	default:
		return utils.SendError(c, fiber.StatusInternalServerError, "something went wrong")
	}
}
