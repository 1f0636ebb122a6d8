package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type correlationIDKey struct{}

// CorrelationID tags every request with an identifier so log lines from the
// scoped listing and cascade paths can be tied back to one call.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get("X-Correlation-ID"))
		if id == "" {
			id = strings.TrimSpace(c.Get("X-Request-ID"))
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals("correlation_id", id)
		c.Set("X-Correlation-ID", id)
		c.SetUserContext(context.WithValue(c.Context(), correlationIDKey{}, id))

		return c.Next()
	}
}

// GetCorrelationID returns the identifier bound to the active request.
func GetCorrelationID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals("correlation_id").(string); ok {
		return id
	}
	if id, ok := c.UserContext().Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}
