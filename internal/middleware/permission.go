package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/moveright/assessadmin-api/internal/service"
	"github.com/moveright/assessadmin-api/internal/utils"
)

// RequirePermission gates a route on the stored role permission matrix.
// Roles without a stored entry for the module or action pass through.
func RequirePermission(permissions service.PermissionService, module, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleID, ok := c.Locals("role_id").(uint)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "You are not authorized")
		}

		decision, err := permissions.Resolve(c.UserContext(), roleID, module, action)
		if err != nil {
			return utils.SendError(c, fiber.StatusInternalServerError, "could not resolve permissions")
		}
		if !decision.Allowed {
			return utils.SendError(c, fiber.StatusUnauthorized, "You are not authorized")
		}

		return c.Next()
	}
}
