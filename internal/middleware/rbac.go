package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/utils"
)

// RequireRole ensures that the authenticated user holds one of the allowed roles.
func RequireRole(roles ...models.RoleName) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		normalized := strings.ToLower(strings.TrimSpace(string(role)))
		if normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		roleValue := c.Locals("user_role")
		role := normalizeRoleValue(roleValue)
		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "insufficient permissions")
		}
		return c.Next()
	}
}

// RequireMinRank admits roles whose rank is at or above the given role's rank.
// Lower rank numbers sit higher in the hierarchy.
func RequireMinRank(floor models.RoleName) fiber.Handler {
	floorRank := floor.Rank()

	return func(c *fiber.Ctx) error {
		role := models.RoleName(normalizeRoleValue(c.Locals("user_role")))
		rank := role.Rank()
		if rank < 0 || rank > floorRank {
			return utils.SendError(c, fiber.StatusUnauthorized, "insufficient permissions")
		}
		return c.Next()
	}
}

func normalizeRoleValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case fmt.Stringer:
		return strings.ToLower(strings.TrimSpace(v.String()))
	default:
		if value == nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", value)))
	}
}
