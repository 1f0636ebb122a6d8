package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/moveright/assessadmin-api/internal/utils"
)

// JWTProtected validates bearer tokens and loads the actor identity into
// request locals. Tokens carry "sub" (user id as a decimal string), "role_id"
// and "role", matching what the auth service issues.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if len(authorization) < len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		subject, err := claims.GetSubject()
		if err != nil || subject == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}
		userID, err := strconv.ParseUint(subject, 10, 64)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}
		c.Locals("user_id", uint(userID))

		if roleID, ok := claims["role_id"].(float64); ok && roleID > 0 {
			c.Locals("role_id", uint(roleID))
		}
		if role, ok := claims["role"].(string); ok {
			if role = strings.ToLower(strings.TrimSpace(role)); role != "" {
				c.Locals("user_role", role)
			}
		}

		return c.Next()
	}
}
