package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/stamina-web-api/internal/utils"
)

// ServiceRole is the role claim carried by privileged service credentials.
const ServiceRole = "service_role"

// ServiceTokenProtected only admits bearer tokens signed with secret whose role claim
// is ServiceRole. An empty secret rejects every request.
func ServiceTokenProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		authorization := c.Get(fiber.HeaderAuthorization)
		const bearer = "Bearer "
		if len(authorization) <= len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
			return utils.SendError(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		role, _ := claims["role"].(string)
		if !strings.EqualFold(strings.TrimSpace(role), ServiceRole) {
			return utils.SendError(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		return c.Next()
	}
}
