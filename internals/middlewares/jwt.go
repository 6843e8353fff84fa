package middlewares

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/abhishekdev8928/wefanss-backend/internals/configs"
)

// AdminGuard validates a bearer JWT issued by the external auth service.
// Token issuance, roles and MFA live outside this backend; the guard only
// checks signature + expiry and stashes the subject claim. When JWT_SECRET
// is empty (local dev) the guard passes requests through.
func AdminGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := configs.JWTSecret
		if secret == "" {
			return c.Next()
		}

		auth := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(auth, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing bearer token")
		}
		raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Locals("user_id", sub)
		}
		return c.Next()
	}
}
