package middleware

import (
	"strings"

	"nilai/internal/models"
	"nilai/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthRequired for downstream handlers.
const (
	CtxUserIDKey = "user_id"
	CtxRoleKey   = "role"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
// Requests without a valid token are rejected before any role check runs.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		// Store claims in Fiber context for subsequent handlers
		userID, _ := claims["user_id"].(string)
		role, _ := claims["role"].(string)
		c.Locals(CtxUserIDKey, userID)
		c.Locals(CtxRoleKey, models.Role(role))

		// Continue to the next handler
		return c.Next()
	}
}

// OptionalAuth resolves a token when one is present but lets anonymous
// requests through. Used on public listings that enrich the response for
// authenticated callers.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := authService.ValidateToken(tokenString); err == nil {
				userID, _ := claims["user_id"].(string)
				role, _ := claims["role"].(string)
				c.Locals(CtxUserIDKey, userID)
				c.Locals(CtxRoleKey, models.Role(role))
			}
		}
		return c.Next()
	}
}

// RequireRoles admits the request only when the authenticated role is in the
// allowed set. Must run after AuthRequired.
func RequireRoles(allowedRoles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(CtxRoleKey).(models.Role)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Role information is missing",
			})
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not have permission to perform this action",
		})
	}
}

// UserID returns the authenticated user's ID from the request context.
func UserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(CtxUserIDKey).(string)
	return userID
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return "", false
	}
	return parts[1], true
}
