package jwt

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userIDKey = "userId"

// NewAuthMiddleware validates a Bearer JWT (HS256) and stores the user id
// (the token subject) in c.Locals.
func NewAuthMiddleware(g *Generator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if authHeader == "" {
			return unauthorized(c, "missing Authorization header")
		}
		tokenStr := authHeader
		// "Bearer <token>" and a bare "<token>" are both accepted.
		if scheme, rest, ok := strings.Cut(authHeader, " "); ok && strings.EqualFold(scheme, "Bearer") {
			tokenStr = strings.TrimSpace(rest)
		}
		if tokenStr == "" {
			return unauthorized(c, "empty token")
		}
		claims, err := g.Parse(tokenStr)
		if err != nil {
			return unauthorized(c, err.Error())
		}
		id, err := uuid.Parse(claims.Subject)
		if err != nil {
			return unauthorized(c, "invalid token subject")
		}
		c.Locals(userIDKey, id)
		return c.Next()
	}
}

// UserID returns the authenticated user set by the middleware.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(userIDKey).(uuid.UUID)
	return id, ok
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"code": "UNAUTHORIZED", "message": message})
}
