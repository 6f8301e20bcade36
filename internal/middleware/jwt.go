package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/8bitCyborg/demoCredit/internal/auth"
	"github.com/8bitCyborg/demoCredit/internal/config"
)

const userIDKey = "user_id"

// ErrUnauthenticated is returned by UserID when no authenticated user is
// attached to the request.
var ErrUnauthenticated = errors.New("request is not authenticated")

// JWTAuth validates the bearer token and stores the caller's user id on the
// request context.
func JWTAuth(cfg config.Config) fiber.Handler {
	secret := []byte(cfg.JWTSecret)
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		userID, err := auth.Parse(tokenStr, secret)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// UserID reads the authenticated user id set by JWTAuth.
func UserID(c *fiber.Ctx) (int64, error) {
	id, ok := c.Locals(userIDKey).(int64)
	if !ok || id == 0 {
		return 0, ErrUnauthenticated
	}
	return id, nil
}
