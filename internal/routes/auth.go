package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/8bitCyborg/demoCredit/internal/auth"
)

// RegisterAuthRoutes wires signup and authentication endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/signup", h.Signup)
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
	group.Post("/refresh", h.Refresh)
}
