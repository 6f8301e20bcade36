package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/8bitCyborg/demoCredit/internal/funding"
)

// RegisterFundingRoutes wires funding and withdrawal endpoints.
func RegisterFundingRoutes(r fiber.Router, h *funding.Handler) {
	r.Post("/wallet/fund", h.Fund)
	r.Post("/wallet/withdraw", h.Withdraw)
}
