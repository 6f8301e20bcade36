package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/8bitCyborg/demoCredit/internal/wallet"
)

// RegisterWalletRoutes wires wallet read endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Get("/wallet/balance", h.Balance)
	r.Get("/wallet/transactions", h.Statement)
	r.Get("/ledger", h.Statement)
}
