package payments

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/8bitCyborg/demoCredit/internal/ledger"
	"github.com/8bitCyborg/demoCredit/internal/middleware"
	"github.com/8bitCyborg/demoCredit/internal/wallet"
)

// Handler exposes the P2P transfer endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a payments handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type transferRequest struct {
	ReceiverUserID int64  `json:"receiver_user_id"`
	Amount         int64  `json:"amount"`
	Reference      string `json:"reference"`
	SenderName     string `json:"sender_name"`
	ReceiverName   string `json:"receiver_name"`
	Category       string `json:"category"`
}

// Transfer moves funds from the authenticated user to another user's wallet.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	}

	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Transfer(c.UserContext(), TransferInput{
		SenderUserID:   userID,
		ReceiverUserID: req.ReceiverUserID,
		Amount:         req.Amount,
		Reference:      req.Reference,
		SenderName:     req.SenderName,
		ReceiverName:   req.ReceiverName,
		Category:       req.Category,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidAmount),
			errors.Is(err, ledger.ErrMissingReference),
			errors.Is(err, ErrSelfTransfer),
			errors.Is(err, wallet.ErrInsufficientBalance):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ledger.ErrWalletNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ledger.ErrDuplicateReference):
			return fiber.NewError(http.StatusConflict, err.Error())
		case errors.Is(err, wallet.ErrWalletDisabled):
			return fiber.NewError(http.StatusForbidden, err.Error())
		case errors.Is(err, ledger.ErrStoreUnavailable):
			return fiber.NewError(http.StatusServiceUnavailable, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"status":          result.Status,
		"debit_entry_id":  result.DebitEntryID,
		"credit_entry_id": result.CreditEntryID,
	})
}
