package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/8bitCyborg/demoCredit/internal/ledger"
	"github.com/8bitCyborg/demoCredit/internal/metrics"
	"github.com/8bitCyborg/demoCredit/internal/notification"
	"github.com/8bitCyborg/demoCredit/internal/wallet"
)

const defaultTransferCategory = "p2p-transfer"

// ErrSelfTransfer rejects transfers where sender and receiver are the same
// user. Checked before any store access.
var ErrSelfTransfer = errors.New("cannot transfer to self")

// Service orchestrates wallet-to-wallet transfers. The debit leg and the
// credit leg are posted inside one atomic scope: a partially applied
// transfer is never observable.
type Service struct {
	store    ledger.Store
	guard    ledger.Guard
	validate wallet.Validator
	notifier notification.Notifier
}

// NewService constructs a transfer service.
func NewService(store ledger.Store, notifier notification.Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// TransferInput captures the data needed to move funds between two users.
type TransferInput struct {
	SenderUserID   int64
	ReceiverUserID int64
	Amount         int64
	Reference      string
	SenderName     string
	ReceiverName   string
	Category       string
}

// TransferResult reports the two ledger entries written for the transfer.
type TransferResult struct {
	Status        string
	DebitEntryID  int64
	CreditEntryID int64
}

// Transfer debits the sender and credits the receiver atomically. Both
// wallet rows are locked in ascending user-id order, a fixed global order
// that keeps two opposing transfers between the same pair from deadlocking.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (TransferResult, error) {
	if input.Amount <= 0 {
		return TransferResult{}, ledger.ErrInvalidAmount
	}
	if strings.TrimSpace(input.Reference) == "" {
		return TransferResult{}, ledger.ErrMissingReference
	}
	if input.SenderUserID == input.ReceiverUserID {
		return TransferResult{}, ErrSelfTransfer
	}

	var result TransferResult
	err := s.store.RunAtomic(ctx, func(tx ledger.Tx) error {
		if err := s.guard.CheckAndReserve(ctx, tx, input.Reference); err != nil {
			return err
		}

		sender, receiver, err := s.lockPair(ctx, tx, input.SenderUserID, input.ReceiverUserID)
		if err != nil {
			return err
		}

		if err := s.validate.EnsureActive(sender); err != nil {
			return err
		}
		if err := s.validate.EnsureFunded(sender, input.Amount); err != nil {
			return err
		}
		if err := s.validate.EnsureActive(receiver); err != nil {
			return err
		}

		category := input.Category
		if strings.TrimSpace(category) == "" {
			category = defaultTransferCategory
		}

		if err := tx.AdjustBalance(ctx, sender.ID, -input.Amount); err != nil {
			return err
		}
		debitID, err := tx.AppendEntry(ctx, ledger.Entry{
			WalletID:    sender.ID,
			Amount:      input.Amount,
			Type:        ledger.EntryDebit,
			Category:    category,
			Status:      ledger.StatusSuccess,
			Reference:   input.Reference + ledger.DebitSuffix,
			Description: fmt.Sprintf("Transfer to %s", input.ReceiverName),
		})
		if err != nil {
			return err
		}

		if err := tx.AdjustBalance(ctx, receiver.ID, input.Amount); err != nil {
			return err
		}
		creditID, err := tx.AppendEntry(ctx, ledger.Entry{
			WalletID:    receiver.ID,
			Amount:      input.Amount,
			Type:        ledger.EntryCredit,
			Category:    category,
			Status:      ledger.StatusSuccess,
			Reference:   input.Reference + ledger.CreditSuffix,
			Description: fmt.Sprintf("Transfer from %s", input.SenderName),
		})
		if err != nil {
			return err
		}

		result = TransferResult{Status: "success", DebitEntryID: debitID, CreditEntryID: creditID}
		return nil
	})
	if err != nil {
		metrics.OperationsFailed.WithLabelValues("transfer").Inc()
		return TransferResult{}, err
	}

	metrics.OperationsTotal.WithLabelValues("transfer").Inc()
	metrics.EntriesTotal.WithLabelValues(string(ledger.EntryDebit)).Inc()
	metrics.EntriesTotal.WithLabelValues(string(ledger.EntryCredit)).Inc()

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransferReceived,
			Destination: fmt.Sprintf("user:%d", input.ReceiverUserID),
			Body:        fmt.Sprintf("You received %d from %s", input.Amount, input.SenderName),
		})
	}

	return result, nil
}

// lockPair acquires both wallet row locks in ascending user-id order and
// returns them as (sender, receiver).
func (s *Service) lockPair(ctx context.Context, tx ledger.Tx, senderUserID, receiverUserID int64) (ledger.Wallet, ledger.Wallet, error) {
	first, second := senderUserID, receiverUserID
	if second < first {
		first, second = second, first
	}

	w1, err := tx.WalletForUser(ctx, first, true)
	if err != nil {
		return ledger.Wallet{}, ledger.Wallet{}, err
	}
	w2, err := tx.WalletForUser(ctx, second, true)
	if err != nil {
		return ledger.Wallet{}, ledger.Wallet{}, err
	}

	if w1.UserID == senderUserID {
		return w1, w2, nil
	}
	return w2, w1, nil
}
