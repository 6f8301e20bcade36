package funding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/8bitCyborg/demoCredit/internal/ledger"
	"github.com/8bitCyborg/demoCredit/internal/metrics"
	"github.com/8bitCyborg/demoCredit/internal/wallet"
)

const (
	defaultFundingCategory    = "funding"
	defaultWithdrawalCategory = "withdrawal"
)

// Service orchestrates wallet funding and withdrawals. Each operation is one
// atomic scope: the wallet row is locked before validation, mutation and
// entry append, so nothing can interleave between the balance read and write.
type Service struct {
	store     ledger.Store
	guard     ledger.Guard
	validate  wallet.Validator
	verifier  Verifier
	disburser Disburser
	logger    *slog.Logger
}

// NewService wires a funding service. A nil verifier or disburser falls back
// to the static stubs.
func NewService(store ledger.Store, verifier Verifier, disburser Disburser, logger *slog.Logger) *Service {
	if verifier == nil {
		verifier = StaticVerifier{}
	}
	if disburser == nil {
		disburser = StaticDisburser{}
	}
	return &Service{store: store, verifier: verifier, disburser: disburser, logger: logger}
}

// FundInput captures a wallet funding request.
type FundInput struct {
	Email       string
	Amount      int64
	Reference   string
	Category    string
	Description string
}

// FundResult acknowledges a recorded funding.
type FundResult struct {
	Message string
}

// WithdrawInput captures a withdrawal request including payout metadata for
// the downstream disbursement connector.
type WithdrawInput struct {
	UserID        int64
	Amount        int64
	Reference     string
	Category      string
	Description   string
	BankCode      string
	AccountNumber string
	AccountName   string
}

// WithdrawResult reports the recorded debit.
type WithdrawResult struct {
	Status        string
	TransactionID int64
}

// Fund credits a wallet resolved by email after the external provider has
// vouched for the reference. The credit and its ledger entry commit together.
func (s *Service) Fund(ctx context.Context, input FundInput) (FundResult, error) {
	if input.Amount <= 0 {
		return FundResult{}, ledger.ErrInvalidAmount
	}
	if strings.TrimSpace(input.Reference) == "" {
		return FundResult{}, ledger.ErrMissingReference
	}

	verification, err := s.verifier.ValidateReference(ctx, input.Reference, input.Email)
	if err != nil {
		return FundResult{}, fmt.Errorf("verify funding reference: %w", err)
	}
	if !verification.Valid {
		metrics.OperationsFailed.WithLabelValues("fund").Inc()
		return FundResult{}, ErrVerificationRejected
	}
	email := verification.Email
	if email == "" {
		email = input.Email
	}

	err = s.store.RunAtomic(ctx, func(tx ledger.Tx) error {
		w, err := tx.WalletByEmail(ctx, email, true)
		if err != nil {
			return err
		}
		if err := s.guard.CheckAndReserve(ctx, tx, input.Reference); err != nil {
			return err
		}
		if err := s.validate.EnsureActive(w); err != nil {
			return err
		}
		if err := tx.AdjustBalance(ctx, w.ID, input.Amount); err != nil {
			return err
		}
		_, err = tx.AppendEntry(ctx, ledger.Entry{
			WalletID:    w.ID,
			Amount:      input.Amount,
			Type:        ledger.EntryCredit,
			Category:    orCategory(input.Category, defaultFundingCategory),
			Status:      ledger.StatusSuccess,
			Reference:   input.Reference,
			Description: input.Description,
		})
		return err
	})
	if err != nil {
		metrics.OperationsFailed.WithLabelValues("fund").Inc()
		return FundResult{}, err
	}

	metrics.OperationsTotal.WithLabelValues("fund").Inc()
	metrics.EntriesTotal.WithLabelValues(string(ledger.EntryCredit)).Inc()
	return FundResult{Message: "wallet funded successfully"}, nil
}

// Withdraw debits the user's wallet and records the debit entry. Payout
// dispatch happens after commit and any dispatch failure is logged only; the
// recorded debit is the source of truth.
func (s *Service) Withdraw(ctx context.Context, input WithdrawInput) (WithdrawResult, error) {
	if input.Amount <= 0 {
		return WithdrawResult{}, ledger.ErrInvalidAmount
	}
	if strings.TrimSpace(input.Reference) == "" {
		return WithdrawResult{}, ledger.ErrMissingReference
	}

	var entryID int64
	err := s.store.RunAtomic(ctx, func(tx ledger.Tx) error {
		w, err := tx.WalletForUser(ctx, input.UserID, true)
		if err != nil {
			return err
		}
		if err := s.guard.CheckAndReserve(ctx, tx, input.Reference); err != nil {
			return err
		}
		if err := s.validate.EnsureActive(w); err != nil {
			return err
		}
		if err := s.validate.EnsureFunded(w, input.Amount); err != nil {
			return err
		}
		if err := tx.AdjustBalance(ctx, w.ID, -input.Amount); err != nil {
			return err
		}
		entryID, err = tx.AppendEntry(ctx, ledger.Entry{
			WalletID:    w.ID,
			Amount:      input.Amount,
			Type:        ledger.EntryDebit,
			Category:    orCategory(input.Category, defaultWithdrawalCategory),
			Status:      ledger.StatusSuccess,
			Reference:   input.Reference,
			Description: input.Description,
		})
		return err
	})
	if err != nil {
		metrics.OperationsFailed.WithLabelValues("withdraw").Inc()
		return WithdrawResult{}, err
	}

	metrics.OperationsTotal.WithLabelValues("withdraw").Inc()
	metrics.EntriesTotal.WithLabelValues(string(ledger.EntryDebit)).Inc()

	if receipt, err := s.disburser.Dispatch(ctx, Payout{
		Reference:     input.Reference,
		Amount:        input.Amount,
		BankCode:      input.BankCode,
		AccountNumber: input.AccountNumber,
		AccountName:   input.AccountName,
	}); err != nil {
		s.logger.Warn("payout dispatch failed", "reference", input.Reference, "error", err)
	} else {
		s.logger.Info("payout dispatched", "reference", input.Reference, "provider_reference", receipt.Reference, "status", receipt.Status)
	}

	return WithdrawResult{Status: "success", TransactionID: entryID}, nil
}

func orCategory(category, fallback string) string {
	if strings.TrimSpace(category) == "" {
		return fallback
	}
	return category
}
