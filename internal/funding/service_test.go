package funding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/8bitCyborg/demoCredit/internal/ledger"
	"github.com/8bitCyborg/demoCredit/internal/logging"
	"github.com/8bitCyborg/demoCredit/internal/wallet"
)

type rejectingVerifier struct{}

func (rejectingVerifier) ValidateReference(_ context.Context, reference, email string) (Verification, error) {
	return Verification{Valid: false, Reference: reference, Email: email}, nil
}

func newTestService(store ledger.Store, verifier Verifier) *Service {
	return NewService(store, verifier, nil, logging.Discard())
}

func TestFundCreditsWallet(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewInMemory()
	ledger.SeedWallet(store, 1, "a@example.com", 0, false)
	svc := newTestService(store, nil)

	res, err := svc.Fund(ctx, FundInput{Email: "a@example.com", Amount: 10_000, Reference: "fund-1"})
	require.NoError(t, err)
	require.Equal(t, "wallet funded successfully", res.Message)

	w, err := store.WalletByEmail(ctx, "a@example.com", false)
	require.NoError(t, err)
	require.EqualValues(t, 10_000, w.Balance)

	entries, err := store.EntriesForWallet(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, ledger.EntryCredit, entries[0].Type)
	require.Equal(t, "funding", entries[0].Category)
}

func TestFundDuplicateReference(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewInMemory()
	ledger.SeedWallet(store, 1, "a@example.com", 0, false)
	svc := newTestService(store, nil)

	_, err := svc.Fund(ctx, FundInput{Email: "a@example.com", Amount: 10_000, Reference: "fund-dup"})
	require.NoError(t, err)

	_, err = svc.Fund(ctx, FundInput{Email: "a@example.com", Amount: 10_000, Reference: "fund-dup"})
	require.ErrorIs(t, err, ledger.ErrDuplicateReference)

	w, err := store.WalletByEmail(ctx, "a@example.com", false)
	require.NoError(t, err)
	require.EqualValues(t, 10_000, w.Balance, "duplicate submission must not credit twice")
}

func TestFundVerifierRejects(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewInMemory()
	ledger.SeedWallet(store, 1, "a@example.com", 0, false)
	svc := newTestService(store, rejectingVerifier{})

	_, err := svc.Fund(ctx, FundInput{Email: "a@example.com", Amount: 10_000, Reference: "fund-bad"})
	require.ErrorIs(t, err, ErrVerificationRejected)

	w, err := store.WalletByEmail(ctx, "a@example.com", false)
	require.NoError(t, err)
	require.Zero(t, w.Balance)
}

func TestFundValidation(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewInMemory()
	ledger.SeedWallet(store, 1, "a@example.com", 0, false)
	svc := newTestService(store, nil)

	_, err := svc.Fund(ctx, FundInput{Email: "a@example.com", Amount: 0, Reference: "fund-x"})
	require.ErrorIs(t, err, ledger.ErrInvalidAmount)

	_, err = svc.Fund(ctx, FundInput{Email: "a@example.com", Amount: 100, Reference: "  "})
	require.ErrorIs(t, err, ledger.ErrMissingReference)

	_, err = svc.Fund(ctx, FundInput{Email: "nobody@example.com", Amount: 100, Reference: "fund-y"})
	require.ErrorIs(t, err, ledger.ErrWalletNotFound)
}

func TestFundDisabledWallet(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewInMemory()
	ledger.SeedWallet(store, 1, "a@example.com", 0, true)
	svc := newTestService(store, nil)

	_, err := svc.Fund(ctx, FundInput{Email: "a@example.com", Amount: 100, Reference: "fund-z"})
	require.ErrorIs(t, err, wallet.ErrWalletDisabled)
}

func TestWithdrawDebitsWallet(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewInMemory()
	ledger.SeedWallet(store, 1, "a@example.com", 10_000, false)
	svc := newTestService(store, nil)

	res, err := svc.Withdraw(ctx, WithdrawInput{UserID: 1, Amount: 4_000, Reference: "wd-1"})
	require.NoError(t, err)
	require.Equal(t, "success", res.Status)
	require.NotZero(t, res.TransactionID)

	w, err := store.WalletForUser(ctx, 1, false)
	require.NoError(t, err)
	require.EqualValues(t, 6_000, w.Balance)

	entries, err := store.EntriesForWallet(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, ledger.EntryDebit, entries[0].Type)
	require.Equal(t, "withdrawal", entries[0].Category)
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewInMemory()
	ledger.SeedWallet(store, 1, "a@example.com", 1_000, false)
	svc := newTestService(store, nil)

	_, err := svc.Withdraw(ctx, WithdrawInput{UserID: 1, Amount: 2_000, Reference: "wd-2"})
	require.ErrorIs(t, err, wallet.ErrInsufficientBalance)

	w, err := store.WalletForUser(ctx, 1, false)
	require.NoError(t, err)
	require.EqualValues(t, 1_000, w.Balance)
}

func TestWithdrawRollsBackOnEntryFailure(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewInMemory()
	ledger.SeedWallet(store, 1, "a@example.com", 10_000, false)
	svc := newTestService(store, nil)

	boom := errors.New("entry write failed")
	ledger.FailAppend(store, "wd-3", boom)

	_, err := svc.Withdraw(ctx, WithdrawInput{UserID: 1, Amount: 4_000, Reference: "wd-3"})
	require.ErrorIs(t, err, boom)

	w, err := store.WalletForUser(ctx, 1, false)
	require.NoError(t, err)
	require.EqualValues(t, 10_000, w.Balance, "failed scope must leave the balance untouched")
}
