package payments

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/8bitCyborg/demoCredit/internal/funding"
	"github.com/8bitCyborg/demoCredit/internal/ledger"
	"github.com/8bitCyborg/demoCredit/internal/logging"
	"github.com/8bitCyborg/demoCredit/internal/wallet"
)

func seedPair(t *testing.T) (ledger.Store, ledger.Wallet, ledger.Wallet) {
	t.Helper()
	store := ledger.NewInMemory()
	sender := ledger.SeedWallet(store, 1, "sender@example.com", 10_000, false)
	receiver := ledger.SeedWallet(store, 2, "receiver@example.com", 0, false)
	return store, sender, receiver
}

func TestTransferMovesFundsAtomically(t *testing.T) {
	ctx := context.Background()
	store, sender, receiver := seedPair(t)
	svc := NewService(store, nil)

	res, err := svc.Transfer(ctx, TransferInput{
		SenderUserID:   1,
		ReceiverUserID: 2,
		Amount:         3_000,
		Reference:      "tr-1",
		SenderName:     "Ada",
		ReceiverName:   "Bayo",
	})
	require.NoError(t, err)
	require.Equal(t, "success", res.Status)
	require.NotZero(t, res.DebitEntryID)
	require.NotZero(t, res.CreditEntryID)

	senderW, err := store.WalletForUser(ctx, 1, false)
	require.NoError(t, err)
	require.EqualValues(t, 7_000, senderW.Balance)

	receiverW, err := store.WalletForUser(ctx, 2, false)
	require.NoError(t, err)
	require.EqualValues(t, 3_000, receiverW.Balance)

	debits, err := store.EntriesForWallet(ctx, sender.ID)
	require.NoError(t, err)
	require.Len(t, debits, 1)
	require.Equal(t, ledger.EntryDebit, debits[0].Type)
	require.Equal(t, "tr-1"+ledger.DebitSuffix, debits[0].Reference)

	credits, err := store.EntriesForWallet(ctx, receiver.ID)
	require.NoError(t, err)
	require.Len(t, credits, 1)
	require.Equal(t, ledger.EntryCredit, credits[0].Type)
	require.Equal(t, "tr-1"+ledger.CreditSuffix, credits[0].Reference)
}

func TestTransferValidation(t *testing.T) {
	ctx := context.Background()
	store, _, _ := seedPair(t)
	svc := NewService(store, nil)

	_, err := svc.Transfer(ctx, TransferInput{SenderUserID: 1, ReceiverUserID: 2, Amount: 0, Reference: "tr-v"})
	require.ErrorIs(t, err, ledger.ErrInvalidAmount)

	_, err = svc.Transfer(ctx, TransferInput{SenderUserID: 1, ReceiverUserID: 2, Amount: 100, Reference: " "})
	require.ErrorIs(t, err, ledger.ErrMissingReference)

	_, err = svc.Transfer(ctx, TransferInput{SenderUserID: 1, ReceiverUserID: 1, Amount: 100, Reference: "tr-self"})
	require.ErrorIs(t, err, ErrSelfTransfer)

	_, err = svc.Transfer(ctx, TransferInput{SenderUserID: 1, ReceiverUserID: 9, Amount: 100, Reference: "tr-missing"})
	require.ErrorIs(t, err, ledger.ErrWalletNotFound)
}

func TestTransferInsufficientBalance(t *testing.T) {
	ctx := context.Background()
	store, _, _ := seedPair(t)
	svc := NewService(store, nil)

	_, err := svc.Transfer(ctx, TransferInput{SenderUserID: 1, ReceiverUserID: 2, Amount: 50_000, Reference: "tr-2"})
	require.ErrorIs(t, err, wallet.ErrInsufficientBalance)

	senderW, _ := store.WalletForUser(ctx, 1, false)
	receiverW, _ := store.WalletForUser(ctx, 2, false)
	require.EqualValues(t, 10_000, senderW.Balance)
	require.Zero(t, receiverW.Balance)
}

func TestTransferDisabledReceiver(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewInMemory()
	ledger.SeedWallet(store, 1, "sender@example.com", 10_000, false)
	ledger.SeedWallet(store, 2, "receiver@example.com", 0, true)
	svc := NewService(store, nil)

	_, err := svc.Transfer(ctx, TransferInput{SenderUserID: 1, ReceiverUserID: 2, Amount: 100, Reference: "tr-3"})
	require.ErrorIs(t, err, wallet.ErrWalletDisabled)
}

func TestTransferDuplicateReference(t *testing.T) {
	ctx := context.Background()
	store, _, _ := seedPair(t)
	svc := NewService(store, nil)

	_, err := svc.Transfer(ctx, TransferInput{SenderUserID: 1, ReceiverUserID: 2, Amount: 1_000, Reference: "tr-dup"})
	require.NoError(t, err)

	_, err = svc.Transfer(ctx, TransferInput{SenderUserID: 1, ReceiverUserID: 2, Amount: 1_000, Reference: "tr-dup"})
	require.ErrorIs(t, err, ledger.ErrDuplicateReference)

	senderW, _ := store.WalletForUser(ctx, 1, false)
	receiverW, _ := store.WalletForUser(ctx, 2, false)
	require.EqualValues(t, 9_000, senderW.Balance, "replay must not debit twice")
	require.EqualValues(t, 1_000, receiverW.Balance, "replay must not credit twice")
}

func TestTransferRollsBackOnCreditLegFailure(t *testing.T) {
	ctx := context.Background()
	store, _, _ := seedPair(t)
	svc := NewService(store, nil)

	boom := errors.New("credit leg failed")
	ledger.FailAppend(store, "tr-4"+ledger.CreditSuffix, boom)

	_, err := svc.Transfer(ctx, TransferInput{SenderUserID: 1, ReceiverUserID: 2, Amount: 2_500, Reference: "tr-4"})
	require.ErrorIs(t, err, boom)

	senderW, _ := store.WalletForUser(ctx, 1, false)
	receiverW, _ := store.WalletForUser(ctx, 2, false)
	require.EqualValues(t, 10_000, senderW.Balance, "debit leg must roll back with the failed credit leg")
	require.Zero(t, receiverW.Balance)

	used, err := store.ReferenceInUse(ctx, "tr-4"+ledger.DebitSuffix)
	require.NoError(t, err)
	require.False(t, used)
}

func TestConcurrentTransfersCannotOverdraw(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewInMemory()
	ledger.SeedWallet(store, 1, "sender@example.com", 150, false)
	ledger.SeedWallet(store, 2, "receiver@example.com", 0, false)
	svc := NewService(store, nil)

	const workers = 2
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Transfer(ctx, TransferInput{
				SenderUserID:   1,
				ReceiverUserID: 2,
				Amount:         100,
				Reference:      fmt.Sprintf("tr-c-%d", i),
			})
		}(i)
	}
	wg.Wait()

	var successes, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, wallet.ErrInsufficientBalance):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, 1, insufficient)

	senderW, _ := store.WalletForUser(ctx, 1, false)
	receiverW, _ := store.WalletForUser(ctx, 2, false)
	require.EqualValues(t, 50, senderW.Balance)
	require.EqualValues(t, 100, receiverW.Balance)
	require.GreaterOrEqual(t, senderW.Balance, int64(0))
}

func TestFundThenTransfer(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewInMemory()
	sender := ledger.SeedWallet(store, 1, "sender@example.com", 0, false)
	receiver := ledger.SeedWallet(store, 2, "receiver@example.com", 0, false)

	fundSvc := funding.NewService(store, nil, nil, logging.Discard())
	transferSvc := NewService(store, nil)

	_, err := fundSvc.Fund(ctx, funding.FundInput{Email: "sender@example.com", Amount: 1_000, Reference: "f1"})
	require.NoError(t, err)

	_, err = transferSvc.Transfer(ctx, TransferInput{
		SenderUserID:   1,
		ReceiverUserID: 2,
		Amount:         400,
		Reference:      "t1",
	})
	require.NoError(t, err)

	senderW, _ := store.WalletForUser(ctx, 1, false)
	receiverW, _ := store.WalletForUser(ctx, 2, false)
	require.EqualValues(t, 600, senderW.Balance)
	require.EqualValues(t, 400, receiverW.Balance)

	senderEntries, err := store.EntriesForWallet(ctx, sender.ID)
	require.NoError(t, err)
	require.Len(t, senderEntries, 2)
	require.Equal(t, "f1", senderEntries[0].Reference)
	require.Equal(t, "t1"+ledger.DebitSuffix, senderEntries[1].Reference)

	receiverEntries, err := store.EntriesForWallet(ctx, receiver.ID)
	require.NoError(t, err)
	require.Len(t, receiverEntries, 1)
	require.Equal(t, "t1"+ledger.CreditSuffix, receiverEntries[0].Reference)

	// Conservation: credits minus debits per wallet equals its balance.
	require.EqualValues(t, senderEntries[0].Amount-senderEntries[1].Amount, senderW.Balance)
	require.EqualValues(t, receiverEntries[0].Amount, receiverW.Balance)
}
