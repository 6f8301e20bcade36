package ledger

import (
	"context"
	"time"
)

// EntryType classifies a ledger entry as a credit or a debit.
type EntryType string

const (
	EntryCredit EntryType = "credit"
	EntryDebit  EntryType = "debit"
)

// EntryStatus records the settlement state of an entry. Validation happens
// before anything is written, so the engine itself only ever persists
// StatusSuccess; the other values exist for externally sourced rows.
type EntryStatus string

const (
	StatusSuccess EntryStatus = "success"
	StatusFailed  EntryStatus = "failed"
	StatusPending EntryStatus = "pending"
)

// Reference suffixes applied to the two legs of a transfer. A transfer with
// client reference "t1" produces entries "t1-DR" and "t1-CR".
const (
	DebitSuffix  = "-DR"
	CreditSuffix = "-CR"
)

// Wallet is a per-user balance record. Balance is held in the smallest
// currency denomination and is never observable below zero outside an
// in-flight atomic scope.
type Wallet struct {
	ID        int64
	UserID    int64
	Balance   int64
	Disabled  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Entry is one immutable row of the transaction ledger. Entries are
// append-only: created exactly once per successful credit or debit, never
// updated or deleted.
type Entry struct {
	ID          int64
	WalletID    int64
	Amount      int64
	Type        EntryType
	Category    string
	Status      EntryStatus
	Reference   string
	Description string
	CreatedAt   time.Time
}

// Tx is the set of ledger operations available inside an atomic scope.
// Locked reads hold the wallet's row lock until the scope commits or rolls
// back, so no concurrent operation can read-and-mutate the same wallet.
type Tx interface {
	// WalletForUser resolves the wallet owned by userID. With lock set the
	// row is locked for the remainder of the scope. Returns
	// ErrWalletNotFound if the user has no wallet.
	WalletForUser(ctx context.Context, userID int64, lock bool) (Wallet, error)

	// WalletByEmail resolves a wallet through its owning user's email.
	WalletByEmail(ctx context.Context, email string, lock bool) (Wallet, error)

	// AdjustBalance applies a signed delta to the wallet balance. It does
	// not validate sufficiency; callers validate against the locked row
	// before mutating.
	AdjustBalance(ctx context.Context, walletID, delta int64) error

	// AppendEntry inserts one immutable ledger row and returns its id.
	AppendEntry(ctx context.Context, entry Entry) (int64, error)

	// ReferenceInUse reports whether a ledger entry with the given client
	// reference already exists.
	ReferenceInUse(ctx context.Context, reference string) (bool, error)
}

// Store is the durable record of wallets and ledger entries. RunAtomic is
// the sole atomicity primitive the transaction engine relies on: every
// mutation made through the Tx handle commits together or not at all.
// Calling Tx methods directly on the Store executes them outside any scope.
type Store interface {
	Tx

	// RunAtomic executes fn with a scoped Tx. Any error or panic inside fn
	// rolls back every mutation made in the scope.
	RunAtomic(ctx context.Context, fn func(tx Tx) error) error

	// EnsureWallet guarantees a zero-balance wallet exists for the user,
	// creating one if absent. The email is kept for lookup by email.
	EnsureWallet(ctx context.Context, userID int64, email string) (Wallet, error)

	// EntriesForWallet returns the wallet's ledger entries, oldest first.
	EntriesForWallet(ctx context.Context, walletID int64) ([]Entry, error)
}
