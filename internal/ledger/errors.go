package ledger

import "errors"

var (
	// ErrWalletNotFound occurs when no wallet exists for the requested user
	// or email.
	ErrWalletNotFound = errors.New("no wallet found for this user")

	// ErrMissingReference indicates a mutating operation was submitted
	// without a client transaction reference.
	ErrMissingReference = errors.New("transaction reference is required")

	// ErrDuplicateReference indicates the client reference (or one of its
	// derived -DR/-CR forms) has already been recorded, so the operation is
	// a duplicate submission and must not be applied again.
	ErrDuplicateReference = errors.New("duplicate transaction reference")

	// ErrInvalidAmount rejects non-positive amounts before any store access.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrStoreUnavailable wraps transient store failures (lock timeout,
	// connection loss). Safe to retry with the same reference.
	ErrStoreUnavailable = errors.New("ledger store unavailable")
)
