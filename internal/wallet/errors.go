package wallet

import "errors"

var (
	// ErrWalletDisabled rejects debits and credits against a disabled wallet.
	ErrWalletDisabled = errors.New("wallet is disabled")

	// ErrInsufficientBalance occurs when a debit exceeds the available funds.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
