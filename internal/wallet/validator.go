package wallet

import "github.com/8bitCyborg/demoCredit/internal/ledger"

// Validator checks wallet preconditions. Checks always run after the wallet
// row has been locked inside the atomic scope, so the snapshot they validate
// cannot change underneath them before the scope ends.
type Validator struct{}

// EnsureActive fails when the wallet is disabled. A disabled wallet accepts
// neither debits nor credits.
func (Validator) EnsureActive(w ledger.Wallet) error {
	if w.Disabled {
		return ErrWalletDisabled
	}
	return nil
}

// EnsureFunded fails when the wallet cannot cover the requested debit.
func (Validator) EnsureFunded(w ledger.Wallet, amount int64) error {
	if w.Balance < amount {
		return ErrInsufficientBalance
	}
	return nil
}
