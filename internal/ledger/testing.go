package ledger

import "context"

// SeedWallet is a test helper that provisions a wallet with the given balance
// and state when using the in-memory store.
func SeedWallet(s Store, userID int64, email string, balance int64, disabled bool) Wallet {
	mem, ok := s.(*memoryStore)
	if !ok {
		return Wallet{}
	}
	w, _ := mem.EnsureWallet(context.Background(), userID, email)

	mem.mu.Lock()
	defer mem.mu.Unlock()
	w.Balance = balance
	w.Disabled = disabled
	mem.wallets[w.ID] = w
	return w
}

// FailAppend makes the in-memory store fail any AppendEntry carrying the
// given reference with err. Used to force a mid-scope failure and observe
// the rollback.
func FailAppend(s Store, reference string, err error) {
	if mem, ok := s.(*memoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.failAppend[reference] = err
	}
}
