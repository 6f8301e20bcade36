package wallet

import (
	"context"
	"fmt"

	"github.com/8bitCyborg/demoCredit/internal/ledger"
)

// Service exposes read-side wallet operations. Reads always hit the store:
// balances feeding any decision are never cached in process memory.
type Service struct {
	store ledger.Store
}

// NewService builds a wallet read service.
func NewService(store ledger.Store) *Service {
	return &Service{store: store}
}

// Balance returns the wallet owned by userID with its current balance.
func (s *Service) Balance(ctx context.Context, userID int64) (ledger.Wallet, error) {
	return s.store.WalletForUser(ctx, userID, false)
}

// Statement returns the user's ledger entries, oldest first.
func (s *Service) Statement(ctx context.Context, userID int64) ([]ledger.Entry, error) {
	w, err := s.store.WalletForUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.EntriesForWallet(ctx, w.ID)
	if err != nil {
		return nil, fmt.Errorf("list entries for wallet %d: %w", w.ID, err)
	}
	return entries, nil
}
