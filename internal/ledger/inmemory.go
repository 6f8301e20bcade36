package ledger

import (
	"context"
	"sync"
	"time"
)

// memoryStore is an in-memory Store for unit tests. A single mutex held for
// the whole atomic scope serializes operations, which trivially satisfies the
// per-wallet serializability the Postgres store gets from row locks. Scoped
// mutations are staged and only merged into the live maps on commit, so a
// failing scope leaves no trace.
type memoryStore struct {
	mu           sync.Mutex
	wallets      map[int64]Wallet
	byUser       map[int64]int64
	byEmail      map[string]int64
	entries      []Entry
	refs         map[string]int64
	nextWalletID int64
	nextEntryID  int64
	failAppend   map[string]error
}

// NewInMemory creates a concurrency-safe in-memory ledger store.
func NewInMemory() Store {
	return &memoryStore{
		wallets:    make(map[int64]Wallet),
		byUser:     make(map[int64]int64),
		byEmail:    make(map[string]int64),
		refs:       make(map[string]int64),
		failAppend: make(map[string]error),
	}
}

func (s *memoryStore) RunAtomic(_ context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scope := s.begin()
	if err := fn(scope); err != nil {
		return err
	}
	scope.commit()
	return nil
}

func (s *memoryStore) WalletForUser(ctx context.Context, userID int64, lock bool) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begin().WalletForUser(ctx, userID, lock)
}

func (s *memoryStore) WalletByEmail(ctx context.Context, email string, lock bool) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begin().WalletByEmail(ctx, email, lock)
}

func (s *memoryStore) AdjustBalance(ctx context.Context, walletID, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	scope := s.begin()
	if err := scope.AdjustBalance(ctx, walletID, delta); err != nil {
		return err
	}
	scope.commit()
	return nil
}

func (s *memoryStore) AppendEntry(ctx context.Context, entry Entry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scope := s.begin()
	id, err := scope.AppendEntry(ctx, entry)
	if err != nil {
		return 0, err
	}
	scope.commit()
	return id, nil
}

func (s *memoryStore) ReferenceInUse(ctx context.Context, reference string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begin().ReferenceInUse(ctx, reference)
}

func (s *memoryStore) EnsureWallet(_ context.Context, userID int64, email string) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byUser[userID]; ok {
		return s.wallets[id], nil
	}

	s.nextWalletID++
	now := time.Now().UTC()
	w := Wallet{ID: s.nextWalletID, UserID: userID, CreatedAt: now, UpdatedAt: now}
	s.wallets[w.ID] = w
	s.byUser[userID] = w.ID
	if email != "" {
		s.byEmail[email] = w.ID
	}
	return w, nil
}

func (s *memoryStore) EntriesForWallet(_ context.Context, walletID int64) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []Entry
	for _, e := range s.entries {
		if e.WalletID == walletID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// begin snapshots wallet state into a scope. Callers must hold s.mu.
func (s *memoryStore) begin() *memScope {
	wallets := make(map[int64]Wallet, len(s.wallets))
	for id, w := range s.wallets {
		wallets[id] = w
	}
	return &memScope{store: s, wallets: wallets, refs: make(map[string]int64)}
}

// memScope stages mutations against cloned wallet state and pending entry
// slices; commit merges them back under the store mutex.
type memScope struct {
	store   *memoryStore
	wallets map[int64]Wallet
	pending []Entry
	refs    map[string]int64
}

func (t *memScope) WalletForUser(_ context.Context, userID int64, _ bool) (Wallet, error) {
	id, ok := t.store.byUser[userID]
	if !ok {
		return Wallet{}, ErrWalletNotFound
	}
	return t.wallets[id], nil
}

func (t *memScope) WalletByEmail(_ context.Context, email string, _ bool) (Wallet, error) {
	id, ok := t.store.byEmail[email]
	if !ok {
		return Wallet{}, ErrWalletNotFound
	}
	return t.wallets[id], nil
}

func (t *memScope) AdjustBalance(_ context.Context, walletID, delta int64) error {
	w, ok := t.wallets[walletID]
	if !ok {
		return ErrWalletNotFound
	}
	w.Balance += delta
	w.UpdatedAt = time.Now().UTC()
	t.wallets[walletID] = w
	return nil
}

func (t *memScope) AppendEntry(_ context.Context, entry Entry) (int64, error) {
	if err, ok := t.store.failAppend[entry.Reference]; ok {
		return 0, err
	}
	if _, ok := t.store.refs[entry.Reference]; ok {
		return 0, ErrDuplicateReference
	}
	if _, ok := t.refs[entry.Reference]; ok {
		return 0, ErrDuplicateReference
	}

	t.store.nextEntryID++
	entry.ID = t.store.nextEntryID
	entry.CreatedAt = time.Now().UTC()
	t.pending = append(t.pending, entry)
	t.refs[entry.Reference] = entry.ID
	return entry.ID, nil
}

func (t *memScope) ReferenceInUse(_ context.Context, reference string) (bool, error) {
	if _, ok := t.store.refs[reference]; ok {
		return true, nil
	}
	_, ok := t.refs[reference]
	return ok, nil
}

func (t *memScope) commit() {
	t.store.wallets = t.wallets
	t.store.entries = append(t.store.entries, t.pending...)
	for ref, id := range t.refs {
		t.store.refs[ref] = id
	}
}
