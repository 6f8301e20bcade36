package ledger

import (
	"context"
	"errors"
	"testing"
)

func TestGuard_MissingReference(t *testing.T) {
	s := NewInMemory()
	var guard Guard

	err := s.RunAtomic(context.Background(), func(tx Tx) error {
		return guard.CheckAndReserve(context.Background(), tx, "   ")
	})
	if !errors.Is(err, ErrMissingReference) {
		t.Fatalf("expected missing reference error, got %v", err)
	}
}

func TestGuard_FreshReferencePasses(t *testing.T) {
	s := NewInMemory()
	var guard Guard

	err := s.RunAtomic(context.Background(), func(tx Tx) error {
		return guard.CheckAndReserve(context.Background(), tx, "fresh-ref")
	})
	if err != nil {
		t.Fatalf("expected fresh reference to pass, got %v", err)
	}
}

func TestGuard_DuplicateBaseReference(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	w := SeedWallet(s, 1, "a@example.com", 0, false)
	var guard Guard

	if _, err := s.AppendEntry(ctx, Entry{WalletID: w.ID, Amount: 100, Type: EntryCredit, Status: StatusSuccess, Reference: "ref-1"}); err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	err := s.RunAtomic(ctx, func(tx Tx) error {
		return guard.CheckAndReserve(ctx, tx, "ref-1")
	})
	if !errors.Is(err, ErrDuplicateReference) {
		t.Fatalf("expected duplicate reference error, got %v", err)
	}
}

func TestGuard_DuplicateDerivedLeg(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	w := SeedWallet(s, 1, "a@example.com", 0, false)
	var guard Guard

	// A transfer recorded under ref-2 wrote only derived leg references.
	if _, err := s.AppendEntry(ctx, Entry{WalletID: w.ID, Amount: 100, Type: EntryDebit, Status: StatusSuccess, Reference: "ref-2" + DebitSuffix}); err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	err := s.RunAtomic(ctx, func(tx Tx) error {
		return guard.CheckAndReserve(ctx, tx, "ref-2")
	})
	if !errors.Is(err, ErrDuplicateReference) {
		t.Fatalf("expected duplicate reference error for derived leg, got %v", err)
	}
}
