package wallet

import (
	"errors"
	"testing"

	"github.com/8bitCyborg/demoCredit/internal/ledger"
)

func TestValidatorEnsureActive(t *testing.T) {
	var v Validator

	if err := v.EnsureActive(ledger.Wallet{ID: 1}); err != nil {
		t.Fatalf("active wallet rejected: %v", err)
	}
	if err := v.EnsureActive(ledger.Wallet{ID: 1, Disabled: true}); !errors.Is(err, ErrWalletDisabled) {
		t.Fatalf("expected disabled error, got %v", err)
	}
}

func TestValidatorEnsureFunded(t *testing.T) {
	var v Validator
	w := ledger.Wallet{ID: 1, Balance: 1_000}

	if err := v.EnsureFunded(w, 1_000); err != nil {
		t.Fatalf("exact balance rejected: %v", err)
	}
	if err := v.EnsureFunded(w, 1_001); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance error, got %v", err)
	}
}
