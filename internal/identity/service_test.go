package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/8bitCyborg/demoCredit/internal/ledger"
)

func newTestService() (*Service, ledger.Store) {
	store := ledger.NewInMemory()
	return NewService(NewMemoryRepository(), store, nil), store
}

func TestRegisterProvisionsWallet(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	user, err := svc.Register(ctx, Credentials{
		FirstName: "Ada",
		LastName:  "Obi",
		Email:     "Ada@Example.com",
		Password:  "correct horse",
		BVN:       "12345678901",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %s", user.Email)
	}

	w, err := store.WalletForUser(ctx, user.ID, false)
	if err != nil {
		t.Fatalf("wallet not provisioned: %v", err)
	}
	if w.Balance != 0 {
		t.Fatalf("new wallet should start empty, got %d", w.Balance)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, err := svc.Register(ctx, Credentials{Email: "not-an-email", Password: "long enough"}); err == nil {
		t.Fatal("expected invalid email to be rejected")
	}
	if _, err := svc.Register(ctx, Credentials{Email: "a@example.com", Password: "short"}); err == nil {
		t.Fatal("expected short password to be rejected")
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, err := svc.Register(ctx, Credentials{Email: "a@example.com", Password: "correct horse"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Authenticate(ctx, "a@example.com", "correct horse")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Email != "a@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.Authenticate(ctx, "a@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
}
