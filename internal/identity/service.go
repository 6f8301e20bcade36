package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/8bitCyborg/demoCredit/internal/ledger"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike, so login responses do not leak which part failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service manages the user lifecycle. Every registered user gets exactly one
// wallet, provisioned through the ledger store.
type Service struct {
	repo     Repository
	store    ledger.Store
	screener Screener
}

// NewService creates a new identity service. A nil screener disables
// blacklist screening.
func NewService(repo Repository, store ledger.Store, screener Screener) *Service {
	if screener == nil {
		screener = NoopScreener{}
	}
	return &Service{repo: repo, store: store, screener: screener}
}

// Register creates a user with a hashed password and provisions their
// zero-balance wallet. The BVN blacklist screening is advisory and never
// fails the signup.
func (s *Service) Register(ctx context.Context, creds Credentials) (User, error) {
	if !strings.Contains(creds.Email, "@") {
		return User{}, errors.New("a valid email is required")
	}
	if len(creds.Password) < 8 {
		return User{}, errors.New("password must be at least 8 characters")
	}

	_ = s.screener.Screen(ctx, creds.BVN)

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user, err := s.repo.Create(ctx, User{
		Name:         strings.TrimSpace(creds.FirstName + " " + creds.LastName),
		Email:        strings.ToLower(strings.TrimSpace(creds.Email)),
		PasswordHash: hash,
		BVN:          creds.BVN,
	})
	if err != nil {
		return User{}, err
	}

	if _, err := s.store.EnsureWallet(ctx, user.ID, user.Email); err != nil {
		return User{}, fmt.Errorf("provision wallet for user %d: %w", user.ID, err)
	}

	return user, nil
}

// Authenticate verifies the email/password pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	// Heal a missing wallet for accounts created before wallet provisioning.
	if _, err := s.store.EnsureWallet(ctx, user.ID, user.Email); err != nil {
		return User{}, fmt.Errorf("provision wallet for user %d: %w", user.ID, err)
	}

	return user, nil
}
