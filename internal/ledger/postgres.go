package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgLockNotAvail    = "55P03"
)

const walletColumns = `w.id, w.user_id, w.balance, w.is_disabled, w.created_at, w.updated_at`

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting the same
// statements serve scoped and auto-commit execution.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists wallets and ledger entries in PostgreSQL. Row locks
// are taken with SELECT ... FOR UPDATE and held until the surrounding
// transaction commits or rolls back.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed ledger store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// RunAtomic runs fn inside one database transaction. The deferred rollback
// makes any error or panic inside fn discard every mutation in the scope.
func (s *PostgresStore) RunAtomic(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if err := fn(&pgScope{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) WalletForUser(ctx context.Context, userID int64, lock bool) (Wallet, error) {
	return (&pgScope{q: s.db}).WalletForUser(ctx, userID, lock)
}

func (s *PostgresStore) WalletByEmail(ctx context.Context, email string, lock bool) (Wallet, error) {
	return (&pgScope{q: s.db}).WalletByEmail(ctx, email, lock)
}

func (s *PostgresStore) AdjustBalance(ctx context.Context, walletID, delta int64) error {
	return (&pgScope{q: s.db}).AdjustBalance(ctx, walletID, delta)
}

func (s *PostgresStore) AppendEntry(ctx context.Context, entry Entry) (int64, error) {
	return (&pgScope{q: s.db}).AppendEntry(ctx, entry)
}

func (s *PostgresStore) ReferenceInUse(ctx context.Context, reference string) (bool, error) {
	return (&pgScope{q: s.db}).ReferenceInUse(ctx, reference)
}

// EnsureWallet provisions a zero-balance wallet for the user if one does not
// exist yet. Safe to call repeatedly; the unique index on user_id keeps the
// one-wallet-per-user invariant.
func (s *PostgresStore) EnsureWallet(ctx context.Context, userID int64, _ string) (Wallet, error) {
	_, err := s.db.Exec(ctx, `INSERT INTO wallets (user_id) VALUES ($1)
        ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return Wallet{}, mapPgError(err)
	}
	return s.WalletForUser(ctx, userID, false)
}

// EntriesForWallet lists the wallet's ledger rows, oldest first.
func (s *PostgresStore) EntriesForWallet(ctx context.Context, walletID int64) ([]Entry, error) {
	rows, err := s.db.Query(ctx, `SELECT id, wallet_id, amount, type, category, status, reference, description, created_at
        FROM transactions WHERE wallet_id = $1 ORDER BY id`, walletID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.WalletID, &e.Amount, &e.Type, &e.Category, &e.Status, &e.Reference, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// pgScope implements Tx over either a live transaction or the pool.
type pgScope struct {
	q querier
}

func (s *pgScope) WalletForUser(ctx context.Context, userID int64, lock bool) (Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets w WHERE w.user_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	return s.scanWallet(s.q.QueryRow(ctx, query, userID))
}

func (s *pgScope) WalletByEmail(ctx context.Context, email string, lock bool) (Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets w
        INNER JOIN users u ON u.id = w.user_id WHERE u.email = $1`
	if lock {
		query += ` FOR UPDATE OF w`
	}
	return s.scanWallet(s.q.QueryRow(ctx, query, email))
}

func (s *pgScope) AdjustBalance(ctx context.Context, walletID, delta int64) error {
	cmd, err := s.q.Exec(ctx, `UPDATE wallets
        SET balance = balance + $2, updated_at = now()
        WHERE id = $1`, walletID, delta)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (s *pgScope) AppendEntry(ctx context.Context, entry Entry) (int64, error) {
	var id int64
	err := s.q.QueryRow(ctx, `INSERT INTO transactions (wallet_id, amount, type, category, status, reference, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, now())
        RETURNING id`,
		entry.WalletID, entry.Amount, entry.Type, entry.Category, entry.Status, entry.Reference, entry.Description,
	).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

func (s *pgScope) ReferenceInUse(ctx context.Context, reference string) (bool, error) {
	var used bool
	err := s.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE reference = $1)`, reference).Scan(&used)
	if err != nil {
		return false, mapPgError(err)
	}
	return used, nil
}

func (s *pgScope) scanWallet(row pgx.Row) (Wallet, error) {
	var w Wallet
	err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.Disabled, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrWalletNotFound
		}
		return Wallet{}, mapPgError(err)
	}
	return w, nil
}

// mapPgError translates driver errors into the ledger taxonomy. A unique
// violation on the reference column is the concurrent-duplicate backstop for
// the idempotency guard; lock timeouts are transient and safe to retry.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicateReference
		case pgCheckViolation:
			return fmt.Errorf("balance constraint violated: %w", err)
		case pgLockNotAvail:
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}
	return err
}
