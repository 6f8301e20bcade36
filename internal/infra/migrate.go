package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id            BIGSERIAL PRIMARY KEY,
        name          TEXT NOT NULL,
        email         TEXT NOT NULL UNIQUE,
        password_hash BYTEA NOT NULL,
        bvn           TEXT NOT NULL DEFAULT '',
        created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS wallets (
        id          BIGSERIAL PRIMARY KEY,
        user_id     BIGINT NOT NULL UNIQUE REFERENCES users (id),
        balance     BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
        is_disabled BOOLEAN NOT NULL DEFAULT FALSE,
        created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS transactions (
        id          BIGSERIAL PRIMARY KEY,
        wallet_id   BIGINT NOT NULL REFERENCES wallets (id),
        amount      BIGINT NOT NULL CHECK (amount > 0),
        type        TEXT NOT NULL CHECK (type IN ('credit', 'debit')),
        category    TEXT NOT NULL,
        status      TEXT NOT NULL,
        reference   TEXT NOT NULL UNIQUE,
        description TEXT NOT NULL DEFAULT '',
        created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_wallet_id ON transactions (wallet_id)`,
}

// Migrate applies the schema. Statements are idempotent so repeated startup
// runs are safe.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
