/**
 * @description
 * In-process schema migration. The DDL is idempotent (IF NOT EXISTS
 * throughout) and applied once at boot before the pool is handed to the
 * repository.
 */

package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'user',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS balances (
	user_id    UUID NOT NULL REFERENCES users(id),
	asset      TEXT NOT NULL,
	amount     NUMERIC(38, 18) NOT NULL DEFAULT 0 CHECK (amount >= 0),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, asset)
);

CREATE TABLE IF NOT EXISTS deposits (
	id                UUID PRIMARY KEY,
	user_id           UUID NOT NULL REFERENCES users(id),
	asset             TEXT NOT NULL,
	amount            NUMERIC(38, 18) NOT NULL CHECK (amount > 0),
	provider          TEXT NOT NULL,
	provider_order_id TEXT,
	status            TEXT NOT NULL DEFAULT 'pending',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (provider, provider_order_id)
);
CREATE INDEX IF NOT EXISTS idx_deposits_user_created ON deposits (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_deposits_status ON deposits (status);

CREATE TABLE IF NOT EXISTS withdrawals (
	id         UUID PRIMARY KEY,
	user_id    UUID NOT NULL REFERENCES users(id),
	asset      TEXT NOT NULL,
	amount     NUMERIC(38, 18) NOT NULL CHECK (amount > 0),
	address    TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_withdrawals_user_created ON withdrawals (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS internal_transfers (
	id           UUID PRIMARY KEY,
	from_user_id UUID NOT NULL REFERENCES users(id),
	to_user_id   UUID NOT NULL REFERENCES users(id),
	asset        TEXT NOT NULL,
	amount       NUMERIC(38, 18) NOT NULL CHECK (amount > 0),
	memo         TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CHECK (from_user_id <> to_user_id)
);
CREATE INDEX IF NOT EXISTS idx_transfers_from_created ON internal_transfers (from_user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_transfers_to_created ON internal_transfers (to_user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS sessions (
	token      TEXT PRIMARY KEY,
	user_id    UUID NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions (user_id);

CREATE TABLE IF NOT EXISTS kyc_submissions (
	user_id      UUID PRIMARY KEY REFERENCES users(id),
	documents    JSONB NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	review_note  TEXT,
	reviewed_at  TIMESTAMPTZ,
	reviewed_by  UUID,
	submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_kyc_status_submitted ON kyc_submissions (status, submitted_at);
`

// RunMigrations applies the schema DDL.
func RunMigrations(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schemaDDL)
	return err
}
