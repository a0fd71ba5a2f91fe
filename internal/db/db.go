// Package db opens the Postgres pool used by the reference server and creates its schema.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'USER',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS games (
	id                   TEXT PRIMARY KEY,
	title                TEXT NOT NULL,
	description          TEXT NOT NULL,
	tags                 TEXT[] NOT NULL DEFAULT '{}',
	image_url            TEXT,
	external_links       TEXT[] NOT NULL DEFAULT '{}',
	protection_status_id INT NOT NULL DEFAULT 2,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS products (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price       NUMERIC(12,2) NOT NULL CHECK (price >= 0),
	categories  TEXT[] NOT NULL DEFAULT '{}',
	image_url   TEXT,
	stock       INT NOT NULL CHECK (stock >= 0),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS orders (
	id         BIGSERIAL PRIMARY KEY,
	user_id    TEXT REFERENCES users(id) ON DELETE SET NULL,
	total      NUMERIC(12,2) NOT NULL CHECK (total >= 0),
	status     TEXT NOT NULL DEFAULT 'PENDING',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS order_items (
	id                BIGSERIAL PRIMARY KEY,
	order_id          BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	product_id        TEXT NOT NULL,
	quantity          INT NOT NULL CHECK (quantity > 0),
	price_at_purchase NUMERIC(12,2) NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
	id           BIGSERIAL PRIMARY KEY,
	order_id     BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	provider     TEXT NOT NULL,
	provider_ref TEXT NOT NULL UNIQUE,
	amount       BIGINT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'Pending',
	payload      JSONB,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	paid_at      TIMESTAMPTZ
);
`
