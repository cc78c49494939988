package store

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// ConnectPostgres opens a connection pool and verifies it.
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping postgres")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id          UUID PRIMARY KEY,
		name        TEXT NOT NULL,
		slug        TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		price       NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		stock       INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		category    TEXT NOT NULL,
		brand       TEXT NOT NULL DEFAULT '',
		images      TEXT[] NOT NULL DEFAULT '{}',
		tags        TEXT[] NOT NULL DEFAULT '{}',
		rating      NUMERIC(3,2) NOT NULL DEFAULT 0,
		num_reviews INTEGER NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS carts (
		user_id    UUID PRIMARY KEY,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		user_id    UUID NOT NULL REFERENCES carts(user_id) ON DELETE CASCADE,
		product_id UUID NOT NULL,
		quantity   INTEGER NOT NULL CHECK (quantity > 0),
		position   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id               UUID PRIMARY KEY,
		user_id          UUID NOT NULL,
		total_amount     NUMERIC(10,2) NOT NULL,
		payment_method   TEXT NOT NULL,
		payment_status   TEXT NOT NULL,
		status           TEXT NOT NULL,
		ship_full_name   TEXT NOT NULL DEFAULT '',
		ship_phone       TEXT NOT NULL DEFAULT '',
		ship_address     TEXT NOT NULL DEFAULT '',
		ship_city        TEXT NOT NULL DEFAULT '',
		ship_state       TEXT NOT NULL DEFAULT '',
		ship_postal_code TEXT NOT NULL DEFAULT '',
		ship_country     TEXT NOT NULL DEFAULT '',
		delivered_at     TIMESTAMPTZ,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id   UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id UUID NOT NULL,
		quantity   INTEGER NOT NULL CHECK (quantity > 0),
		position   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (order_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS wishlist_items (
		user_id    UUID NOT NULL,
		product_id UUID NOT NULL,
		added_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, product_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id)`,
}

// EnsureSchema creates missing tables. Safe to run on every start.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrap(err, "ensure schema")
		}
	}
	return nil
}
