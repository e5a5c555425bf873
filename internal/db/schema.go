package db

import (
	"database/sql"
	"fmt"

	"github.com/adamwonghui/Warehouse-Management-System/internal/model"
)

// schema is the full database schema.
//
// items.in_stock carries a CHECK mirroring the ledger invariant
// 0 <= in_stock <= total so that a bug in the store layer can never
// persist an over-drawn item.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
    department    TEXT,
    phone         TEXT,
    email         TEXT,
    is_active     INTEGER NOT NULL DEFAULT 1,
    last_login    DATETIME,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS categories (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    description TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS items (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    category    TEXT NOT NULL DEFAULT 'Uncategorized',
    description TEXT,
    total       INTEGER NOT NULL DEFAULT 0 CHECK (total >= 0),
    in_stock    INTEGER NOT NULL DEFAULT 0 CHECK (in_stock >= 0 AND in_stock <= total),
    image       BLOB,
    image_mime  TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_category ON items(category);

CREATE TABLE IF NOT EXISTS requests (
    id                   INTEGER PRIMARY KEY,
    username             TEXT NOT NULL,
    item_id              INTEGER NOT NULL REFERENCES items(id),
    item_name            TEXT NOT NULL,
    item_category        TEXT NOT NULL,
    quantity_requested   INTEGER NOT NULL CHECK (quantity_requested > 0),
    quantity_outstanding INTEGER NOT NULL CHECK (quantity_outstanding >= 0),
    purpose              TEXT NOT NULL,
    status               TEXT NOT NULL DEFAULT 'pending'
        CHECK (status IN ('pending', 'approved', 'rejected', 'returned', 'partially_returned')),
    created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    approved_at          DATETIME,
    approver             TEXT,
    comment              TEXT,
    returned_at          DATETIME
);

CREATE INDEX IF NOT EXISTS idx_requests_username ON requests(username);
CREATE INDEX IF NOT EXISTS idx_requests_status ON requests(status);
CREATE INDEX IF NOT EXISTS idx_requests_item ON requests(item_id);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist,
// and seeds the default category.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	_, err := db.Exec(
		`INSERT OR IGNORE INTO categories (name, description) VALUES (?, 'Default category')`,
		model.DefaultCategory,
	)
	if err != nil {
		return fmt.Errorf("seeding default category: %w", err)
	}

	return nil
}
