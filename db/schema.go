// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the database of the given type ("sqlite" or "postgres").
func Open(dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case "sqlite", "":
		driver = "sqlite"
	case "postgres":
		driver = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if driver == "sqlite" {
		// One connection serializes writers; sqlite would otherwise report SQLITE_BUSY
		// when two transactions try to upgrade to a write lock.
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to configure sqlite: %w", err)
		}
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Elections (nominations are stored as a JSON document)
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    status TEXT NOT NULL DEFAULT 'CREATED' CHECK (status IN ('CREATED', 'RUNNING', 'COMPLETED')),
    created_at BIGINT NOT NULL,
    completed_at BIGINT,
    version BIGINT NOT NULL DEFAULT 0,
    nominations TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_election_status ON election(status);

-- Current election per phase
CREATE TABLE IF NOT EXISTS election_phase (
    phase TEXT PRIMARY KEY CHECK (phase IN ('CREATED', 'RUNNING')),
    election_id TEXT NOT NULL UNIQUE REFERENCES election(id)
);

-- Candidates (write-once)
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    first_nominator TEXT NOT NULL,
    rating TEXT NOT NULL,
    payload TEXT NOT NULL,
    created_at BIGINT NOT NULL
);
`
