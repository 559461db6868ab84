// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation, and the election store.

# Connections

Open accepts "sqlite" (modernc.org/sqlite, the default) or "postgres" (lib/pq):

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

SQLite connections are limited to one open connection so writers queue
instead of failing with SQLITE_BUSY.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - election: status, timestamps, version, and the nominations JSON document
  - election_phase: the current CREATED and RUNNING election (one row per phase)
  - candidate: write-once movie records keyed by IMDb id

# Store

Every change to an election goes through Update, which runs a
read-validate-mutate-write cycle in one transaction:

	el, err := store.Update(ctx, models.StatusRunning, func(el *models.Election) error {
		// validate and mutate el; returning an error writes nothing
	})

The write is conditional on the version read; if another writer got there
first Update returns models.ErrStorageConflict. Status changes move the phase
pointers, and completing an election opens the next CREATED election in the
same transaction.
*/
package db
