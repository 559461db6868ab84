// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite path or PostgreSQL connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - PublicKey: Hex Ed25519 key for interaction signatures (required unless local)
  - SkipVerify: Skip signature checks for local testing
  - OMDbAPIKey: OMDb API key (required)
  - OMDbBaseURL: OMDb endpoint (default: http://www.omdbapi.com/)
  - LookupTimeout: Bound on one movie lookup (default: 5s)
  - CacheSize: In-memory candidate cache entries (default: 256)

# Environment Variables

Environment variables are decoded first, then flags override them:

	PORT                 → -p
	DATABASE_URL         → -d
	DATABASE_TYPE        → -t
	DISCORD_PUBLIC_KEY   → --public-key
	IS_LOCAL             → --local
	OMDB_API_KEY         → --omdb-key
	OMDB_BASE_URL        → --omdb-url
	LOOKUP_TIMEOUT       → --lookup-timeout
	CANDIDATE_CACHE_SIZE → --cache-size

A .env file in the working directory is loaded by main before parsing.
*/
package cliparse
