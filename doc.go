// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the movie night bot.

The bot runs a group's movie night as a sequence of elections driven by chat
commands: members nominate movies, someone opens voting, everyone casts (and
may recast) a ballot, and ending the vote announces the winner and opens
nominations for the next round.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=movies.db OMDB_API_KEY=... DISCORD_PUBLIC_KEY=... go run .

Or with flags:

	go run . -p 3318 -d movies.db -omdb-key ... -public-key ...

A .env file in the working directory is loaded first when present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - OMDB_API_KEY (--omdb-key): OMDb API key
  - DISCORD_PUBLIC_KEY (--public-key): hex key for signature checks (not needed with IS_LOCAL)

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - LOOKUP_TIMEOUT (--lookup-timeout): movie lookup bound (default: 5s)

# Commands

	/nominate title:<name [(year)]> | id:<imdb id>
	/vote start | end | cast <n|random [n...]> | voters | nominations | history
	/stats

# Architecture

  - election: lifecycle, ballots, tally, and reports
  - candidates: memoized movie resolution
  - omdb: movie lookup client
  - db: schema and transactional store
  - handlers: chat interaction dispatcher
  - router, middleware, metrics: HTTP surface
  - auth: interaction signatures
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
