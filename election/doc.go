// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements the movie night election engine.

# Lifecycle

An election moves CREATED → RUNNING → COMPLETED and never backwards:

	engine.Nominate(ctx, q, "alice") // CREATED only
	engine.Start(ctx)                // CREATED → RUNNING
	engine.Cast(ctx, "bob", sel)     // RUNNING only
	engine.End(ctx)                  // RUNNING → COMPLETED, opens the next election

Start refuses an election with no nominations (models.ErrNoNominations), so a
running vote always has something to tally and can always be ended.

Init runs at process start. It opens a CREATED election when none exists, but
a vote left RUNNING by a previous process is resumed instead, and nominations
stay closed until it ends.

At most one election holds each of the CREATED and RUNNING phases. Ending an
election opens a fresh CREATED one in the same transaction, so nominations
resume without a separate command.

# Ballots

A selector is a 1-based index ("2") or a random draw ("random", "random 1 3").
Casting again moves the voter's ballot; a voter never backs two nominations.

# Tally

The winner is drawn uniformly from the nominations tied for the most votes.
The random source is injected through NewEngine so tests can fix it.

# Results

Every operation returns the literal chat reply. Failures are the sentinel
errors in package models; the dispatcher turns them into messages.
*/
package election
