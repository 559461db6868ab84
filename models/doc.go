// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, interaction, and error types shared by every package.

# Domain Types

  - Election: the aggregate root; status plus an ordered list of nominations
  - Nomination: one ballot choice with its voters in cast order
  - Candidate: a write-once movie record keyed by IMDb id
  - CandidateQuery: lookup by id, or by title and optional year

Absent movie attributes are stored as Unknown ("N/A") rather than left empty.

# Interaction Types

Types for the chat webhook payload and reply:

  - Interaction: type, command data, and the invoking member or user
  - CommandOption: named option; sub-commands nest options
  - InteractionResponse: reply type and message content

# Constants

Election status values:

	StatusCreated   = "CREATED"
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"

Elections only move forward: CREATED → RUNNING → COMPLETED.

# Errors

Sentinel errors classify every failure the engine can report
(ErrVotingInProgress, ErrNoActiveElection, ErrAlreadyRunning, ErrNoNominations,
ErrInvalidChoice, ErrCandidateNotFound, ErrLookupTimeout, ErrStorageConflict).
Callers wrap them with %w and test them with errors.Is.
*/
package models
