// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

var (
	ErrVotingInProgress  = errors.New("voting in progress")
	ErrNoActiveElection  = errors.New("no active election")
	ErrAlreadyRunning    = errors.New("election already running")
	ErrNoNominations     = errors.New("election has no nominations")
	ErrInvalidChoice     = errors.New("invalid ballot choice")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrLookupTimeout     = errors.New("candidate lookup timed out")
	ErrStorageConflict   = errors.New("concurrent write detected")

	// ErrNotFound is returned by the store when a record or phase pointer is absent.
	ErrNotFound = errors.New("not found")
)
