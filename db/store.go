// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/movie-night/models"
)

// Store persists elections and candidates.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// EnsureCreated returns the CREATED election, creating one if none exists.
// While a vote is running no CREATED election is opened and the RUNNING
// election is returned instead; the next one opens when that vote ends.
func (s *Store) EnsureCreated(ctx context.Context) (*models.Election, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	running, err := current(ctx, tx, models.StatusRunning)
	if err == nil {
		return running, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	election, err := s.ensureCreated(ctx, tx)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return election, nil
}

func (s *Store) ensureCreated(ctx context.Context, q querier) (*models.Election, error) {
	election, err := current(ctx, q, models.StatusCreated)
	if err == nil {
		return election, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	election = &models.Election{
		ID:          uuid.NewString(),
		Status:      models.StatusCreated,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
		Nominations: []models.Nomination{},
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO election (id, status, created_at, version, nominations)
		VALUES ($1, $2, $3, 0, '[]')
	`, election.ID, election.Status, toMillis(election.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert election: %w", err)
	}

	res, err := q.ExecContext(ctx, `
		INSERT INTO election_phase (phase, election_id)
		VALUES ($1, $2)
		ON CONFLICT (phase) DO NOTHING
	`, models.StatusCreated, election.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to set created phase: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, models.ErrStorageConflict
	}

	return election, nil
}

// Current returns the election currently holding the given phase.
func (s *Store) Current(ctx context.Context, status string) (*models.Election, error) {
	return current(ctx, s.db, status)
}

func current(ctx context.Context, q querier, status string) (*models.Election, error) {
	row := q.QueryRowContext(ctx, `
		SELECT e.id, e.status, e.created_at, e.completed_at, e.version, e.nominations
		FROM election_phase p
		JOIN election e ON e.id = p.election_id
		WHERE p.phase = $1
	`, status)

	election, err := scanElection(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s election: %w", status, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s election: %w", status, err)
	}
	return election, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanElection(row rowScanner) (*models.Election, error) {
	var (
		e           models.Election
		createdAt   int64
		completedAt sql.NullInt64
		nominations string
	)
	if err := row.Scan(&e.ID, &e.Status, &createdAt, &completedAt, &e.Version, &nominations); err != nil {
		return nil, err
	}
	e.CreatedAt = fromMillis(createdAt)
	if completedAt.Valid {
		t := fromMillis(completedAt.Int64)
		e.CompletedAt = &t
	}
	if err := json.Unmarshal([]byte(nominations), &e.Nominations); err != nil {
		return nil, fmt.Errorf("failed to decode nominations for election %s: %w", e.ID, err)
	}
	for i := range e.Nominations {
		if e.Nominations[i].Votes == nil {
			e.Nominations[i].Votes = []string{}
		}
	}
	return &e, nil
}

// Update runs fn against the election holding the given phase inside one
// transaction. If fn returns an error nothing is written. The write fails with
// ErrStorageConflict when another writer changed the election in between.
//
// Status changes made by fn move the phase pointers; completing an election
// opens the next CREATED election in the same transaction.
func (s *Store) Update(ctx context.Context, status string, fn func(*models.Election) error) (*models.Election, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	election, err := current(ctx, tx, status)
	if err != nil {
		return nil, err
	}
	prevVersion := election.Version
	prevStatus := election.Status

	if err := fn(election); err != nil {
		return nil, err
	}

	if err := s.save(ctx, tx, election, prevVersion, prevStatus); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return election, nil
}

// save writes election if its stored version still equals prevVersion.
func (s *Store) save(ctx context.Context, tx *sql.Tx, election *models.Election, prevVersion int64, prevStatus string) error {
	if !validTransition(prevStatus, election.Status) {
		return fmt.Errorf("illegal status transition %s -> %s", prevStatus, election.Status)
	}
	if election.Status == models.StatusCompleted && election.CompletedAt == nil {
		t := s.now().UTC().Truncate(time.Millisecond)
		election.CompletedAt = &t
	}

	payload, err := json.Marshal(election.Nominations)
	if err != nil {
		return fmt.Errorf("failed to encode nominations: %w", err)
	}

	var completedAt sql.NullInt64
	if election.CompletedAt != nil {
		completedAt = sql.NullInt64{Int64: toMillis(*election.CompletedAt), Valid: true}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE election
		SET status = $1, completed_at = $2, nominations = $3, version = version + 1
		WHERE id = $4 AND version = $5
	`, election.Status, completedAt, string(payload), election.ID, prevVersion)
	if err != nil {
		return fmt.Errorf("failed to update election: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrStorageConflict
	}
	election.Version = prevVersion + 1

	if election.Status != prevStatus {
		return s.movePhase(ctx, tx, election, prevStatus)
	}
	return nil
}

func validTransition(from, to string) bool {
	switch from {
	case to:
		return true
	case models.StatusCreated:
		return to == models.StatusRunning
	case models.StatusRunning:
		return to == models.StatusCompleted
	}
	return false
}

func (s *Store) movePhase(ctx context.Context, tx *sql.Tx, election *models.Election, from string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM election_phase WHERE phase = $1 AND election_id = $2`, from, election.ID)
	if err != nil {
		return fmt.Errorf("failed to clear %s phase: %w", from, err)
	}

	switch election.Status {
	case models.StatusRunning:
		res, err := tx.ExecContext(ctx, `
			INSERT INTO election_phase (phase, election_id)
			VALUES ($1, $2)
			ON CONFLICT (phase) DO NOTHING
		`, models.StatusRunning, election.ID)
		if err != nil {
			return fmt.Errorf("failed to set running phase: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return models.ErrAlreadyRunning
		}
	case models.StatusCompleted:
		if _, err := s.ensureCreated(ctx, tx); err != nil {
			return fmt.Errorf("failed to open next election: %w", err)
		}
	}
	return nil
}

// ListElections returns every election with the given status, newest first.
func (s *Store) ListElections(ctx context.Context, status string) ([]models.Election, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, created_at, completed_at, version, nominations
		FROM election
		WHERE status = $1
		ORDER BY created_at DESC, id
	`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query elections: %w", err)
	}
	defer rows.Close()

	var elections []models.Election
	for rows.Next() {
		e, err := scanElection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		elections = append(elections, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate elections: %w", err)
	}
	return elections, nil
}

// Candidate returns the cached candidate with the given IMDb id.
func (s *Store) Candidate(ctx context.Context, id string) (*models.Candidate, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM candidate WHERE id = $1`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("candidate %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate: %w", err)
	}

	var c models.Candidate
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return nil, fmt.Errorf("failed to decode candidate %s: %w", id, err)
	}
	return &c, nil
}

// CreateCandidate stores c unless a candidate with the same id already exists.
// The stored record is returned either way.
func (s *Store) CreateCandidate(ctx context.Context, c *models.Candidate) (*models.Candidate, error) {
	if c.ID == "" {
		return nil, fmt.Errorf("candidate id is required")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC().Truncate(time.Millisecond)
	}

	payload, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode candidate: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO candidate (id, title, first_nominator, rating, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`, c.ID, c.Title, c.FirstNominator, c.IMDbRating, string(payload), toMillis(c.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert candidate: %w", err)
	}

	return s.Candidate(ctx, c.ID)
}

// CountCandidates returns the number of distinct candidates ever nominated.
func (s *Store) CountCandidates(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidate`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count candidates: %w", err)
	}
	return n, nil
}
