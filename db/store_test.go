// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/movie-night/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := Open("sqlite", filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, CreateSchema(conn))
	return NewStore(conn)
}

func addNomination(title string) func(*models.Election) error {
	return func(el *models.Election) error {
		el.Nominations = append(el.Nominations, models.Nomination{
			Nominator:   "alice",
			CandidateID: "tt-" + title,
			Title:       title,
			Votes:       []string{},
		})
		return nil
	}
}

func setStatus(status string) func(*models.Election) error {
	return func(el *models.Election) error {
		el.Status = status
		return nil
	}
}

func TestCreateSchema_Idempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, CreateSchema(s.db))
}

func TestOpen_UnsupportedType(t *testing.T) {
	_, err := Open("mysql", "whatever")
	assert.Error(t, err)
}

func TestCurrent_EmptyDatabase(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Current(ctx, models.StatusCreated)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.Current(ctx, models.StatusRunning)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestEnsureCreated_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.EnsureCreated(ctx)
	require.NoError(t, err)
	second, err := s.EnsureCreated(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.StatusCreated, second.Status)

	created, err := s.ListElections(ctx, models.StatusCreated)
	require.NoError(t, err)
	assert.Len(t, created, 1)
}

func TestEnsureCreated_WhileRunning(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.EnsureCreated(ctx)
	require.NoError(t, err)
	_, err = s.Update(ctx, models.StatusCreated, addNomination("A"))
	require.NoError(t, err)
	_, err = s.Update(ctx, models.StatusCreated, setStatus(models.StatusRunning))
	require.NoError(t, err)

	got, err := s.EnsureCreated(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, models.StatusRunning, got.Status)

	_, err = s.Current(ctx, models.StatusCreated)
	assert.ErrorIs(t, err, models.ErrNotFound, "no nominations open while a vote runs")

	created, err := s.ListElections(ctx, models.StatusCreated)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestUpdate_AppendsAndBumpsVersion(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.EnsureCreated(ctx)
	require.NoError(t, err)

	el, err := s.Update(ctx, models.StatusCreated, addNomination("A"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), el.Version)

	el, err = s.Update(ctx, models.StatusCreated, addNomination("B"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), el.Version)

	stored, err := s.Current(ctx, models.StatusCreated)
	require.NoError(t, err)
	require.Len(t, stored.Nominations, 2)
	assert.Equal(t, "A", stored.Nominations[0].Title)
	assert.Equal(t, "B", stored.Nominations[1].Title)
	assert.NotNil(t, stored.Nominations[0].Votes)
}

func TestUpdate_LifecycleMovesPhases(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.EnsureCreated(ctx)
	require.NoError(t, err)
	_, err = s.Update(ctx, models.StatusCreated, addNomination("A"))
	require.NoError(t, err)

	// CREATED → RUNNING
	_, err = s.Update(ctx, models.StatusCreated, setStatus(models.StatusRunning))
	require.NoError(t, err)

	_, err = s.Current(ctx, models.StatusCreated)
	assert.ErrorIs(t, err, models.ErrNotFound, "no election accepts nominations while voting")

	running, err := s.Current(ctx, models.StatusRunning)
	require.NoError(t, err)
	assert.Equal(t, first.ID, running.ID)

	// RUNNING → COMPLETED opens the next election
	done, err := s.Update(ctx, models.StatusRunning, func(el *models.Election) error {
		el.Nominations[0].Won = true
		el.Status = models.StatusCompleted
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)

	_, err = s.Current(ctx, models.StatusRunning)
	assert.ErrorIs(t, err, models.ErrNotFound)

	next, err := s.Current(ctx, models.StatusCreated)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, next.ID)
	assert.Empty(t, next.Nominations)

	completed, err := s.ListElections(ctx, models.StatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, first.ID, completed[0].ID)
	assert.True(t, completed[0].Nominations[0].Won)
	assert.NotNil(t, completed[0].CompletedAt)
}

func TestUpdate_ErrorWritesNothing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.EnsureCreated(ctx)
	require.NoError(t, err)
	_, err = s.Update(ctx, models.StatusCreated, addNomination("A"))
	require.NoError(t, err)

	_, err = s.Update(ctx, models.StatusCreated, func(el *models.Election) error {
		el.Nominations = append(el.Nominations, models.Nomination{Title: "B"})
		return models.ErrInvalidChoice
	})
	assert.ErrorIs(t, err, models.ErrInvalidChoice)

	stored, err := s.Current(ctx, models.StatusCreated)
	require.NoError(t, err)
	assert.Len(t, stored.Nominations, 1)
	assert.Equal(t, int64(1), stored.Version)
}

func TestUpdate_RejectsIllegalTransition(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.EnsureCreated(ctx)
	require.NoError(t, err)

	_, err = s.Update(ctx, models.StatusCreated, setStatus(models.StatusCompleted))
	assert.Error(t, err)

	stored, err := s.Current(ctx, models.StatusCreated)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCreated, stored.Status)
}

func TestUpdate_SecondRunningElectionRejected(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.EnsureCreated(ctx)
	require.NoError(t, err)
	_, err = s.Update(ctx, models.StatusCreated, setStatus(models.StatusRunning))
	require.NoError(t, err)

	// Force a CREATED election next to the running one; it still cannot take
	// the RUNNING phase while that is held.
	tx, err := s.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	pending, err := s.ensureCreated(ctx, tx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	_, err = s.Update(ctx, models.StatusCreated, setStatus(models.StatusRunning))
	assert.ErrorIs(t, err, models.ErrAlreadyRunning)

	stored, err := s.Current(ctx, models.StatusCreated)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, stored.ID)
	assert.Equal(t, models.StatusCreated, stored.Status)
}

func TestSave_StaleVersionConflicts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	el, err := s.EnsureCreated(ctx)
	require.NoError(t, err)

	// Another writer bumps the version after we read it.
	_, err = s.db.ExecContext(ctx, `UPDATE election SET version = version + 1 WHERE id = $1`, el.ID)
	require.NoError(t, err)

	tx, err := s.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	el.Nominations = append(el.Nominations, models.Nomination{Title: "lost update"})
	err = s.save(ctx, tx, el, 0, models.StatusCreated)
	assert.ErrorIs(t, err, models.ErrStorageConflict)
}

func TestCandidate_WriteOnce(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	original := &models.Candidate{ID: "tt0113277", Title: "Heat", IMDbRating: "8.3", FirstNominator: "alice"}
	stored, err := s.CreateCandidate(ctx, original)
	require.NoError(t, err)
	assert.Equal(t, "Heat", stored.Title)
	assert.False(t, stored.CreatedAt.IsZero())

	again, err := s.CreateCandidate(ctx, &models.Candidate{ID: "tt0113277", Title: "Not Heat", FirstNominator: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "Heat", again.Title)
	assert.Equal(t, "alice", again.FirstNominator)

	n, err := s.CountCandidates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCandidate_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Candidate(context.Background(), "tt-missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateCandidate_RequiresID(t *testing.T) {
	s := openTestStore(t)

	_, err := s.CreateCandidate(context.Background(), &models.Candidate{Title: "No id"})
	assert.Error(t, err)
}
