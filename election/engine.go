// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/danielhkuo/movie-night/models"
)

// Store is the election and candidate persistence the engine relies on.
type Store interface {
	EnsureCreated(ctx context.Context) (*models.Election, error)
	Current(ctx context.Context, status string) (*models.Election, error)
	Update(ctx context.Context, status string, fn func(*models.Election) error) (*models.Election, error)
	ListElections(ctx context.Context, status string) ([]models.Election, error)
	Candidate(ctx context.Context, id string) (*models.Candidate, error)
	CountCandidates(ctx context.Context) (int, error)
}

// Resolver turns a nomination query into a stored candidate.
type Resolver interface {
	Resolve(ctx context.Context, q models.CandidateQuery, nominator string) (*models.Candidate, error)
}

// Engine runs the nominate → vote → tally cycle. Mutations are serialized
// in-process; the store's version check catches writers in other processes.
type Engine struct {
	store    Store
	resolver Resolver
	intn     func(n int) int

	mu sync.Mutex
}

// NewEngine creates an engine. intn returns a uniform integer in [0, n) and
// drives random ballots and tie-breaks; nil uses math/rand/v2.
func NewEngine(store Store, resolver Resolver, intn func(n int) int) *Engine {
	if intn == nil {
		intn = rand.IntN
	}
	return &Engine{store: store, resolver: resolver, intn: intn}
}

// Init makes sure an election is accepting nominations, unless a vote is
// already running, in which case it is resumed as is.
func (e *Engine) Init(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	election, err := e.store.EnsureCreated(ctx)
	if err != nil {
		return fmt.Errorf("failed to open election: %w", err)
	}
	if election.Status == models.StatusRunning {
		slog.Info("resuming running vote", "election_id", election.ID, "nominations", len(election.Nominations))
		return nil
	}
	slog.Info("election accepting nominations", "election_id", election.ID)
	return nil
}

// Nominate adds the movie matching q to the election accepting nominations.
// The same movie may be nominated more than once; each becomes its own choice.
func (e *Engine) Nominate(ctx context.Context, q models.CandidateQuery, nominator string) (string, error) {
	if _, err := e.store.Current(ctx, models.StatusCreated); err != nil {
		return "", phaseErr(err, models.ErrVotingInProgress)
	}

	candidate, err := e.resolver.Resolve(ctx, q, nominator)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	election, err := e.store.Update(ctx, models.StatusCreated, func(el *models.Election) error {
		el.Nominations = append(el.Nominations, models.Nomination{
			Nominator:   nominator,
			CandidateID: candidate.ID,
			Title:       candidate.Title,
			Votes:       []string{},
		})
		return nil
	})
	if err != nil {
		return "", phaseErr(err, models.ErrVotingInProgress)
	}

	slog.Info("nomination registered",
		"election_id", election.ID,
		"candidate_id", candidate.ID,
		"nominator", nominator,
		"index", len(election.Nominations),
	)
	return "Registered nomination!", nil
}

// Start opens voting on the election accepting nominations.
func (e *Engine) Start(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.store.Current(ctx, models.StatusRunning); err == nil {
		return "", models.ErrAlreadyRunning
	} else if !errors.Is(err, models.ErrNotFound) {
		return "", err
	}

	if _, err := e.store.EnsureCreated(ctx); err != nil {
		return "", err
	}

	election, err := e.store.Update(ctx, models.StatusCreated, func(el *models.Election) error {
		if len(el.Nominations) == 0 {
			return models.ErrNoNominations
		}
		el.Status = models.StatusRunning
		return nil
	})
	if err != nil {
		return "", phaseErr(err, models.ErrAlreadyRunning)
	}

	slog.Info("voting opened", "election_id", election.ID, "nominations", len(election.Nominations))
	return "Voting has opened!\n" + ballotList(election.Nominations), nil
}

// End tallies the running election, picks a winner among those tied for the
// most votes, and opens the next election for nominations.
func (e *Engine) End(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	election, err := e.store.Update(ctx, models.StatusRunning, func(el *models.Election) error {
		winner, err := Tally(el.Nominations, e.intn)
		if err != nil {
			return err
		}
		el.Nominations[winner].Won = true
		el.Status = models.StatusCompleted
		return nil
	})
	if err != nil {
		return "", phaseErr(err, models.ErrNoActiveElection)
	}

	winner, _ := election.Winner()
	slog.Info("voting ended",
		"election_id", election.ID,
		"winner", winner.CandidateID,
		"votes", len(winner.Votes),
	)

	var b strings.Builder
	b.WriteString("Voting has ended! The results:\n")
	for _, n := range election.Nominations {
		fmt.Fprintf(&b, "%s: %d\n", n.Title, len(n.Votes))
	}
	fmt.Fprintf(&b, "The winner is: %s\n", winner.Title)

	candidate, err := e.store.Candidate(ctx, winner.CandidateID)
	if err != nil {
		slog.Warn("winner details unavailable", "candidate_id", winner.CandidateID, "error", err)
		candidate = &models.Candidate{ID: winner.CandidateID, Title: winner.Title}
		candidate.FillUnknown()
	}
	b.WriteString(candidate.Info())

	return b.String(), nil
}

// Tally returns the index of the winning nomination. Ties for the top vote
// count are broken by intn.
func Tally(nominations []models.Nomination, intn func(n int) int) (int, error) {
	if len(nominations) == 0 {
		return -1, models.ErrNoNominations
	}

	top := 0
	for _, n := range nominations {
		top = max(top, len(n.Votes))
	}

	var tied []int
	for i, n := range nominations {
		if len(n.Votes) == top {
			tied = append(tied, i)
		}
	}

	return tied[intn(len(tied))], nil
}

func ballotList(nominations []models.Nomination) string {
	lines := make([]string, len(nominations))
	for i, n := range nominations {
		lines[i] = fmt.Sprintf("(%d) %s", i+1, n.Title)
	}
	return strings.Join(lines, "\n")
}

// phaseErr replaces a missing phase pointer with the error callers expect.
func phaseErr(err, missing error) error {
	if errors.Is(err, models.ErrNotFound) {
		return missing
	}
	return err
}
