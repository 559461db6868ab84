// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/movie-night/models"
)

// Voters lists everyone with a ballot in the running election, sorted.
func (e *Engine) Voters(ctx context.Context) (string, error) {
	election, err := e.store.Current(ctx, models.StatusRunning)
	if err != nil {
		return "", phaseErr(err, models.ErrNoActiveElection)
	}

	seen := make(map[string]bool)
	var voters []string
	for _, n := range election.Nominations {
		for _, v := range n.Votes {
			if !seen[v] {
				seen[v] = true
				voters = append(voters, v)
			}
		}
	}
	sort.Strings(voters)

	return "Current voters:\n" + strings.Join(voters, "\n"), nil
}

// Nominations lists the ballot choices of the running election.
func (e *Engine) Nominations(ctx context.Context) (string, error) {
	election, err := e.store.Current(ctx, models.StatusRunning)
	if err != nil {
		return "", phaseErr(err, models.ErrNoActiveElection)
	}
	return "Current nominations:\n" + ballotList(election.Nominations), nil
}

// Stats summarizes every completed election.
func (e *Engine) Stats(ctx context.Context) (string, error) {
	total, err := e.store.CountCandidates(ctx)
	if err != nil {
		return "", err
	}

	completed, err := e.store.ListElections(ctx, models.StatusCompleted)
	if err != nil {
		return "", err
	}

	winners := make(map[string]bool)
	for _, el := range completed {
		if w, ok := el.Winner(); ok {
			winners[w.CandidateID] = true
		}
	}

	var sum float64
	var scored int
	for id := range winners {
		candidate, err := e.store.Candidate(ctx, id)
		if err != nil {
			slog.Warn("winner missing from candidate store", "candidate_id", id, "error", err)
			continue
		}
		if score, ok := candidate.Score(); ok {
			sum += score
			scored++
		}
	}

	average := models.Unknown
	if scored > 0 {
		average = fmt.Sprintf("%.1f", sum/float64(scored))
	}

	return fmt.Sprintf("Movies nominated: %s\nMovies that have won: %s\nAverage winning IMDB rating: %s",
		humanize.Comma(int64(total)),
		humanize.Comma(int64(len(winners))),
		average,
	), nil
}

// History lists the winners of the most recent completed elections.
func (e *Engine) History(ctx context.Context, limit int) (string, error) {
	completed, err := e.store.ListElections(ctx, models.StatusCompleted)
	if err != nil {
		return "", err
	}
	if len(completed) == 0 {
		return "No votes have finished yet", nil
	}
	if limit > 0 && len(completed) > limit {
		completed = completed[:limit]
	}

	lines := []string{"Past winners:"}
	for _, el := range completed {
		w, ok := el.Winner()
		if !ok {
			continue
		}
		when := humanize.Time(el.CreatedAt)
		if el.CompletedAt != nil {
			when = humanize.Time(*el.CompletedAt)
		}
		lines = append(lines, fmt.Sprintf("%s: %d votes (%s)", w.Title, len(w.Votes), when))
	}
	return strings.Join(lines, "\n"), nil
}
