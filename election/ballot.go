// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/danielhkuo/movie-night/models"
)

// Selector picks a ballot choice: a literal 1-based index, or a random draw
// from Among (all nominations when Among is empty).
type Selector struct {
	Index  int
	Random bool
	Among  []int
}

// ParseSelector reads "3", "random", or "random 2 4".
func ParseSelector(text string) (Selector, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Selector{}, fmt.Errorf("empty ballot: %w", models.ErrInvalidChoice)
	}

	if strings.EqualFold(fields[0], "random") {
		sel := Selector{Random: true}
		for _, f := range fields[1:] {
			n, err := strconv.Atoi(f)
			if err != nil {
				return Selector{}, fmt.Errorf("%q is not a number: %w", f, models.ErrInvalidChoice)
			}
			sel.Among = append(sel.Among, n)
		}
		return sel, nil
	}

	if len(fields) != 1 {
		return Selector{}, fmt.Errorf("%q: %w", text, models.ErrInvalidChoice)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return Selector{}, fmt.Errorf("%q is not a number: %w", fields[0], models.ErrInvalidChoice)
	}
	return Selector{Index: n}, nil
}

// Resolve returns the concrete 1-based choice among count nominations.
func (s Selector) Resolve(count int, intn func(n int) int) (int, error) {
	choice := s.Index
	if s.Random {
		switch {
		case len(s.Among) > 0:
			choice = s.Among[intn(len(s.Among))]
		case count > 0:
			choice = intn(count) + 1
		default:
			choice = 0
		}
	}
	if choice < 1 || choice > count {
		return 0, fmt.Errorf("choice %d of %d: %w", choice, count, models.ErrInvalidChoice)
	}
	return choice, nil
}

// Cast records voter's ballot in the running election. Any earlier ballot by
// the same voter is withdrawn first, so each voter backs one nomination.
func (e *Engine) Cast(ctx context.Context, voter string, sel Selector) (string, error) {
	if strings.TrimSpace(voter) == "" {
		return "", fmt.Errorf("voter is required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var choice int
	election, err := e.store.Update(ctx, models.StatusRunning, func(el *models.Election) error {
		var err error
		choice, err = sel.Resolve(len(el.Nominations), e.intn)
		if err != nil {
			return err
		}
		for i := range el.Nominations {
			el.Nominations[i].Votes = slices.DeleteFunc(el.Nominations[i].Votes, func(v string) bool {
				return v == voter
			})
		}
		el.Nominations[choice-1].Votes = append(el.Nominations[choice-1].Votes, voter)
		return nil
	})
	if err != nil {
		return "", phaseErr(err, models.ErrNoActiveElection)
	}

	slog.Info("ballot cast", "election_id", election.ID, "voter", voter, "choice", choice)
	return "Ballot cast!", nil
}
