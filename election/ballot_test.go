// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/movie-night/election"
	"github.com/danielhkuo/movie-night/models"
	"github.com/danielhkuo/movie-night/testutil"
)

func TestParseSelector(t *testing.T) {
	tests := []struct {
		input   string
		want    election.Selector
		wantErr bool
	}{
		{input: "3", want: election.Selector{Index: 3}},
		{input: " 12 ", want: election.Selector{Index: 12}},
		{input: "random", want: election.Selector{Random: true}},
		{input: "RANDOM", want: election.Selector{Random: true}},
		{input: "random 2 4", want: election.Selector{Random: true, Among: []int{2, 4}}},
		{input: "", wantErr: true},
		{input: "two", wantErr: true},
		{input: "1 2", wantErr: true},
		{input: "random two", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := election.ParseSelector(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidChoice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectorResolve(t *testing.T) {
	last := func(n int) int { return n - 1 }

	tests := []struct {
		name    string
		sel     election.Selector
		count   int
		want    int
		wantErr bool
	}{
		{name: "literal", sel: election.Selector{Index: 2}, count: 3, want: 2},
		{name: "literal last", sel: election.Selector{Index: 3}, count: 3, want: 3},
		{name: "zero", sel: election.Selector{Index: 0}, count: 3, wantErr: true},
		{name: "past end", sel: election.Selector{Index: 4}, count: 3, wantErr: true},
		{name: "negative", sel: election.Selector{Index: -1}, count: 3, wantErr: true},
		{name: "random all", sel: election.Selector{Random: true}, count: 3, want: 3},
		{name: "random subset", sel: election.Selector{Random: true, Among: []int{1, 2}}, count: 3, want: 2},
		{name: "random subset out of range", sel: election.Selector{Random: true, Among: []int{9}}, count: 3, wantErr: true},
		{name: "random empty ballot", sel: election.Selector{Random: true}, count: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.sel.Resolve(tt.count, last)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidChoice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func votesOf(t *testing.T, env *testutil.TestEnv) [][]string {
	t.Helper()
	el, err := env.Store.Current(context.Background(), models.StatusRunning)
	require.NoError(t, err)
	out := make([][]string, len(el.Nominations))
	for i, n := range el.Nominations {
		out[i] = n.Votes
	}
	return out
}

func TestCast_Revote(t *testing.T) {
	env := testutil.NewTestEnv(t, nil)
	ctx := context.Background()
	nominateABC(t, env)
	_, err := env.Engine.Start(ctx)
	require.NoError(t, err)

	reply, err := env.Engine.Cast(ctx, "v1", election.Selector{Index: 1})
	require.NoError(t, err)
	assert.Equal(t, "Ballot cast!", reply)

	env.Cast(t, "v2", 1)
	env.Cast(t, "v1", 3)
	env.Cast(t, "v1", 3)

	assert.Equal(t, [][]string{{"v2"}, {}, {"v1"}}, votesOf(t, env))
}

func TestCast_InvalidChoiceLeavesVotes(t *testing.T) {
	env := testutil.NewTestEnv(t, nil)
	ctx := context.Background()
	nominateABC(t, env)
	_, err := env.Engine.Start(ctx)
	require.NoError(t, err)
	env.Cast(t, "v1", 2)

	before := votesOf(t, env)
	for _, choice := range []int{0, 4} {
		_, err := env.Engine.Cast(ctx, "v1", election.Selector{Index: choice})
		assert.ErrorIs(t, err, models.ErrInvalidChoice)
	}
	assert.Equal(t, before, votesOf(t, env))
}

func TestCast_RandomSubset(t *testing.T) {
	env := testutil.NewTestEnv(t, func(n int) int { return n - 1 })
	ctx := context.Background()
	nominateABC(t, env)
	_, err := env.Engine.Start(ctx)
	require.NoError(t, err)

	_, err = env.Engine.Cast(ctx, "v1", election.Selector{Random: true, Among: []int{1, 2}})
	require.NoError(t, err)
	_, err = env.Engine.Cast(ctx, "v2", election.Selector{Random: true})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{}, {"v1"}, {"v2"}}, votesOf(t, env))
}

func TestCast_NoActiveElection(t *testing.T) {
	env := testutil.NewTestEnv(t, nil)
	env.Nominate(t, "tt1", "A", "alice")

	_, err := env.Engine.Cast(context.Background(), "v1", election.Selector{Index: 1})
	assert.ErrorIs(t, err, models.ErrNoActiveElection)
}

func TestCast_RequiresVoter(t *testing.T) {
	env := testutil.NewTestEnv(t, nil)

	_, err := env.Engine.Cast(context.Background(), " ", election.Selector{Index: 1})
	assert.Error(t, err)
}
