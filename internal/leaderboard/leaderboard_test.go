package leaderboard

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/dmitrijs2005/buttongame/internal/profiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	ps  []*profiles.Profile
	err error
}

func (f fakeLister) List(context.Context) iter.Seq2[*profiles.Profile, error] {
	return func(yield func(*profiles.Profile, error) bool) {
		for _, p := range f.ps {
			if !yield(p, nil) {
				return
			}
		}
		if f.err != nil {
			yield(nil, f.err)
		}
	}
}

func prof(name string, points uint16) *profiles.Profile {
	return &profiles.Profile{ID: name, Data: profiles.UserData{Username: name, Points: points}}
}

func TestBuild_SortedWithDeterministicTies(t *testing.T) {
	repo := fakeLister{ps: []*profiles.Profile{
		prof("carol", 5), prof("alice", 9), prof("bob", 5), prof("dave", 0),
	}}

	got, err := Build(context.Background(), repo)
	require.NoError(t, err)

	want := []Entry{
		{Rank: 1, Username: "alice", Points: 9},
		{Rank: 2, Username: "bob", Points: 5},
		{Rank: 2, Username: "carol", Points: 5},
		{Rank: 4, Username: "dave", Points: 0},
	}
	assert.Equal(t, want, got)
}

func TestBuild_LengthMatchesProfilesAndNonIncreasing(t *testing.T) {
	var ps []*profiles.Profile
	for i := range 40 {
		ps = append(ps, prof(string(rune('A'+i)), uint16((i*37)%11)))
	}

	got, err := Build(context.Background(), fakeLister{ps: ps})
	require.NoError(t, err)
	require.Len(t, got, len(ps))
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Points, got[i].Points)
	}
}

func TestBuild_Empty(t *testing.T) {
	got, err := Build(context.Background(), fakeLister{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBuild_PropagatesScanError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Build(context.Background(), fakeLister{ps: []*profiles.Profile{prof("a", 1)}, err: boom})
	require.ErrorIs(t, err, boom)
}
