// Package leaderboard ranks every profile by points.
package leaderboard

import (
	"context"
	"fmt"
	"iter"
	"sort"

	"github.com/dmitrijs2005/buttongame/internal/profiles"
)

// Entry is one leaderboard row. Rank starts at 1; equal points share a rank.
type Entry struct {
	Rank     int
	Username string
	Points   uint16
}

// Lister is the part of the profile repository the leaderboard reads.
type Lister interface {
	List(ctx context.Context) iter.Seq2[*profiles.Profile, error]
}

// Build scans all profiles and sorts them by points, highest first, then by
// username.
func Build(ctx context.Context, repo Lister) ([]Entry, error) {
	var out []Entry
	for p, err := range repo.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("error building leaderboard: %w", err)
		}
		out = append(out, Entry{Username: p.Data.Username, Points: p.Data.Points})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].Username < out[j].Username
	})

	for i := range out {
		if i > 0 && out[i].Points == out[i-1].Points {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
	}
	return out, nil
}
