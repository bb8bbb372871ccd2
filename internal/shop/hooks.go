package shop

import (
	"context"

	"github.com/dmitrijs2005/buttongame/internal/profiles"
)

// fiftyFiftyHook pays 0 or 2 points with equal odds. The item is consumed.
func fiftyFiftyHook(ctx context.Context, e *Engine, p *profiles.Profile, res *Result) error {
	bonus := uint16(e.intN(2) * 2)
	p.Data.AddPoints(bonus)
	p.Data.Items.Remove(profiles.FiftyFifty)
	res.Bonus = bonus
	return nil
}

// thanosHook zeroes the points of half of the other profiles, chosen at
// random. Victims are taken from a snapshot and written with a per-id
// compare-and-swap; a victim that is locked, changed since the snapshot or
// fails to write is skipped, never retried. Only a failed snapshot aborts
// the purchase. The buyer is never a victim. The item is consumed.
func thanosHook(ctx context.Context, e *Engine, p *profiles.Profile, res *Result) error {
	var pool []*profiles.Profile
	for other, err := range e.repo.List(ctx) {
		if err != nil {
			return err
		}
		if other.ID == p.ID {
			continue
		}
		pool = append(pool, other)
	}

	e.shuffle(pool)
	half := len(pool) / 2

	for _, victim := range pool[:half] {
		unlock, ok := e.locks.TryLock(victim.ID)
		if !ok {
			e.logger.Warn(ctx, "snap skipped busy profile", "id", victim.ID)
			continue
		}

		next := victim.Clone()
		next.Data.Points = 0
		swapped, err := e.repo.CompareAndSwap(ctx, victim, next)
		unlock()
		if err != nil {
			e.logger.Warn(ctx, "snap skipped profile after write error", "id", victim.ID, "error", err)
			continue
		}
		if !swapped {
			e.logger.Warn(ctx, "snap skipped concurrently modified profile", "id", victim.ID)
			continue
		}
		res.Snapped = append(res.Snapped, victim.ID)
	}

	e.logger.Info(ctx, "snap", "buyer", p.ID, "pool", len(pool), "snapped", len(res.Snapped))
	p.Data.Items.Remove(profiles.Thanos)
	return nil
}
