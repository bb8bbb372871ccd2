// Package game implements the claim/cooldown state machine of a profile.
//
// A profile is READY when now >= NextClaim and COOLING otherwise. The state
// is never advanced by a timer; it is recomputed from NextClaim on every read.
package game

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/buttongame/internal/profiles"
)

const (
	BaseCooldown = 24 * time.Hour
	FastCooldown = 12 * time.Hour
)

// Status is the derived claim state.
type Status int

const (
	Ready Status = iota
	Cooling
)

func (s Status) String() string {
	if s == Ready {
		return "ready"
	}
	return "cooling"
}

// Cooldown returns the wait imposed by a successful claim.
func Cooldown(d profiles.UserData) time.Duration {
	if d.HasItem(profiles.DoubleSpeed) {
		return FastCooldown
	}
	return BaseCooldown
}

// StatusAt reports the state of d at now.
func StatusAt(d profiles.UserData, now time.Time) Status {
	if now.Before(d.NextClaim) {
		return Cooling
	}
	return Ready
}

// Remaining is the time left until the next claim, zero when ready.
func Remaining(d profiles.UserData, now time.Time) time.Duration {
	if StatusAt(d, now) == Ready {
		return 0
	}
	return d.NextClaim.Sub(now)
}

// Refresh recomputes the Ready flag for now and reports whether it changed.
// A true result means the stored record is stale and should be saved.
func Refresh(p *profiles.Profile, now time.Time) (dirty bool) {
	ready := StatusAt(p.Data, now) == Ready
	if p.Data.Ready == ready {
		return false
	}
	p.Data.Ready = ready
	return true
}

// Claim collects the periodic point. While cooling it changes nothing but
// the Ready flag and returns the wait message; otherwise it starts a new
// cooldown, adds one point and returns claimed=true.
func Claim(p *profiles.Profile, now time.Time) (wait string, claimed bool) {
	Refresh(p, now)
	if !p.Data.Ready {
		return FormatWait(Remaining(p.Data, now)), false
	}

	next := now.Add(Cooldown(p.Data)).UTC().Truncate(time.Second)
	if next.After(p.Data.NextClaim) {
		p.Data.NextClaim = next
	}
	p.Data.Ready = false
	p.Data.AddPoints(1)
	return "", true
}

// FormatWait renders a remaining duration in whole hours and minutes.
func FormatWait(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	return fmt.Sprintf("come back in %dh %dm to get again", h, m)
}
