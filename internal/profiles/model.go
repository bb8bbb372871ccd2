// Package profiles holds the persisted per-user game record and the
// repository that stores it in the key-value store.
package profiles

import (
	"math"
	"time"
)

// UserData is the game state of one registered user.
type UserData struct {
	Username string
	// CredentialHash is opaque here; it is produced and verified elsewhere.
	CredentialHash string
	Points         uint16
	NextClaim      time.Time
	// Ready is derived from NextClaim and recomputed on every read.
	Ready bool
	Items ItemSet
}

// Profile pairs a store-generated id with its data.
type Profile struct {
	ID   string
	Data UserData
}

// NewUserData returns the state of a freshly registered user.
func NewUserData(username, credentialHash string, now time.Time) UserData {
	return UserData{
		Username:       username,
		CredentialHash: credentialHash,
		Points:         0,
		NextClaim:      now.UTC().Truncate(time.Second),
		Ready:          true,
		Items:          ItemSet{},
	}
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Data.Items = p.Data.Items.Clone()
	return &c
}

// HasItem reports whether the profile owns item.
func (d UserData) HasItem(item Item) bool {
	return d.Items.Has(item)
}

// AddPoints adds n points, saturating at the top of the 16-bit range.
func (d *UserData) AddPoints(n uint16) {
	if math.MaxUint16-d.Points < n {
		d.Points = math.MaxUint16
		return
	}
	d.Points += n
}
