// Package credentials hashes and checks account passwords. The game core
// only ever sees the resulting opaque hash.
package credentials

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/buttongame/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// MinCost and MaxCost bound the accepted bcrypt work factor.
const (
	MinCost = bcrypt.MinCost
	MaxCost = bcrypt.MaxCost
)

// Hash derives a bcrypt hash of password using cost. A cost outside
// [MinCost, MaxCost] is rejected.
func Hash(password []byte, cost int) (string, error) {
	if len(password) == 0 {
		return "", fmt.Errorf("%w: password is empty", common.ErrValidation)
	}
	if cost < MinCost || cost > MaxCost {
		return "", fmt.Errorf("%w: bcrypt cost %d out of range", common.ErrValidation, cost)
	}

	h, err := bcrypt.GenerateFromPassword(password, cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(h), nil
}

// Verify reports whether password matches hash. A malformed hash is an
// error; a plain mismatch is not.
func Verify(hash string, password []byte) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), password)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: credential hash: %v", common.ErrDataCorruption, err)
	}
}

// Wipe zeroes b so a password does not linger in memory after use.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
