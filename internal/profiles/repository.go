package profiles

import (
	"context"
	"iter"
)

// Repository persists profiles.
//
// Username uniqueness is not enforced here; callers look the name up
// before inserting.
type Repository interface {
	GenerateID(ctx context.Context) (string, error)
	Save(ctx context.Context, p *Profile) error
	Load(ctx context.Context, id string) (*Profile, error)
	List(ctx context.Context) iter.Seq2[*Profile, error]
	FindByUsername(ctx context.Context, username string) (*Profile, error)
	CompareAndSwap(ctx context.Context, prev, next *Profile) (bool, error)
}
