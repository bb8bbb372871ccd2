package profiles

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"unicode/utf8"

	"github.com/dmitrijs2005/buttongame/internal/common"
	"github.com/dmitrijs2005/buttongame/internal/kvstore"
	"github.com/dmitrijs2005/buttongame/internal/logging"
)

// KV is the subset of the key-value store the repository needs.
// *kvstore.Store satisfies it.
type KV interface {
	Get(ctx context.Context, key []byte) ([]byte, bool, error)
	Insert(ctx context.Context, key, value []byte) error
	CompareAndSwap(ctx context.Context, key, prev, next []byte) (bool, error)
	Iterate(ctx context.Context) iter.Seq2[kvstore.Entry, error]
	GenerateID(ctx context.Context) (uint64, error)
}

// KVRepository stores each profile under its id (decimal text) with the
// binary record of codec.go as value.
type KVRepository struct {
	kv     KV
	logger logging.Logger
}

func NewKVRepository(kv KV, logger logging.Logger) *KVRepository {
	return &KVRepository{kv: kv, logger: logger}
}

func (r *KVRepository) GenerateID(ctx context.Context) (string, error) {
	id, err := r.kv.GenerateID(ctx)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(id, 10), nil
}

// Save overwrites the stored record; the last write wins.
func (r *KVRepository) Save(ctx context.Context, p *Profile) error {
	if err := r.kv.Insert(ctx, []byte(p.ID), Encode(p.Data)); err != nil {
		return fmt.Errorf("error saving profile %s: %w", p.ID, err)
	}
	return nil
}

// Load returns common.ErrNotFound when no record exists and
// common.ErrDataCorruption when the record cannot be decoded.
func (r *KVRepository) Load(ctx context.Context, id string) (*Profile, error) {
	raw, ok, err := r.kv.Get(ctx, []byte(id))
	if err != nil {
		return nil, fmt.Errorf("error loading profile %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, common.ErrNotFound)
	}
	data, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", id, err)
	}
	return &Profile{ID: id, Data: data}, nil
}

// List yields every decodable profile in store order. Entries whose key is
// not text or whose value does not decode are skipped.
func (r *KVRepository) List(ctx context.Context) iter.Seq2[*Profile, error] {
	return func(yield func(*Profile, error) bool) {
		for e, err := range r.kv.Iterate(ctx) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !utf8.Valid(e.Key) {
				r.logger.Warn(ctx, "skipping entry with non-text key", "key", fmt.Sprintf("%x", e.Key))
				continue
			}
			data, err := Decode(e.Value)
			if err != nil {
				r.logger.Warn(ctx, "skipping undecodable profile", "id", string(e.Key), "error", err)
				continue
			}
			if !yield(&Profile{ID: string(e.Key), Data: data}, nil) {
				return
			}
		}
	}
}

// FindByUsername scans the store and returns the first profile with the
// given username. This is O(n); a username index would be the next step if
// the user base grows.
func (r *KVRepository) FindByUsername(ctx context.Context, username string) (*Profile, error) {
	for p, err := range r.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("error searching username: %w", err)
		}
		if p.Data.Username == username {
			return p, nil
		}
	}
	return nil, common.ErrNotFound
}

// CompareAndSwap writes next only if the stored record still encodes to
// prev. A nil prev requires that no record exists under next.ID.
func (r *KVRepository) CompareAndSwap(ctx context.Context, prev, next *Profile) (bool, error) {
	if prev != nil && prev.ID != next.ID {
		return false, errors.New("compare-and-swap across different ids")
	}
	var old []byte
	if prev != nil {
		old = Encode(prev.Data)
	}
	ok, err := r.kv.CompareAndSwap(ctx, []byte(next.ID), old, Encode(next.Data))
	if err != nil {
		return false, fmt.Errorf("error swapping profile %s: %w", next.ID, err)
	}
	return ok, nil
}
