package profiles

import (
	"context"
	"errors"
	"iter"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/buttongame/internal/common"
	"github.com/dmitrijs2005/buttongame/internal/kvstore"
	"github.com/dmitrijs2005/buttongame/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*KVRepository, *kvstore.Store) {
	t.Helper()
	s, err := kvstore.Open(context.Background(), filepath.Join(t.TempDir(), "game.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return NewKVRepository(s, logging.Nop()), s
}

func register(t *testing.T, r *KVRepository, username string) *Profile {
	t.Helper()
	ctx := context.Background()
	id, err := r.GenerateID(ctx)
	require.NoError(t, err)
	p := &Profile{ID: id, Data: NewUserData(username, "hash-"+username, time.Now())}
	require.NoError(t, r.Save(ctx, p))
	return p
}

func TestSaveLoad(t *testing.T) {
	r, _ := newRepo(t)
	p := register(t, r, "alice")

	got, err := r.Load(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "alice", got.Data.Username)
	assert.Equal(t, "hash-alice", got.Data.CredentialHash)
}

func TestSave_LastWriteWins(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()
	p := register(t, r, "alice")

	a := p.Clone()
	a.Data.Points = 3
	b := p.Clone()
	b.Data.Points = 8
	require.NoError(t, r.Save(ctx, a))
	require.NoError(t, r.Save(ctx, b))

	got, err := r.Load(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 8, got.Data.Points)
}

func TestLoad_AbsentAndCorruptAreDistinct(t *testing.T) {
	r, s := newRepo(t)
	ctx := context.Background()

	_, err := r.Load(ctx, "404")
	require.ErrorIs(t, err, common.ErrNotFound)
	require.NotErrorIs(t, err, common.ErrDataCorruption)

	require.NoError(t, s.Insert(ctx, []byte("13"), []byte{0xde, 0xad}))
	_, err = r.Load(ctx, "13")
	require.ErrorIs(t, err, common.ErrDataCorruption)
	require.NotErrorIs(t, err, common.ErrNotFound)
}

func TestGenerateID_DecimalText(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	a, err := r.GenerateID(ctx)
	require.NoError(t, err)
	b, err := r.GenerateID(ctx)
	require.NoError(t, err)

	assert.Regexp(t, `^[0-9]+$`, a)
	assert.NotEqual(t, a, b)
}

func TestList_SkipsBadEntries(t *testing.T) {
	r, s := newRepo(t)
	ctx := context.Background()

	register(t, r, "alice")
	register(t, r, "bob")
	require.NoError(t, s.Insert(ctx, []byte{0xff, 0xfe}, Encode(NewUserData("ghost", "", time.Now()))))
	require.NoError(t, s.Insert(ctx, []byte("999"), []byte("garbage")))

	var names []string
	for p, err := range r.List(ctx) {
		require.NoError(t, err)
		names = append(names, p.Data.Username)
	}
	assert.ElementsMatch(t, []string{"alice", "bob"}, names)
}

func TestFindByUsername(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	register(t, r, "alice")
	bob := register(t, r, "bob")

	got, err := r.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.ID)

	_, err = r.FindByUsername(ctx, "carol")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestCompareAndSwap(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()
	p := register(t, r, "alice")

	stale := p.Clone()
	changed := p.Clone()
	changed.Data.Points = 5
	ok, err := r.CompareAndSwap(ctx, p, changed)
	require.NoError(t, err)
	require.True(t, ok)

	zeroed := stale.Clone()
	zeroed.Data.Points = 0
	ok, err = r.CompareAndSwap(ctx, stale, zeroed)
	require.NoError(t, err)
	assert.False(t, ok, "snapshot is stale")

	got, err := r.Load(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, got.Data.Points)

	_, err = r.CompareAndSwap(ctx, p, &Profile{ID: "other"})
	require.Error(t, err)
}

func TestCompareAndSwap_InsertIfAbsent(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	p := &Profile{ID: "77", Data: NewUserData("new", "h", time.Now())}
	ok, err := r.CompareAndSwap(ctx, nil, p)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.CompareAndSwap(ctx, nil, p)
	require.NoError(t, err)
	assert.False(t, ok)
}

// failingKV returns errors from every operation.
type failingKV struct{ err error }

func (f failingKV) Get(context.Context, []byte) ([]byte, bool, error) { return nil, false, f.err }
func (f failingKV) Insert(context.Context, []byte, []byte) error    { return f.err }
func (f failingKV) CompareAndSwap(context.Context, []byte, []byte, []byte) (bool, error) {
	return false, f.err
}
func (f failingKV) GenerateID(context.Context) (uint64, error) { return 0, f.err }
func (f failingKV) Iterate(context.Context) iter.Seq2[kvstore.Entry, error] {
	return func(yield func(kvstore.Entry, error) bool) { yield(kvstore.Entry{}, f.err) }
}

func TestRepository_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	r := NewKVRepository(failingKV{err: boom}, logging.Nop())
	ctx := context.Background()

	_, err := r.GenerateID(ctx)
	require.ErrorIs(t, err, boom)

	require.ErrorIs(t, r.Save(ctx, &Profile{ID: "1"}), boom)

	_, err = r.Load(ctx, "1")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, common.ErrNotFound)

	_, err = r.FindByUsername(ctx, "x")
	require.ErrorIs(t, err, boom)

	_, err = r.CompareAndSwap(ctx, nil, &Profile{ID: "1"})
	require.ErrorIs(t, err, boom)
}
