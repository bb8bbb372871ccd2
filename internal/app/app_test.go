package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/buttongame/internal/common"
	"github.com/dmitrijs2005/buttongame/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabasePath = filepath.Join(t.TempDir(), "game.db")
	c.LogLevel = "debug"
	c.LogFormat = "json"
	return c
}

func TestNewApp_WiresServices(t *testing.T) {
	var logs bytes.Buffer
	a, err := NewApp(context.Background(), testConfig(t), &logs)
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	p, err := a.Game.Register(ctx, "alice", "h")
	require.NoError(t, err)

	res, err := a.Game.Claim(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, res.Claimed)
	assert.Contains(t, logs.String(), `"msg":"point claimed"`)
}

func TestNewApp_DataSurvivesReopen(t *testing.T) {
	c := testConfig(t)
	ctx := context.Background()

	a, err := NewApp(ctx, c, &bytes.Buffer{})
	require.NoError(t, err)
	_, err = a.Game.Register(ctx, "alice", "h")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := NewApp(ctx, c, &bytes.Buffer{})
	require.NoError(t, err)
	defer b.Close()
	_, err = b.Game.FindByUsername(ctx, "alice")
	require.NoError(t, err)
}

func TestNewApp_Errors(t *testing.T) {
	c := testConfig(t)
	c.LogFormat = "xml"
	_, err := NewApp(context.Background(), c, &bytes.Buffer{})
	require.Error(t, err)

	c = testConfig(t)
	c.DatabasePath = filepath.Join(t.TempDir(), "missing", "game.db")
	_, err = NewApp(context.Background(), c, &bytes.Buffer{})
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestRun_PassesErrorThrough(t *testing.T) {
	a, err := NewApp(context.Background(), testConfig(t), &bytes.Buffer{})
	require.NoError(t, err)
	defer a.Close()

	boom := errors.New("boom")
	err = a.Run(context.Background(), func(ctx context.Context) error {
		require.NoError(t, ctx.Err())
		return boom
	})
	require.ErrorIs(t, err, boom)
}
