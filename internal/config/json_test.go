package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson_PartialOverlay(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bcrypt_cost": 4, "busy_timeout": 1000000}`), 0o600))
	os.Args = []string{"testbin", "-config", path}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	assert.Equal(t, 4, c.BcryptCost)
	assert.Equal(t, time.Millisecond, c.BusyTimeout)
	assert.Equal(t, "database.db", c.DatabasePath, "absent keys keep their value")
}

func TestParseJson_NoFlagNoop(t *testing.T) {
	isolate(t)

	c := &Config{}
	parseJson(c)
	assert.Equal(t, Config{}, *c)
}

func TestParseJson_Panics(t *testing.T) {
	dir := isolate(t)

	os.Args = []string{"testbin", "-c", filepath.Join(dir, "missing.json")}
	require.Panics(t, func() { parseJson(&Config{}) })

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"database_path":`), 0o600))
	os.Args = []string{"testbin", "-c", bad}
	require.Panics(t, func() { parseJson(&Config{}) })
}
