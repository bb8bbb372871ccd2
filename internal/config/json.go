package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/buttongame/internal/flagx"
	"github.com/dmitrijs2005/buttongame/internal/timex"
)

// JsonConfig is the on-disk shape of the optional config file. Durations
// may be given as strings ("5s") or integer nanoseconds.
type JsonConfig struct {
	DatabasePath string         `json:"database_path"`
	BusyTimeout  timex.Duration `json:"busy_timeout"`
	LogLevel     string         `json:"log_level"`
	LogFormat    string         `json:"log_format"`
	BcryptCost   int            `json:"bcrypt_cost"`
}

// parseJson overlays the file named by -c/-config onto config. Fields left
// out of the file keep their current value. An unreadable or invalid file
// panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.DatabasePath != "" {
		config.DatabasePath = c.DatabasePath
	}
	if c.BusyTimeout.Duration != 0 {
		config.BusyTimeout = c.BusyTimeout.Duration
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.LogFormat != "" {
		config.LogFormat = c.LogFormat
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
}
