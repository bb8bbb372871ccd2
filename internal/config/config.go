// Package config handles configuration for the game tools, including
// defaults, a JSON overlay, environment variables (optionally from a .env
// file) and command-line flags, applied in that order.
package config

import "time"

// Config holds runtime settings.
//
// Fields:
//   - DatabasePath: path of the store file, created if missing.
//   - BusyTimeout: how long a write waits for a competing writer.
//   - LogLevel: debug, info, warn or error.
//   - LogFormat: json or text.
//   - BcryptCost: work factor for new credential hashes.
type Config struct {
	DatabasePath string        `env:"BUTTONGAME_DATABASE_PATH"`
	BusyTimeout  time.Duration `env:"BUTTONGAME_BUSY_TIMEOUT"`
	LogLevel     string        `env:"BUTTONGAME_LOG_LEVEL"`
	LogFormat    string        `env:"BUTTONGAME_LOG_FORMAT"`
	BcryptCost   int           `env:"BUTTONGAME_BCRYPT_COST"`
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "database.db"
	c.BusyTimeout = 5 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.BcryptCost = 10
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
