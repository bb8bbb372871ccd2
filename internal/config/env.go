package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// dotEnvFile is read, if present, before the environment is parsed.
// Variables already set in the environment are not overridden.
var dotEnvFile = ".env"

// parseEnv overlays BUTTONGAME_* environment variables onto config. Unset
// variables leave fields untouched. Malformed values panic.
func parseEnv(config *Config) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
