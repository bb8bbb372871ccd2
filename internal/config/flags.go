package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/buttongame/internal/flagx"
)

// ValueFlags lists every flag that consumes the following argument, so
// commands can separate their positional words from configuration.
var ValueFlags = []string{"-c", "-config", "-d", "-w", "-l", "-f", "-b"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   store file path
//	-w int      busy timeout, milliseconds
//	-l string   log level
//	-f string   log format (json|text)
//	-b int      bcrypt cost
//
// os.Args is filtered first so that command words and -c do not reach the
// flag set.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-w", "-l", "-f", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabasePath, "d", config.DatabasePath, "store file path")
	busyTimeout := fs.Int("w", int(config.BusyTimeout.Milliseconds()), "busy timeout (in milliseconds)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.BusyTimeout = time.Duration(*busyTimeout) * time.Millisecond
}
