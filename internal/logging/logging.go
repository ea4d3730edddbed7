// Package logging builds the zerolog.Logger every foresight command
// shares, following the console-writer-to-stderr convention used
// elsewhere in the pipeline-tooling ecosystem this project draws on.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console-formatted logger writing to stderr at the given
// level name (debug/info/warn/error/disabled). An unrecognized level
// falls back to info rather than failing startup over a typo in a flag.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}).With().Timestamp().Logger().Level(lvl)

	return logger
}
