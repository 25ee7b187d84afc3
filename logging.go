package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// newLogger builds the process logger. The console format writes
// human-readable lines to stderr; json writes raw zerolog output for log
// collectors.
func newLogger(level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("log level: %w", err)
	}

	var logger zerolog.Logger
	switch format {
	case "console":
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	case "json":
		logger = zerolog.New(os.Stderr)
	default:
		return zerolog.Logger{}, fmt.Errorf("log format %q (want console or json)", format)
	}
	return logger.Level(lvl).With().Timestamp().Logger(), nil
}
