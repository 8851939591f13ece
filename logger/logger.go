// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const milliTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Init sets the global level and output. An unknown level falls back to info.
// console selects human-readable output on stderr instead of JSON lines.
func Init(level string, console bool) {
	InitWriter(os.Stderr, level, console)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, level string, console bool) {
	zerolog.TimeFieldFormat = milliTimeFormat
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	out := w
	if console {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: milliTimeFormat}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	log.Debug().Str("level", lvl.String()).Bool("console", console).Msg("logger initialized")
}
