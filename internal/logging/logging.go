package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitDefault installs a console logger so that anything logged before flags
// are parsed still ends up readable.
func InitDefault() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Init configures the global logger. format is "console" or "json".
func Init(level, format string, noColor bool) error {
	return initWriter(os.Stderr, level, format, noColor)
}

func initWriter(out io.Writer, level, format string, noColor bool) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	case "", "console":
		log.Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.TimeOnly,
			NoColor:    noColor,
		}).With().Timestamp().Logger()
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	zerolog.DefaultContextLogger = &log.Logger
	return nil
}
