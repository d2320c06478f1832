package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. Unknown levels fall back to
// info; format "pretty" selects the console writer, anything else JSON.
func Init(level, format string) zerolog.Logger {
	return InitWithWriter(level, format, os.Stdout)
}

func InitWithWriter(level, format string, out io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if format == "pretty" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(out).With().
		Timestamp().
		Logger()
	log.Logger = logger

	logger.Debug().
		Str("log_level", lvl.String()).
		Str("log_format", format).
		Msg("logger initialized")
	return logger
}
