package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger for env ("dev" gets the console writer).
// APP_ENV=dev (or development) uses a human-friendly console writer and debug level.
func NewLogger(env string) zerolog.Logger {
	if env == "dev" || env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}
