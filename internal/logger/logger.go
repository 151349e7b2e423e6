package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the process logger. JSON to stderr by default; a human-readable
// console writer when running in development.
func New() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)
		return logger
	}
	return logger.Level(zerolog.InfoLevel)
}
