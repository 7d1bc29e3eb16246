/*
Package logx wraps zerolog with a small set of leveled helpers.

Init configures the global logger once at startup: console output at debug
level during development, JSON at info level otherwise. The helpers accept an
optional key-value field list so call sites stay compact.
*/
package logx

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the process-wide zerolog instance.
func Init(development bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if development {
		logger = logger.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	log.Logger = logger.With().Caller().Logger()
}

// Logger returns the global zerolog.Logger.
func Logger() *zerolog.Logger {
	return &log.Logger
}

// pairs drops the field list when it has an odd length, which would otherwise
// make zerolog panic.
func pairs(level string, fields []any) []any {
	if len(fields)%2 != 0 {
		Logger().Warn().
			Str("log_level", level).
			Int("fields_count", len(fields)).
			Msg("logx call received odd number of fields, ignoring them")
		return nil
	}
	return fields
}

// Info logs at info level with optional key-value fields.
func Info(msg string, fields ...any) {
	Logger().Info().Fields(pairs("info", fields)).CallerSkipFrame(1).Msg(msg)
}

// Warn logs at warn level with optional key-value fields.
func Warn(msg string, fields ...any) {
	Logger().Warn().Fields(pairs("warn", fields)).CallerSkipFrame(1).Msg(msg)
}

// Error logs an error with optional key-value fields.
func Error(err error, msg string, fields ...any) {
	Logger().Error().Err(err).Fields(pairs("error", fields)).CallerSkipFrame(1).Msg(msg)
}

// Fatal logs the error and terminates the process.
func Fatal(err error, msg string, fields ...any) {
	Logger().Fatal().Err(err).Fields(pairs("fatal", fields)).CallerSkipFrame(1).Msg(msg)
}
