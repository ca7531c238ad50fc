// Package logx is the process-wide logging facade. It keeps the printf
// call style used across the services while delegating formatting and
// leveling to zerolog.
package logx

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level mirrors zerolog levels so callers never import zerolog directly.
type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	With().Timestamp().Logger()

// SetLevel adjusts the minimum emitted level for the whole process.
func SetLevel(l Level) {
	logger = logger.Level(zerolog.Level(l))
}

func Debugf(format string, args ...any) {
	logger.Debug().Msgf(format, args...)
}

func Infof(format string, args ...any) {
	logger.Info().Msgf(format, args...)
}

func Info(msg string) {
	logger.Info().Msg(msg)
}

func Warnf(format string, args ...any) {
	logger.Warn().Msgf(format, args...)
}

func Warn(msg string) {
	logger.Warn().Msg(msg)
}

func Errorf(format string, args ...any) {
	logger.Error().Msgf(format, args...)
}

// Fatalf logs at fatal level and exits the process.
func Fatalf(format string, args ...any) {
	logger.Fatal().Msgf(format, args...)
}
