package launchkey

import "github.com/rs/zerolog"

// Logger receives diagnostic events from the SDK. Implementations must be
// safe for concurrent use. The zero configuration discards everything;
// see NewZerologLogger for a structured implementation.
type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

// nopLogger is the default Logger. It discards everything.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Errorf(string, ...any) {}

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger returns a Logger that writes through the given zerolog
// logger.
func NewZerologLogger(log zerolog.Logger) Logger {
	return zerologLogger{log: log}
}

func (z zerologLogger) Debugf(format string, args ...any) {
	z.log.Debug().Msgf(format, args...)
}

func (z zerologLogger) Errorf(format string, args ...any) {
	z.log.Error().Msgf(format, args...)
}
