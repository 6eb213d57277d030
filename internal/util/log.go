package util

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogFromContext returns a request-specific zerolog instance using the provided context.
// The returned logger will have the request ID as well as some other value predefined.
// If no logger is associated with the context provided, the global zerolog instance
// will be returned instead - this function will _always_ return a valid (enabled) logger.
// Should you ever need to force a disabled logger for a context, use `zerolog.Nop().WithContext(ctx)`
// and pass the context returned to other code/funcs.
func LogFromContext(ctx context.Context) *zerolog.Logger {
	l := log.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		if ShouldDisableLogger(ctx) {
			return l
		}
		l = &log.Logger
	}
	return l
}

type disableLoggerKey struct{}

// DisableLogger toggles the indication whether `LogFromContext` should return a disabled logger.
func DisableLogger(ctx context.Context, shouldDisable bool) context.Context {
	return context.WithValue(ctx, disableLoggerKey{}, shouldDisable)
}

// ShouldDisableLogger checks whether the logger instance should be disabled for the provided context.
func ShouldDisableLogger(ctx context.Context) bool {
	if s := ctx.Value(disableLoggerKey{}); s != nil {
		return s.(bool) //nolint:forcetypeassert
	}

	return false
}

// ConfigureGlobalLogger sets the global zerolog level and console output.
func ConfigureGlobalLogger(level zerolog.Level, prettyPrintConsole bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(level)

	if prettyPrintConsole {
		log.Logger = log.Output(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.TimeFormat = "15:04:05"
			w.Out = os.Stderr
		}))
		return
	}

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}
