// Package log binds a zap logger to a context so that library code can emit
// structured logs without holding a logger of its own.
package log

import (
	"context"

	"github.com/on-the-ground/geocoin/shared/helper"
	"go.uber.org/zap"
)

// LogLevel defines the severity level for log messages.
type LogLevel string

const (
	// LogInfo is used for general informational messages.
	LogInfo LogLevel = "info"

	// LogWarn is used for potentially harmful situations.
	LogWarn LogLevel = "warn"

	// LogError is used for error events that might still allow the application to continue running.
	LogError LogLevel = "error"

	// LogDebug is used for debugging messages with detailed internal information.
	LogDebug LogLevel = "debug"
)

type handlerKey struct{}

// WithZapEffectHandler registers logger as the log handler of the returned context.
// The teardown syncs the logger and hands back the parent context.
func WithZapEffectHandler(
	ctx context.Context,
	logger *zap.Logger,
) (context.Context, func() context.Context) {
	return context.WithValue(ctx, handlerKey{}, logger), func() context.Context {
		if err := logger.Sync(); err != nil {
			logger.Debug("failed to sync logger", zap.Error(err))
		}
		return ctx
	}
}

// Effect emits a structured log entry through the handler bound to ctx.
// Without a handler the entry is dropped.
func Effect(ctx context.Context, level LogLevel, msg string, fields map[string]interface{}) {
	logger, ok := helper.GetTypedValueOf2[*zap.Logger](func() (any, bool) {
		v := ctx.Value(handlerKey{})
		return v, v != nil
	})
	if !ok {
		return
	}

	zfields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zfields = append(zfields, zap.Any(k, v))
	}

	switch level {
	case LogInfo:
		logger.Info(msg, zfields...)
	case LogWarn:
		logger.Warn(msg, zfields...)
	case LogError:
		logger.Error(msg, zfields...)
	case LogDebug:
		logger.Debug(msg, zfields...)
	default:
		logger.Info(msg, zfields...)
	}
}

// ParseLevel maps a config string onto a zap level, defaulting to info.
func ParseLevel(s string) zap.AtomicLevel {
	lvl, err := zap.ParseAtomicLevel(s)
	if err != nil {
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return lvl
}
