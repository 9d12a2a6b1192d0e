package logger

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey int8

const ctxKeyLogger ctxKey = iota

// New builds a production zap logger at the named level.
func New(level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(ParseLevel(level))

	return config.Build()
}

// ParseLevel maps a config string to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "dpanic":
		return zap.DPanicLevel
	case "panic":
		return zap.PanicLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

// Middleware puts sugar on every request context.
func Middleware(sugar *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), sugar)))
		})
	}
}

func WithLogger(ctx context.Context, sugar *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger, sugar)
}

// FromContext returns the request logger, or a no-op logger when none is set.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if sugar, ok := ctx.Value(ctxKeyLogger).(*zap.SugaredLogger); ok {
		return sugar
	}

	return zap.NewNop().Sugar()
}
