// Package logger wraps zap with request-context awareness. Log lines
// emitted through the context helpers automatically carry trace and
// identity fields.
package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appctx "dealerdesk/internal/core/context"
	"dealerdesk/internal/core/security"
)

// Logger is a zap.SugaredLogger that knows how to enrich itself from a
// request context.
type Logger struct {
	*zap.SugaredLogger
}

// loggerKey carries the request-scoped Logger.
type loggerKey struct{}

// Config selects level and output format.
type Config struct {
	Level       string // debug, info, warn, error
	Development bool   // pretty print for dev
	OutputPaths []string
}

// New builds a Logger. Unknown level strings fall back to info.
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var config zap.Config
	if cfg.Development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	config.Level = zap.NewAtomicLevelAt(level)
	if len(cfg.OutputPaths) > 0 {
		config.OutputPaths = cfg.OutputPaths
	}

	zapLogger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	return &Logger{zapLogger.Sugar()}, nil
}

// Default is the fallback logger for contexts without an injected one.
func Default() *Logger {
	defaultOnce.Do(func() {
		config := zap.NewProductionConfig()
		config.OutputPaths = []string{"stdout"}
		zapLogger, _ := config.Build(zap.AddCallerSkip(1))
		defaultLogger = &Logger{zapLogger.Sugar()}
	})
	return defaultLogger
}

var (
	defaultOnce   sync.Once
	defaultLogger *Logger
)

// WithContext stamps the logger with the trace and identity carried in ctx,
// so every line from one request correlates.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	sugar := l.SugaredLogger

	// Trace correlation
	if trace := appctx.GetTrace(ctx); trace != nil {
		sugar = sugar.With(
			"trace_id", trace.TraceID,
			"request_id", trace.RequestID,
		)
	}

	// Owner scoping
	if ident := security.GetIdentity(ctx); ident != nil {
		sugar = sugar.With(
			"owner_id", ident.OwnerID,
			"user_id", ident.UserID,
		)
	}

	return &Logger{sugar}
}

// With returns a child logger with extra fields.
func (l *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{l.SugaredLogger.With(keysAndValues...)}
}

// --- Context-based logger access ---

// WithLogger injects the configured logger; FromContext retrieves it.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the request's logger, enriched from ctx. Falls back
// to Default for background work.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey{}).(*Logger); ok {
		return l.WithContext(ctx)
	}
	return Default().WithContext(ctx)
}

// Leveled helpers for code that has a context but no logger handle.

func Debug(ctx context.Context, msg string, kv ...any) { FromContext(ctx).Debugw(msg, kv...) }
func Info(ctx context.Context, msg string, kv ...any)  { FromContext(ctx).Infow(msg, kv...) }
func Warn(ctx context.Context, msg string, kv ...any)  { FromContext(ctx).Warnw(msg, kv...) }
func Error(ctx context.Context, msg string, kv ...any) { FromContext(ctx).Errorw(msg, kv...) }
