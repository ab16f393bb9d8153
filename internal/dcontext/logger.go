// Package dcontext carries a structured logger on a context.Context, the
// way the registry the rsync CLI was lifted from does it: operations take a
// context, pull a logger out of it, and attach fields as they go deeper.
package dcontext

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	defaultLogger   *logrus.Entry = logrus.StandardLogger().WithField("go.version", runtime.Version())
	defaultLoggerMu sync.RWMutex
)

// Logger provides a leveled logging interface, matching *logrus.Entry's
// surface so either can be carried on a context.
type Logger interface {
	Print(args ...any)
	Printf(format string, args ...any)
	Println(args ...any)

	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Fatalln(args ...any)

	Debug(args ...any)
	Debugf(format string, args ...any)
	Debugln(args ...any)

	Error(args ...any)
	Errorf(format string, args ...any)
	Errorln(args ...any)

	Info(args ...any)
	Infof(format string, args ...any)
	Infoln(args ...any)

	Warn(args ...any)
	Warnf(format string, args ...any)
	Warnln(args ...any)

	WithError(err error) *logrus.Entry
}

type loggerKey struct{}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger returns the logger attached to ctx, or the package default if
// none was attached, optionally decorated with the named context values.
func GetLogger(ctx context.Context, keys ...any) Logger {
	return getLogger(ctx, nil, keys...)
}

// GetLoggerWithFields returns the attached logger with the given extra
// key/value fields, without affecting ctx.
func GetLoggerWithFields(ctx context.Context, fields map[any]any, keys ...any) Logger {
	return getLogger(ctx, fields, keys...)
}

func getLogger(ctx context.Context, fields map[any]any, keys ...any) Logger {
	logger := getDefaultLogger()
	if ctx != nil {
		if ctxLogger, ok := ctx.Value(loggerKey{}).(Logger); ok {
			logger = ctxLogger
		}
	}

	fields2 := logrus.Fields{}
	for k, v := range fields {
		fields2[fmt.Sprint(k)] = v
	}
	for _, key := range keys {
		if v := ctx.Value(key); v != nil {
			fields2[fmt.Sprint(key)] = v
		}
	}

	if len(fields2) == 0 {
		return logger
	}
	if entry, ok := logger.(*logrus.Entry); ok {
		return entry.WithFields(fields2)
	}
	return logger
}

func getDefaultLogger() Logger {
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger replaces the package-level fallback logger, used by the
// CLI entrypoint once it has parsed configuration and can set a level and
// formatter.
func SetDefaultLogger(logger *logrus.Entry) {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = logger
}

// Background returns a non-nil, empty context, the root of a call chain's
// context tree. It carries no logger, so GetLogger on it returns the package
// default.
func Background() context.Context {
	return context.Background()
}

// WithValues returns a context carrying each key/value pair in values,
// retrievable via GetLogger's keys argument (pass the same string key).
func WithValues(ctx context.Context, values map[string]interface{}) context.Context {
	for k, v := range values {
		ctx = context.WithValue(ctx, k, v)
	}
	return ctx
}

