// Package quick offers package-level logging through a lazily created default Logger.
// Until reconfigured with Config, the default Logger prints to the console.
package quick

import (
	"context"
	"sync"
	"time"

	"github.com/LixenWraith/logease"
)

// shutdownTimeout bounds the drain of the previous default Logger on reconfiguration.
const shutdownTimeout = 2 * time.Second

var (
	defaultMu     sync.RWMutex
	defaultLogger *logease.Logger
)

// Default returns the package-level Logger, creating it with a synchronous console
// destination on first use.
func Default() *logease.Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = logease.New(logease.NewConsole(logease.WithAsync(false)))
	}
	return defaultLogger
}

// SetDefault replaces the package-level Logger and shuts the previous one down.
func SetDefault(l *logease.Logger) {
	defaultMu.Lock()
	old := defaultLogger
	defaultLogger = l
	defaultMu.Unlock()

	if old != nil && old != l {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = old.Shutdown(ctx)
	}
}

// Verbose logs a verbose message.
// Message is dropped if no destination accepts verbose.
func Verbose(args ...any) {
	Default().Custom(logease.LevelVerbose, sprint(args), logease.Caller(1))
}

// Debug logs a debug message.
// Message is dropped if no destination accepts debug.
func Debug(args ...any) {
	Default().Custom(logease.LevelDebug, sprint(args), logease.Caller(1))
}

// Info logs an info message.
// Message is dropped if no destination accepts info.
func Info(args ...any) {
	Default().Custom(logease.LevelInfo, sprint(args), logease.Caller(1))
}

// Warning logs a warning message.
// Message is dropped if no destination accepts warning.
func Warning(args ...any) {
	Default().Custom(logease.LevelWarning, sprint(args), logease.Caller(1))
}

// Error logs an error message.
// Message is dropped if no destination accepts error.
func Error(args ...any) {
	Default().Custom(logease.LevelError, sprint(args), logease.Caller(1))
}

// Flush waits for the default Logger's queued events to be written.
func Flush(ctx context.Context) error {
	return Default().Flush(ctx)
}

// Shutdown performs a graceful shutdown of the default Logger with the default timeout.
func Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = Default().Shutdown(ctx)
}
