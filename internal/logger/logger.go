// Package logger provides structured logging for the invokers CLI.
// Records go through a tint slog handler on stderr. Colours are enabled only
// when the output is a terminal. Verbose mode lowers the level to debug.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	base              = slog.LevelInfo
	level             = new(slog.LevelVar)
	log     *slog.Logger
)

func init() {
	rebuild()
}

// rebuild replaces the handler. Callers hold mu.
func rebuild() {
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(base)
	}
	log = slog.New(tint.NewHandler(output, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(output),
	}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SetVerbose enables or disables verbose (debug) logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	rebuild()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// SetLevel sets the base level from its name ("debug", "info", "warn", "error").
// Verbose mode still forces debug.
func SetLevel(name string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return fmt.Errorf("parsing log level %q: %w", name, err)
	}
	mu.Lock()
	defer mu.Unlock()
	base = l
	rebuild()
	return nil
}

// Logger returns the current logger for components that take a *slog.Logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// Section logs a section header at debug level.
func Section(name string) {
	Logger().Debug("=== " + name + " ===")
}
